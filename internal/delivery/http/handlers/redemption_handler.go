package handlers

import (
	"net/http"

	"github.com/LavaJover/shvark-deal-service/internal/delivery/http/dto/deal/request"
	"github.com/LavaJover/shvark-deal-service/internal/delivery/http/dto/deal/response"
	"github.com/LavaJover/shvark-deal-service/internal/domain"
	"github.com/LavaJover/shvark-deal-service/internal/usecase/redemption"
	redemptiondto "github.com/LavaJover/shvark-deal-service/internal/usecase/dto/redemption"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type RedemptionHandler struct {
	uc       redemption.RedemptionUsecase
	validate *validator.Validate
}

func NewRedemptionHandler(uc redemption.RedemptionUsecase, validate *validator.Validate) *RedemptionHandler {
	if validate == nil {
		validate = NewValidator()
	}
	return &RedemptionHandler{uc: uc, validate: validate}
}

func (h *RedemptionHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	input, ok := h.redeemInput(w, r)
	if !ok {
		return
	}
	out, err := h.uc.Redeem(r.Context(), input)
	h.writePlaced(w, out, err)
}

func (h *RedemptionHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	input, ok := h.redeemInput(w, r)
	if !ok {
		return
	}
	out, err := h.uc.Reserve(r.Context(), input)
	h.writePlaced(w, out, err)
}

// Validate always answers 200; is_valid tells the caller whether a redeem
// with the same body would currently succeed.
func (h *RedemptionHandler) Validate(w http.ResponseWriter, r *http.Request) {
	input, ok := h.redeemInput(w, r)
	if !ok {
		return
	}
	out, err := h.uc.Validate(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := response.ValidateResponse{
		IsValid:        out.IsValid,
		Errors:         toReasons(out.Reasons),
		DistanceMeters: out.DistanceMeters,
	}
	if out.ComputedDiscount != nil {
		resp.ComputedDiscount = &response.ComputedDiscountResponse{
			DiscountAmount: out.ComputedDiscount.DiscountAmount,
			FinalAmount:    out.ComputedDiscount.FinalAmount,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *RedemptionHandler) CompleteReservation(w http.ResponseWriter, r *http.Request) {
	red, err := h.uc.CompleteReservation(r.Context(), chi.URLParam(r, "redemptionID"))
	writeRedemption(w, red, err)
}

func (h *RedemptionHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	red, err := h.uc.CancelReservation(r.Context(), chi.URLParam(r, "redemptionID"))
	writeRedemption(w, red, err)
}

func (h *RedemptionHandler) GetRedemption(w http.ResponseWriter, r *http.Request) {
	red, err := h.uc.GetRedemption(r.Context(), chi.URLParam(r, "redemptionID"))
	writeRedemption(w, red, err)
}

func (h *RedemptionHandler) redeemInput(w http.ResponseWriter, r *http.Request) (*redemptiondto.RedeemInput, bool) {
	var req request.RedeemRequest
	if err := decodeAndValidate(r, h.validate, &req); err != nil {
		writeError(w, err)
		return nil, false
	}
	return toRedeemInput(chi.URLParam(r, "dealID"), &req), true
}

func (h *RedemptionHandler) writePlaced(w http.ResponseWriter, out *redemptiondto.RedeemOutput, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	if !out.Succeeded() {
		writeJSON(w, http.StatusUnprocessableEntity, response.RejectedResponse{Errors: toReasons(out.Reasons)})
		return
	}
	writeJSON(w, http.StatusCreated, response.RedeemResponse{
		Redemption:     toRedemptionResponse(out.Redemption),
		DiscountAmount: out.DiscountAmount,
		FinalAmount:    out.FinalAmount,
	})
}

func writeRedemption(w http.ResponseWriter, red *domain.Redemption, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRedemptionResponse(red))
}
