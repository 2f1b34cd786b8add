package handlers

import (
	"net/http"

	"github.com/LavaJover/shvark-deal-service/internal/delivery/http/dto/deal/request"
	"github.com/LavaJover/shvark-deal-service/internal/delivery/http/dto/deal/response"
	"github.com/LavaJover/shvark-deal-service/internal/usecase/deal"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type DealHandler struct {
	uc       deal.DealUsecase
	validate *validator.Validate
}

func NewDealHandler(uc deal.DealUsecase, validate *validator.Validate) *DealHandler {
	if validate == nil {
		validate = NewValidator()
	}
	return &DealHandler{uc: uc, validate: validate}
}

// CreateDeal stores the deal and immediately tries to activate it. A quota
// rejection does not fail the request: the deal is kept as a draft and the
// response carries the quota details.
func (h *DealHandler) CreateDeal(w http.ResponseWriter, r *http.Request) {
	var req request.CreateDealRequest
	if err := decodeAndValidate(r, h.validate, &req); err != nil {
		writeError(w, err)
		return
	}

	out, err := h.uc.CreateDeal(r.Context(), toCreateDealInput(&req))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := response.CreateDealResponse{
		Deal:       toDealResponse(&out.Deal),
		Activation: response.ActivationResponse{Activated: out.Deal.IsActive},
	}
	if out.Quota != nil {
		resp.Activation.Quota = quotaResponse(out.Quota)
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *DealHandler) GetDeal(w http.ResponseWriter, r *http.Request) {
	d, err := h.uc.GetDeal(r.Context(), chi.URLParam(r, "dealID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDealResponse(d))
}

func (h *DealHandler) ActivateDeal(w http.ResponseWriter, r *http.Request) {
	d, err := h.uc.TryActivate(r.Context(), chi.URLParam(r, "dealID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDealResponse(d))
}

func (h *DealHandler) DeactivateDeal(w http.ResponseWriter, r *http.Request) {
	d, err := h.uc.Deactivate(r.Context(), chi.URLParam(r, "dealID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDealResponse(d))
}
