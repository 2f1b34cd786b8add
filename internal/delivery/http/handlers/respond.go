package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/LavaJover/shvark-deal-service/internal/delivery/http/dto/deal/response"
	"github.com/LavaJover/shvark-deal-service/internal/domain"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps usecase errors onto HTTP statuses. Anything it does not
// recognise is reported as an opaque internal error.
func writeError(w http.ResponseWriter, err error) {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		writeJSON(w, http.StatusBadRequest, response.ErrorResponse{
			Error:   "invalid_request",
			Message: reqErr.message,
			Details: reqErr.details,
		})
		return
	}

	if qe, ok := domain.IsQuotaExceeded(err); ok {
		writeJSON(w, http.StatusConflict, quotaResponse(qe))
		return
	}

	status, code := http.StatusInternalServerError, "internal_error"
	switch {
	case errors.Is(err, domain.ErrDealNotFound):
		status, code = http.StatusNotFound, "deal_not_found"
	case errors.Is(err, domain.ErrRedemptionNotFound):
		status, code = http.StatusNotFound, "redemption_not_found"
	case errors.Is(err, domain.ErrRestaurantNotFound):
		status, code = http.StatusNotFound, "restaurant_not_found"
	case errors.Is(err, domain.ErrInvalidDeal),
		errors.Is(err, domain.ErrInvalidOrderAmount),
		errors.Is(err, domain.ErrInvalidRedeemRequest):
		status, code = http.StatusBadRequest, "invalid_request"
	case errors.Is(err, domain.ErrDuplicateDealCode):
		status, code = http.StatusConflict, "duplicate_code"
	case errors.Is(err, domain.ErrRedemptionNotPending):
		status, code = http.StatusConflict, "redemption_not_pending"
	case errors.Is(err, domain.ErrReservationExpired):
		status, code = http.StatusGone, "reservation_expired"
	case errors.Is(err, domain.ErrCounterMismatch):
		code = "counter_mismatch"
	}

	if status == http.StatusInternalServerError {
		writeJSON(w, status, response.ErrorResponse{Error: code})
		return
	}
	writeJSON(w, status, response.ErrorResponse{Error: code, Message: err.Error()})
}

func quotaResponse(qe *domain.QuotaExceededError) *response.QuotaExceededResponse {
	return &response.QuotaExceededResponse{
		Error:        "QUOTA_EXCEEDED",
		Message:      qe.Error(),
		Tier:         string(qe.Tier),
		Limit:        qe.Limit,
		CurrentCount: qe.CurrentCount,
		Deficit:      qe.Deficit(),
	}
}
