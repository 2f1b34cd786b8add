package handlers

import (
	"github.com/LavaJover/shvark-deal-service/internal/delivery/http/dto/deal/request"
	"github.com/LavaJover/shvark-deal-service/internal/delivery/http/dto/deal/response"
	"github.com/LavaJover/shvark-deal-service/internal/domain"
	dealdto "github.com/LavaJover/shvark-deal-service/internal/usecase/dto/deal"
	redemptiondto "github.com/LavaJover/shvark-deal-service/internal/usecase/dto/redemption"
)

func toCreateDealInput(req *request.CreateDealRequest) *dealdto.CreateDealInput {
	input := &dealdto.CreateDealInput{
		RestaurantID: req.RestaurantID,
		Code:         req.Code,
		Title:        req.Title,
		Description:  req.Description,
		DiscountParams: dealdto.DiscountParams{
			DiscountType:   req.DiscountType,
			DiscountValue:  req.DiscountValue,
			MinOrderAmount: req.MinOrderAmount,
		},
		CapacityParams: dealdto.CapacityParams{
			MaxUses:      req.MaxUses,
			PerUserLimit: req.PerUserLimit,
		},
	}
	if req.StartsAt != nil {
		input.StartsAt = *req.StartsAt
	}
	if req.ExpiresAt != nil {
		input.ExpiresAt = *req.ExpiresAt
	}
	return input
}

func toRedeemInput(dealID string, req *request.RedeemRequest) *redemptiondto.RedeemInput {
	input := &redemptiondto.RedeemInput{
		DealID:      dealID,
		Code:        req.Code,
		CustomerID:  req.CustomerID,
		OrderAmount: req.OrderAmount,
	}
	if req.Location != nil {
		input.Location = &redemptiondto.LocationInput{
			Latitude:  req.Location.Latitude,
			Longitude: req.Location.Longitude,
		}
	}
	return input
}

func toDealResponse(d *domain.Deal) response.DealResponse {
	return response.DealResponse{
		ID:             d.ID,
		Code:           d.Code,
		RestaurantID:   d.RestaurantID,
		Title:          d.Title,
		Description:    d.Description,
		DiscountType:   string(d.DiscountType),
		DiscountValue:  d.DiscountValue,
		MinOrderAmount: d.MinOrderAmount,
		MaxUses:        d.MaxUses,
		UsedCount:      d.UsedCount,
		RemainingUses:  d.RemainingUses,
		PerUserLimit:   d.PerUserLimit,
		StartsAt:       d.StartsAt,
		ExpiresAt:      d.ExpiresAt,
		IsActive:       d.IsActive,
		Status:         string(d.Status),
		ApprovalStatus: string(d.ApprovalStatus),
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func toRedemptionResponse(r *domain.Redemption) response.RedemptionResponse {
	resp := response.RedemptionResponse{
		ID:               r.ID,
		VerificationCode: r.VerificationCode,
		DealID:           r.DealID,
		CustomerID:       r.CustomerID,
		OrderAmount:      r.OrderAmount,
		DiscountAmount:   r.DiscountAmount,
		FinalAmount:      r.FinalAmount,
		Status:           string(r.Status),
		CreatedAt:        r.CreatedAt,
		RedeemedAt:       r.RedeemedAt,
	}
	if loc := r.Location; loc != nil {
		resp.Location = &response.LocationResponse{
			Latitude:       loc.Latitude,
			Longitude:      loc.Longitude,
			DistanceMeters: loc.DistanceMeters,
			Verified:       loc.Verified,
		}
	}
	return resp
}

func toReasons(reasons []domain.Reason) []response.ReasonResponse {
	out := make([]response.ReasonResponse, 0, len(reasons))
	for _, r := range reasons {
		out = append(out, response.ReasonResponse{Code: string(r.Code), Message: r.Message})
	}
	return out
}
