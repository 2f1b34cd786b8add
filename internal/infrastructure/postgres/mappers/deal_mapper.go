package mappers

import (
	"github.com/LavaJover/shvark-deal-service/internal/domain"
	"github.com/LavaJover/shvark-deal-service/internal/infrastructure/postgres/models"
)

func ToDomainDeal(model *models.DealModel) *domain.Deal {
	return &domain.Deal{
		ID:             model.ID,
		Code:           model.Code,
		RestaurantID:   model.RestaurantID,
		Title:          model.Title,
		Description:    model.Description,
		DiscountType:   domain.DiscountType(model.DiscountType),
		DiscountValue:  model.DiscountValue,
		MinOrderAmount: model.MinOrderAmount,
		MaxUses:        model.MaxUses,
		UsedCount:      model.UsedCount,
		RemainingUses:  model.RemainingUses,
		PerUserLimit:   model.PerUserLimit,
		StartsAt:       model.StartsAt.UTC(),
		ExpiresAt:      model.ExpiresAt.UTC(),
		IsActive:       model.IsActive,
		Status:         domain.DealStatus(model.Status),
		ApprovalStatus: domain.ApprovalStatus(model.ApprovalStatus),
		Version:        model.Version,
		CreatedAt:      model.CreatedAt.UTC(),
		UpdatedAt:      model.UpdatedAt.UTC(),
	}
}

func ToGORMDeal(deal *domain.Deal) *models.DealModel {
	return &models.DealModel{
		ID:             deal.ID,
		Code:           deal.Code,
		RestaurantID:   deal.RestaurantID,
		Title:          deal.Title,
		Description:    deal.Description,
		DiscountType:   string(deal.DiscountType),
		DiscountValue:  deal.DiscountValue,
		MinOrderAmount: deal.MinOrderAmount,
		MaxUses:        deal.MaxUses,
		UsedCount:      deal.UsedCount,
		RemainingUses:  deal.RemainingUses,
		PerUserLimit:   deal.PerUserLimit,
		StartsAt:       deal.StartsAt.UTC(),
		ExpiresAt:      deal.ExpiresAt.UTC(),
		IsActive:       deal.IsActive,
		Status:         string(deal.Status),
		ApprovalStatus: string(deal.ApprovalStatus),
		Version:        deal.Version,
		CreatedAt:      deal.CreatedAt.UTC(),
		UpdatedAt:      deal.UpdatedAt.UTC(),
	}
}
