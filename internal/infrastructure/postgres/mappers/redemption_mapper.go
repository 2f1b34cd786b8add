package mappers

import (
	"time"

	"github.com/LavaJover/shvark-deal-service/internal/domain"
	"github.com/LavaJover/shvark-deal-service/internal/infrastructure/postgres/models"
)

func ToDomainRedemption(model *models.RedemptionModel) *domain.Redemption {
	redemption := &domain.Redemption{
		ID:               model.ID,
		VerificationCode: model.VerificationCode,
		DealID:           model.DealID,
		CustomerID:       model.CustomerID,
		OrderAmount:      model.OrderAmount,
		DiscountAmount:   model.DiscountAmount,
		FinalAmount:      model.FinalAmount,
		Status:           domain.RedemptionStatus(model.Status),
		CreatedAt:        model.CreatedAt.UTC(),
		RedeemedAt:       utcPtr(model.RedeemedAt),
		UpdatedAt:        model.UpdatedAt.UTC(),
	}
	if model.Latitude != nil && model.Longitude != nil {
		redemption.Location = &domain.LocationSnapshot{
			Latitude:       *model.Latitude,
			Longitude:      *model.Longitude,
			DistanceMeters: model.DistanceMeters,
			Verified:       model.LocationVerified,
		}
	}
	return redemption
}

func ToGORMRedemption(redemption *domain.Redemption) *models.RedemptionModel {
	model := &models.RedemptionModel{
		ID:               redemption.ID,
		VerificationCode: redemption.VerificationCode,
		DealID:           redemption.DealID,
		CustomerID:       redemption.CustomerID,
		OrderAmount:      redemption.OrderAmount,
		DiscountAmount:   redemption.DiscountAmount,
		FinalAmount:      redemption.FinalAmount,
		Status:           string(redemption.Status),
		CreatedAt:        redemption.CreatedAt.UTC(),
		RedeemedAt:       utcPtr(redemption.RedeemedAt),
		UpdatedAt:        redemption.UpdatedAt.UTC(),
	}
	if loc := redemption.Location; loc != nil {
		lat, lon := loc.Latitude, loc.Longitude
		model.Latitude = &lat
		model.Longitude = &lon
		model.DistanceMeters = loc.DistanceMeters
		model.LocationVerified = loc.Verified
	}
	return model
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
