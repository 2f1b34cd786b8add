package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-deal-service/internal/domain"
	"github.com/LavaJover/shvark-deal-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-deal-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultRedemptionRepository struct {
	DB *gorm.DB
}

func NewDefaultRedemptionRepository(db *gorm.DB) *DefaultRedemptionRepository {
	return &DefaultRedemptionRepository{DB: db}
}

func (r *DefaultRedemptionRepository) CreateRedemption(ctx context.Context, redemption *domain.Redemption) error {
	redemptionModel := mappers.ToGORMRedemption(redemption)
	if err := conn(ctx, r.DB).Create(redemptionModel).Error; err != nil {
		return fmt.Errorf("create redemption: %w", err)
	}
	return nil
}

func (r *DefaultRedemptionRepository) GetRedemptionByID(ctx context.Context, redemptionID string) (*domain.Redemption, error) {
	return r.getRedemption(conn(ctx, r.DB), redemptionID)
}

func (r *DefaultRedemptionRepository) GetRedemptionByIDForUpdate(ctx context.Context, redemptionID string) (*domain.Redemption, error) {
	return r.getRedemption(conn(ctx, r.DB).Clauses(clause.Locking{Strength: "UPDATE"}), redemptionID)
}

func (r *DefaultRedemptionRepository) getRedemption(db *gorm.DB, redemptionID string) (*domain.Redemption, error) {
	var redemption models.RedemptionModel
	if err := db.First(&redemption, "id = ?", redemptionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRedemptionNotFound
		}
		return nil, fmt.Errorf("get redemption %s: %w", redemptionID, err)
	}
	return mappers.ToDomainRedemption(&redemption), nil
}

func (r *DefaultRedemptionRepository) CountCustomerRedemptions(ctx context.Context, dealID, customerID string, statuses ...domain.RedemptionStatus) (int, error) {
	query := conn(ctx, r.DB).
		Model(&models.RedemptionModel{}).
		Where("deal_id = ? AND customer_id = ?", dealID, customerID)

	if len(statuses) > 0 {
		query = query.Where("status IN ?", statusStrings(statuses))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count customer redemptions: %w", err)
	}
	return int(total), nil
}

func (r *DefaultRedemptionRepository) TransitionStatus(ctx context.Context, redemptionID string, from, to domain.RedemptionStatus, at time.Time) (bool, error) {
	if !from.CanTransition(to) {
		return false, fmt.Errorf("transition %s -> %s: %w", from, to, domain.ErrRedemptionNotPending)
	}

	updates := map[string]interface{}{
		"status":     string(to),
		"updated_at": at.UTC(),
	}
	if to == domain.RedemptionCompleted {
		updates["redeemed_at"] = at.UTC()
	}

	res := conn(ctx, r.DB).
		Model(&models.RedemptionModel{}).
		Where("id = ? AND status = ?", redemptionID, string(from)).
		Updates(updates)
	if res.Error != nil {
		return false, fmt.Errorf("transition redemption: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *DefaultRedemptionRepository) FindStalePending(ctx context.Context, createdBefore time.Time, limit int, excludeDealIDs ...string) ([]*domain.Redemption, error) {
	query := conn(ctx, r.DB).
		Where("status = ?", string(domain.RedemptionPending)).
		Where("created_at < ?", createdBefore.UTC())
	if len(excludeDealIDs) > 0 {
		query = query.Where("deal_id NOT IN ?", excludeDealIDs)
	}
	query = query.Order("created_at ASC").Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var redemptionModels []models.RedemptionModel
	if err := query.Find(&redemptionModels).Error; err != nil {
		return nil, fmt.Errorf("find stale pending redemptions: %w", err)
	}

	redemptions := make([]*domain.Redemption, len(redemptionModels))
	for i := range redemptionModels {
		redemptions[i] = mappers.ToDomainRedemption(&redemptionModels[i])
	}
	return redemptions, nil
}

func (r *DefaultRedemptionRepository) ExpireRedemptions(ctx context.Context, ids []string, at time.Time) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := conn(ctx, r.DB).
		Model(&models.RedemptionModel{}).
		Where("id IN ?", ids).
		Where("status = ?", string(domain.RedemptionPending)).
		Updates(map[string]interface{}{
			"status":     string(domain.RedemptionExpired),
			"updated_at": at.UTC(),
		})
	if res.Error != nil {
		return 0, fmt.Errorf("expire redemptions: %w", res.Error)
	}
	return int(res.RowsAffected), nil
}

func statusStrings(statuses []domain.RedemptionStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
