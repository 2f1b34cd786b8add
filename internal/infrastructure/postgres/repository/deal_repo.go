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

type DefaultDealRepository struct {
	DB *gorm.DB
}

func NewDefaultDealRepository(db *gorm.DB) *DefaultDealRepository {
	return &DefaultDealRepository{DB: db}
}

func (r *DefaultDealRepository) CreateDeal(ctx context.Context, deal *domain.Deal) error {
	dealModel := mappers.ToGORMDeal(deal)
	if err := conn(ctx, r.DB).Create(dealModel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateDealCode
		}
		return fmt.Errorf("create deal: %w", err)
	}
	return nil
}

func (r *DefaultDealRepository) GetDealByID(ctx context.Context, dealID string) (*domain.Deal, error) {
	return r.getDeal(conn(ctx, r.DB), dealID)
}

func (r *DefaultDealRepository) GetDealByIDForUpdate(ctx context.Context, dealID string) (*domain.Deal, error) {
	return r.getDeal(conn(ctx, r.DB).Clauses(clause.Locking{Strength: "UPDATE"}), dealID)
}

func (r *DefaultDealRepository) getDeal(db *gorm.DB, dealID string) (*domain.Deal, error) {
	var deal models.DealModel
	if err := db.First(&deal, "id = ?", dealID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDealNotFound
		}
		return nil, fmt.Errorf("get deal %s: %w", dealID, err)
	}
	return mappers.ToDomainDeal(&deal), nil
}

func (r *DefaultDealRepository) CountActiveDeals(ctx context.Context, restaurantID, excludeDealID string, now time.Time) (int, error) {
	var total int64
	err := conn(ctx, r.DB).
		Model(&models.DealModel{}).
		Where("restaurant_id = ?", restaurantID).
		Where("is_active = ?", true).
		Where("status = ?", string(domain.DealStatusActive)).
		Where("expires_at > ?", now.UTC()).
		Where("id <> ?", excludeDealID).
		Count(&total).Error
	if err != nil {
		return 0, fmt.Errorf("count active deals: %w", err)
	}
	return int(total), nil
}

func (r *DefaultDealRepository) SetDealActivation(ctx context.Context, dealID string, isActive bool, status domain.DealStatus, at time.Time) error {
	res := conn(ctx, r.DB).
		Model(&models.DealModel{}).
		Where("id = ?", dealID).
		Updates(map[string]interface{}{
			"is_active":  isActive,
			"status":     string(status),
			"updated_at": at.UTC(),
		})
	if res.Error != nil {
		return fmt.Errorf("set deal activation: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrDealNotFound
	}
	return nil
}

// ConsumeUse records one completed redemption against the deal.
func (r *DefaultDealRepository) ConsumeUse(ctx context.Context, dealID string, at time.Time) (bool, error) {
	return r.conditionalUpdate(ctx, dealID, "remaining_uses > 0 AND used_count < max_uses", map[string]interface{}{
		"used_count":     gorm.Expr("used_count + 1"),
		"remaining_uses": gorm.Expr("remaining_uses - 1"),
		"version":        gorm.Expr("version + 1"),
		"updated_at":     at.UTC(),
	})
}

// ReserveUse holds one unit of capacity for a pending redemption.
func (r *DefaultDealRepository) ReserveUse(ctx context.Context, dealID string, at time.Time) (bool, error) {
	return r.conditionalUpdate(ctx, dealID, "remaining_uses > 0", map[string]interface{}{
		"remaining_uses": gorm.Expr("remaining_uses - 1"),
		"version":        gorm.Expr("version + 1"),
		"updated_at":     at.UTC(),
	})
}

// ConfirmReservedUse turns a held unit into a completed one.
func (r *DefaultDealRepository) ConfirmReservedUse(ctx context.Context, dealID string, at time.Time) (bool, error) {
	return r.conditionalUpdate(ctx, dealID, "used_count + remaining_uses < max_uses", map[string]interface{}{
		"used_count": gorm.Expr("used_count + 1"),
		"version":    gorm.Expr("version + 1"),
		"updated_at": at.UTC(),
	})
}

// RestoreUses gives n held units back, never raising remaining_uses above
// max_uses - used_count.
func (r *DefaultDealRepository) RestoreUses(ctx context.Context, dealID string, n int, at time.Time) error {
	if n <= 0 {
		return nil
	}
	res := conn(ctx, r.DB).
		Model(&models.DealModel{}).
		Where("id = ?", dealID).
		Updates(map[string]interface{}{
			"remaining_uses": gorm.Expr(
				"CASE WHEN remaining_uses + ? > max_uses - used_count THEN max_uses - used_count ELSE remaining_uses + ? END", n, n,
			),
			"version":    gorm.Expr("version + 1"),
			"updated_at": at.UTC(),
		})
	if res.Error != nil {
		return fmt.Errorf("restore uses: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrDealNotFound
	}
	return nil
}

func (r *DefaultDealRepository) conditionalUpdate(ctx context.Context, dealID, condition string, updates map[string]interface{}) (bool, error) {
	res := conn(ctx, r.DB).
		Model(&models.DealModel{}).
		Where("id = ?", dealID).
		Where(condition).
		Updates(updates)
	if res.Error != nil {
		return false, fmt.Errorf("update deal counters: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}
