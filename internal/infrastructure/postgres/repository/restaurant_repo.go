package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/LavaJover/shvark-deal-service/internal/domain"
	"github.com/LavaJover/shvark-deal-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-deal-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultRestaurantRepository struct {
	DB *gorm.DB
}

func NewDefaultRestaurantRepository(db *gorm.DB) *DefaultRestaurantRepository {
	return &DefaultRestaurantRepository{DB: db}
}

func (r *DefaultRestaurantRepository) GetRestaurantByID(ctx context.Context, restaurantID string) (*domain.Restaurant, error) {
	return r.getRestaurant(conn(ctx, r.DB), restaurantID)
}

func (r *DefaultRestaurantRepository) GetRestaurantByIDForUpdate(ctx context.Context, restaurantID string) (*domain.Restaurant, error) {
	return r.getRestaurant(conn(ctx, r.DB).Clauses(clause.Locking{Strength: "UPDATE"}), restaurantID)
}

func (r *DefaultRestaurantRepository) getRestaurant(db *gorm.DB, restaurantID string) (*domain.Restaurant, error) {
	var restaurant models.RestaurantModel
	if err := db.First(&restaurant, "id = ?", restaurantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("get restaurant %s: %w", restaurantID, err)
	}
	return mappers.ToDomainRestaurant(&restaurant), nil
}

func (r *DefaultRestaurantRepository) UpsertRestaurant(ctx context.Context, restaurant *domain.Restaurant) error {
	restaurantModel := mappers.ToGORMRestaurant(restaurant)
	err := conn(ctx, r.DB).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"subscription_tier", "latitude", "longitude", "updated_at"}),
		}).
		Create(restaurantModel).Error
	if err != nil {
		return fmt.Errorf("upsert restaurant: %w", err)
	}
	return nil
}
