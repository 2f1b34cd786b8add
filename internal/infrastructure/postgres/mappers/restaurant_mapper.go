package mappers

import (
	"github.com/LavaJover/shvark-deal-service/internal/domain"
	"github.com/LavaJover/shvark-deal-service/internal/infrastructure/postgres/models"
)

func ToDomainRestaurant(model *models.RestaurantModel) *domain.Restaurant {
	return &domain.Restaurant{
		ID:               model.ID,
		SubscriptionTier: domain.SubscriptionTier(model.SubscriptionTier),
		Latitude:         model.Latitude,
		Longitude:        model.Longitude,
		UpdatedAt:        model.UpdatedAt.UTC(),
	}
}

func ToGORMRestaurant(restaurant *domain.Restaurant) *models.RestaurantModel {
	return &models.RestaurantModel{
		ID:               restaurant.ID,
		SubscriptionTier: string(restaurant.SubscriptionTier),
		Latitude:         restaurant.Latitude,
		Longitude:        restaurant.Longitude,
		UpdatedAt:        restaurant.UpdatedAt.UTC(),
	}
}
