package models

import "time"

type RestaurantModel struct {
	ID               string   `gorm:"primaryKey;type:varchar(64)"`
	SubscriptionTier string   `gorm:"type:varchar(32);not null"`
	Latitude         *float64 `gorm:"type:double precision"`
	Longitude        *float64 `gorm:"type:double precision"`
	UpdatedAt        time.Time
}

func (RestaurantModel) TableName() string {
	return "restaurants"
}
