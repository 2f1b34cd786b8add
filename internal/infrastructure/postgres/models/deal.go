package models

import "time"

type DealModel struct {
	ID             string    `gorm:"primaryKey;type:varchar(64)"`
	Code           string    `gorm:"type:varchar(32);uniqueIndex;not null"`
	RestaurantID   string    `gorm:"type:varchar(64);not null;index:idx_deals_restaurant_active,priority:1"`
	Title          string    `gorm:"type:varchar(255);not null"`
	Description    string    `gorm:"type:text"`
	DiscountType   string    `gorm:"type:varchar(32);not null"`
	DiscountValue  float64   `gorm:"type:numeric(12,2);not null"`
	MinOrderAmount float64   `gorm:"type:numeric(12,2);not null;default:0"`
	MaxUses        int       `gorm:"not null"`
	UsedCount      int       `gorm:"not null;default:0"`
	RemainingUses  int       `gorm:"not null"`
	PerUserLimit   int       `gorm:"not null;default:1"`
	StartsAt       time.Time `gorm:"not null"`
	ExpiresAt      time.Time `gorm:"not null;index:idx_deals_restaurant_active,priority:4"`
	IsActive       bool      `gorm:"not null;default:false;index:idx_deals_restaurant_active,priority:2"`
	Status         string    `gorm:"type:varchar(16);not null;index:idx_deals_restaurant_active,priority:3"`
	ApprovalStatus string    `gorm:"type:varchar(16);not null"`
	Version        int64     `gorm:"not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (DealModel) TableName() string {
	return "deals"
}
