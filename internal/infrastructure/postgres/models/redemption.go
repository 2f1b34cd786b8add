package models

import "time"

type RedemptionModel struct {
	ID               string    `gorm:"primaryKey;type:varchar(64)"`
	VerificationCode string    `gorm:"type:varchar(16);not null;index"`
	DealID           string    `gorm:"type:varchar(64);not null;index:idx_redemptions_deal_customer,priority:1"`
	CustomerID       string    `gorm:"type:varchar(64);not null;index:idx_redemptions_deal_customer,priority:2"`
	OrderAmount      float64   `gorm:"type:numeric(12,2);not null"`
	DiscountAmount   float64   `gorm:"type:numeric(12,2);not null"`
	FinalAmount      float64   `gorm:"type:numeric(12,2);not null"`
	Status           string    `gorm:"type:varchar(16);not null;index:idx_redemptions_deal_customer,priority:3;index:idx_redemptions_status_created,priority:1"`
	Latitude         *float64  `gorm:"type:double precision"`
	Longitude        *float64  `gorm:"type:double precision"`
	DistanceMeters   *float64  `gorm:"type:double precision"`
	LocationVerified bool      `gorm:"not null;default:false"`
	CreatedAt        time.Time `gorm:"index:idx_redemptions_status_created,priority:2"`
	RedeemedAt       *time.Time
	UpdatedAt        time.Time
}

func (RedemptionModel) TableName() string {
	return "redemptions"
}
