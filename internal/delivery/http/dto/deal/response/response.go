package response

import "time"

type DealResponse struct {
	ID             string    `json:"id"`
	Code           string    `json:"code"`
	RestaurantID   string    `json:"restaurant_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	DiscountType   string    `json:"discount_type"`
	DiscountValue  float64   `json:"discount_value"`
	MinOrderAmount float64   `json:"min_order_amount"`
	MaxUses        int       `json:"max_uses"`
	UsedCount      int       `json:"used_count"`
	RemainingUses  int       `json:"remaining_uses"`
	PerUserLimit   int       `json:"per_user_limit"`
	StartsAt       time.Time `json:"starts_at"`
	ExpiresAt      time.Time `json:"expires_at"`
	IsActive       bool      `json:"is_active"`
	Status         string    `json:"status"`
	ApprovalStatus string    `json:"approval_status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type CreateDealResponse struct {
	Deal       DealResponse       `json:"deal"`
	Activation ActivationResponse `json:"activation"`
}

type ActivationResponse struct {
	Activated bool                   `json:"activated"`
	Quota     *QuotaExceededResponse `json:"quota,omitempty"`
}

type QuotaExceededResponse struct {
	Error        string `json:"error"`
	Message      string `json:"message"`
	Tier         string `json:"tier"`
	Limit        int    `json:"limit"`
	CurrentCount int    `json:"current_count"`
	Deficit      int    `json:"deficit"`
}

type LocationResponse struct {
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	DistanceMeters *float64 `json:"distance_meters,omitempty"`
	Verified       bool     `json:"verified"`
}

type RedemptionResponse struct {
	ID               string            `json:"id"`
	VerificationCode string            `json:"verification_code"`
	DealID           string            `json:"deal_id"`
	CustomerID       string            `json:"customer_id"`
	OrderAmount      float64           `json:"order_amount"`
	DiscountAmount   float64           `json:"discount_amount"`
	FinalAmount      float64           `json:"final_amount"`
	Status           string            `json:"status"`
	Location         *LocationResponse `json:"location,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	RedeemedAt       *time.Time        `json:"redeemed_at,omitempty"`
}

type RedeemResponse struct {
	Redemption     RedemptionResponse `json:"redemption"`
	DiscountAmount float64            `json:"discount_amount"`
	FinalAmount    float64            `json:"final_amount"`
}

type ReasonResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RejectedResponse struct {
	Errors []ReasonResponse `json:"errors"`
}

type ValidateResponse struct {
	IsValid          bool                      `json:"is_valid"`
	Errors           []ReasonResponse          `json:"errors"`
	ComputedDiscount *ComputedDiscountResponse `json:"computed_discount,omitempty"`
	DistanceMeters   *float64                  `json:"distance_meters,omitempty"`
}

type ComputedDiscountResponse struct {
	DiscountAmount float64 `json:"discount_amount"`
	FinalAmount    float64 `json:"final_amount"`
}

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string             `json:"error"`
	Message string             `json:"message,omitempty"`
	Details []ValidationDetail `json:"details,omitempty"`
}
