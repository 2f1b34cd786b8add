package dealdto

import "github.com/LavaJover/shvark-deal-service/internal/domain"

type DealOutput struct {
	Deal domain.Deal
	// Quota is set when the deal was saved but could not be activated.
	Quota *domain.QuotaExceededError
}
