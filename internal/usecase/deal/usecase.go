package deal

import (
	"context"

	"github.com/LavaJover/shvark-deal-service/internal/clock"
	"github.com/LavaJover/shvark-deal-service/internal/domain"
	"github.com/LavaJover/shvark-deal-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-deal-service/internal/usecase"
	dealdto "github.com/LavaJover/shvark-deal-service/internal/usecase/dto/deal"
)

type DealUsecase interface {
	CreateDeal(ctx context.Context, input *dealdto.CreateDealInput) (*dealdto.DealOutput, error)
	GetDeal(ctx context.Context, dealID string) (*domain.Deal, error)
	// TryActivate admits the deal into the restaurant's active set or returns
	// *domain.QuotaExceededError.
	TryActivate(ctx context.Context, dealID string) (*domain.Deal, error)
	Deactivate(ctx context.Context, dealID string) (*domain.Deal, error)
}

type DefaultDealUsecase struct {
	Tx              domain.Transactor
	DealRepo        domain.DealRepository
	RestaurantRepo  domain.RestaurantRepository
	TierLimits      domain.TierLimits
	Clock           clock.Clock
	Publisher       domain.EventPublisher
	Metrics         *metrics.DealMetrics
	RequireApproval bool

	newDealCode func() string
}

func NewDefaultDealUsecase(
	tx domain.Transactor,
	dealRepo domain.DealRepository,
	restaurantRepo domain.RestaurantRepository,
	tierLimits domain.TierLimits,
	clk clock.Clock,
	eventPublisher domain.EventPublisher,
	dealMetrics *metrics.DealMetrics,
	requireApproval bool,
) *DefaultDealUsecase {
	if tierLimits == nil {
		tierLimits = domain.DefaultTierLimits()
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &DefaultDealUsecase{
		Tx:              tx,
		DealRepo:        dealRepo,
		RestaurantRepo:  restaurantRepo,
		TierLimits:      tierLimits,
		Clock:           clk,
		Publisher:       eventPublisher,
		Metrics:         dealMetrics,
		RequireApproval: requireApproval,
		newDealCode:     usecase.MustCodeGenerator(usecase.DealCodeLength),
	}
}
