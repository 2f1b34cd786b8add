package redemption

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-deal-service/internal/clock"
	"github.com/LavaJover/shvark-deal-service/internal/domain"
	"github.com/LavaJover/shvark-deal-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-deal-service/internal/usecase"
	redemptiondto "github.com/LavaJover/shvark-deal-service/internal/usecase/dto/redemption"
)

const DefaultReclaimAfter = 24 * time.Hour

type RedemptionUsecase interface {
	// Redeem validates and completes a redemption in one transaction.
	Redeem(ctx context.Context, input *redemptiondto.RedeemInput) (*redemptiondto.RedeemOutput, error)
	// Validate runs the same checks as Redeem without writing anything.
	Validate(ctx context.Context, input *redemptiondto.RedeemInput) (*redemptiondto.ValidateOutput, error)

	Reserve(ctx context.Context, input *redemptiondto.RedeemInput) (*redemptiondto.RedeemOutput, error)
	CompleteReservation(ctx context.Context, redemptionID string) (*domain.Redemption, error)
	CancelReservation(ctx context.Context, redemptionID string) (*domain.Redemption, error)

	GetRedemption(ctx context.Context, redemptionID string) (*domain.Redemption, error)
}

type DefaultRedemptionUsecase struct {
	Tx             domain.Transactor
	DealRepo       domain.DealRepository
	RedemptionRepo domain.RedemptionRepository
	RestaurantRepo domain.RestaurantRepository
	Evaluator      *Evaluator
	Clock          clock.Clock
	Publisher      domain.EventPublisher
	Metrics        *metrics.DealMetrics
	ReclaimAfter   time.Duration

	newVerificationCode func() string
}

func NewDefaultRedemptionUsecase(
	tx domain.Transactor,
	dealRepo domain.DealRepository,
	redemptionRepo domain.RedemptionRepository,
	restaurantRepo domain.RestaurantRepository,
	evaluator *Evaluator,
	clk clock.Clock,
	eventPublisher domain.EventPublisher,
	dealMetrics *metrics.DealMetrics,
	reclaimAfter time.Duration,
) *DefaultRedemptionUsecase {
	if evaluator == nil {
		evaluator = NewEvaluator(DefaultGeofenceRadiusMeters)
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	if reclaimAfter <= 0 {
		reclaimAfter = DefaultReclaimAfter
	}
	return &DefaultRedemptionUsecase{
		Tx:                  tx,
		DealRepo:            dealRepo,
		RedemptionRepo:      redemptionRepo,
		RestaurantRepo:      restaurantRepo,
		Evaluator:           evaluator,
		Clock:               clk,
		Publisher:           eventPublisher,
		Metrics:             dealMetrics,
		ReclaimAfter:        reclaimAfter,
		newVerificationCode: usecase.MustCodeGenerator(usecase.VerificationCodeLength),
	}
}
