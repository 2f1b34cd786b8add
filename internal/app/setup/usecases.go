package setup

import (
	"strings"

	"github.com/LavaJover/shvark-deal-service/internal/config"
	"github.com/LavaJover/shvark-deal-service/internal/domain"
	"github.com/LavaJover/shvark-deal-service/internal/usecase/deal"
	"github.com/LavaJover/shvark-deal-service/internal/usecase/reclamation"
	"github.com/LavaJover/shvark-deal-service/internal/usecase/redemption"
	"github.com/LavaJover/shvark-deal-service/internal/usecase/restaurant"
)

type UseCases struct {
	DealUsecase        deal.DealUsecase
	RedemptionUsecase  redemption.RedemptionUsecase
	ReclamationUsecase reclamation.ReclamationUsecase
	RestaurantSync     *restaurant.SyncUsecase
}

func InitializeUseCases(deps *Dependencies) *UseCases {
	engine := deps.Config.Engine
	repos := deps.Repositories

	dealUsecase := deal.NewDefaultDealUsecase(
		repos.Tx,
		repos.DealRepo,
		repos.RestaurantRepo,
		tierLimits(engine),
		deps.Clock,
		deps.Events,
		deps.Metrics,
		engine.RequireApproval,
	)

	redemptionUsecase := redemption.NewDefaultRedemptionUsecase(
		repos.Tx,
		repos.DealRepo,
		repos.RedemptionRepo,
		repos.RestaurantRepo,
		redemption.NewEvaluator(engine.GeofenceRadiusMeters),
		deps.Clock,
		deps.Events,
		deps.Metrics,
		engine.ReclaimAfter,
	)

	reclamationUsecase := reclamation.NewDefaultReclamationUsecase(
		repos.Tx,
		repos.DealRepo,
		repos.RedemptionRepo,
		deps.SweepLease,
		deps.Clock,
		deps.Events,
		deps.Metrics,
		engine.ReclaimAfter,
		engine.SweepBatchSize,
		engine.SweepLockTTL,
	)

	return &UseCases{
		DealUsecase:        dealUsecase,
		RedemptionUsecase:  redemptionUsecase,
		ReclamationUsecase: reclamationUsecase,
		RestaurantSync:     restaurant.NewSyncUsecase(repos.RestaurantRepo, deps.Clock),
	}
}

func tierLimits(engine config.Engine) domain.TierLimits {
	if len(engine.TierLimits) == 0 {
		return domain.DefaultTierLimits()
	}
	limits := make(domain.TierLimits, len(engine.TierLimits))
	for tier, limit := range engine.TierLimits {
		limits[domain.SubscriptionTier(strings.ToUpper(tier))] = limit
	}
	return limits
}
