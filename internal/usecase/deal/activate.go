package deal

import (
	"context"
	"errors"
	"fmt"

	"github.com/LavaJover/shvark-deal-service/internal/domain"
)

func (uc *DefaultDealUsecase) TryActivate(ctx context.Context, dealID string) (*domain.Deal, error) {
	now := uc.Clock.Now()
	var (
		deal      *domain.Deal
		activated bool
	)

	err := uc.Tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		deal, err = uc.DealRepo.GetDealByIDForUpdate(ctx, dealID)
		if err != nil {
			return err
		}
		if deal.IsActive && deal.Status == domain.DealStatusActive {
			return nil
		}

		restaurant, err := uc.RestaurantRepo.GetRestaurantByIDForUpdate(ctx, deal.RestaurantID)
		if err != nil {
			return err
		}

		// Tiers missing from the table never block activation.
		if limit, limited := uc.TierLimits.Limit(restaurant.SubscriptionTier); limited {
			current, err := uc.DealRepo.CountActiveDeals(ctx, deal.RestaurantID, deal.ID, now)
			if err != nil {
				return err
			}
			if current >= limit {
				return &domain.QuotaExceededError{
					Tier:         restaurant.SubscriptionTier,
					Limit:        limit,
					CurrentCount: current,
				}
			}
		}

		if err := uc.DealRepo.SetDealActivation(ctx, deal.ID, true, domain.DealStatusActive, now); err != nil {
			return err
		}
		deal.IsActive = true
		deal.Status = domain.DealStatusActive
		deal.UpdatedAt = now
		activated = true
		return nil
	})
	if err != nil {
		if qe, ok := domain.IsQuotaExceeded(err); ok {
			uc.recordQuotaRejection(qe)
			return nil, err
		}
		return nil, uc.wrapError("activate", err)
	}

	if activated {
		uc.recordActivation(deal)
		uc.publishDeal(ctx, dealEvent(domain.DealActivated, deal, now))
	}
	return deal, nil
}

// Deactivate is always allowed and frees the deal's slot in the tier quota.
func (uc *DefaultDealUsecase) Deactivate(ctx context.Context, dealID string) (*domain.Deal, error) {
	now := uc.Clock.Now()
	var deal *domain.Deal

	err := uc.Tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		deal, err = uc.DealRepo.GetDealByIDForUpdate(ctx, dealID)
		if err != nil {
			return err
		}
		if err := uc.DealRepo.SetDealActivation(ctx, deal.ID, false, domain.DealStatusPaused, now); err != nil {
			return err
		}
		deal.IsActive = false
		deal.Status = domain.DealStatusPaused
		deal.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, uc.wrapError("deactivate", err)
	}

	uc.recordActivation(deal)
	uc.publishDeal(ctx, dealEvent(domain.DealDeactivated, deal, now))
	return deal, nil
}

func (uc *DefaultDealUsecase) GetDeal(ctx context.Context, dealID string) (*domain.Deal, error) {
	deal, err := uc.DealRepo.GetDealByID(ctx, dealID)
	if err != nil {
		return nil, uc.wrapError("get_deal", err)
	}
	return deal, nil
}

func isBusinessError(err error) bool {
	return errors.Is(err, domain.ErrDealNotFound) ||
		errors.Is(err, domain.ErrRestaurantNotFound) ||
		errors.Is(err, domain.ErrInvalidDeal) ||
		errors.Is(err, domain.ErrDuplicateDealCode)
}

// wrapError passes business errors through and hides storage failures.
func (uc *DefaultDealUsecase) wrapError(op string, err error) error {
	if isBusinessError(err) {
		return err
	}
	uc.logInternal(op, err)
	return fmt.Errorf("%s: %w", op, domain.ErrInternal)
}
