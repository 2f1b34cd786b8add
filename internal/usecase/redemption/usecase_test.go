package redemption_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LavaJover/shvark-deal-service/internal/clock"
	"github.com/LavaJover/shvark-deal-service/internal/domain"
	"github.com/LavaJover/shvark-deal-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-deal-service/internal/infrastructure/postgres/repository"
	"github.com/LavaJover/shvark-deal-service/internal/testutil"
	redemptiondto "github.com/LavaJover/shvark-deal-service/internal/usecase/dto/redemption"
	"github.com/LavaJover/shvark-deal-service/internal/usecase/redemption"
)

var now = time.Date(2026, 5, 10, 18, 30, 0, 0, time.UTC)

type fixture struct {
	uc       *redemption.DefaultRedemptionUsecase
	deals    *repository.DefaultDealRepository
	redeems  *repository.DefaultRedemptionRepository
	clock    *clock.Manual
	recorder *testutil.EventRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	f := &fixture{
		deals:    repository.NewDefaultDealRepository(db),
		redeems:  repository.NewDefaultRedemptionRepository(db),
		clock:    clock.NewManual(now),
		recorder: &testutil.EventRecorder{},
	}
	restaurants := repository.NewDefaultRestaurantRepository(db)
	lat, lon := 43.65, -79.38
	require.NoError(t, restaurants.UpsertRestaurant(context.Background(), &domain.Restaurant{
		ID: "rest-1", SubscriptionTier: domain.TierStarter, Latitude: &lat, Longitude: &lon, UpdatedAt: now,
	}))

	f.uc = redemption.NewDefaultRedemptionUsecase(
		repository.NewDefaultTransactor(db),
		f.deals,
		f.redeems,
		restaurants,
		redemption.NewEvaluator(100),
		f.clock,
		f.recorder,
		metrics.NewDealMetrics(prometheus.NewRegistry()),
		24*time.Hour,
	)
	return f
}

func (f *fixture) seedDeal(t *testing.T, id string, maxUses, perUser int) *domain.Deal {
	t.Helper()
	deal := &domain.Deal{
		ID:             id,
		Code:           "CODE-" + id,
		RestaurantID:   "rest-1",
		Title:          "Dinner for two",
		DiscountType:   domain.DiscountPercentage,
		DiscountValue:  20,
		MaxUses:        maxUses,
		RemainingUses:  maxUses,
		PerUserLimit:   perUser,
		StartsAt:       now.Add(-time.Hour),
		ExpiresAt:      now.Add(48 * time.Hour),
		IsActive:       true,
		Status:         domain.DealStatusActive,
		ApprovalStatus: domain.ApprovalApproved,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, f.deals.CreateDeal(context.Background(), deal))
	return deal
}

func redeemInput(deal *domain.Deal, customer string, amount float64) *redemptiondto.RedeemInput {
	return &redemptiondto.RedeemInput{DealID: deal.ID, Code: deal.Code, CustomerID: customer, OrderAmount: amount}
}

func codes(reasons []domain.Reason) []domain.ReasonCode {
	out := make([]domain.ReasonCode, len(reasons))
	for i, r := range reasons {
		out[i] = r.Code
	}
	return out
}

func TestRedeem_CompletesAndUpdatesCounters(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	deal := f.seedDeal(t, "d1", 5, 1)

	out, err := f.uc.Redeem(ctx, redeemInput(deal, "cust-1", 50))
	require.NoError(t, err)
	require.True(t, out.Succeeded())
	assert.Equal(t, 10.0, out.DiscountAmount)
	assert.Equal(t, 40.0, out.FinalAmount)
	assert.Equal(t, domain.RedemptionCompleted, out.Redemption.Status)
	require.NotNil(t, out.Redemption.RedeemedAt)
	assert.Len(t, out.Redemption.VerificationCode, 8)

	stored, err := f.deals.GetDealByID(ctx, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.UsedCount)
	assert.Equal(t, 4, stored.RemainingUses)

	assert.Eventually(t, func() bool {
		return f.recorder.HasRedemptionEvent(domain.RedemptionRedeemed)
	}, time.Second, 10*time.Millisecond)
}

func TestRedeem_RejectionPersistsNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	deal := f.seedDeal(t, "d1", 5, 1)

	in := redeemInput(deal, "cust-1", 50)
	in.Code = "WRONG"
	out, err := f.uc.Redeem(ctx, in)
	require.NoError(t, err)
	assert.False(t, out.Succeeded())
	assert.Equal(t, []domain.ReasonCode{domain.ReasonDealNotFound}, codes(out.Reasons))

	stored, err := f.deals.GetDealByID(ctx, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.UsedCount)
	assert.Equal(t, 5, stored.RemainingUses)

	count, err := f.redeems.CountCustomerRedemptions(ctx, deal.ID, "cust-1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRedeem_PerUserLimit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	deal := f.seedDeal(t, "d1", 5, 1)

	first, err := f.uc.Redeem(ctx, redeemInput(deal, "cust-1", 50))
	require.NoError(t, err)
	require.True(t, first.Succeeded())

	second, err := f.uc.Redeem(ctx, redeemInput(deal, "cust-1", 50))
	require.NoError(t, err)
	assert.Equal(t, []domain.ReasonCode{domain.ReasonUserLimitExceeded}, codes(second.Reasons))

	other, err := f.uc.Redeem(ctx, redeemInput(deal, "cust-2", 50))
	require.NoError(t, err)
	assert.True(t, other.Succeeded())
}

func TestRedeem_ConcurrentCallsNeverOversell(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	deal := f.seedDeal(t, "d1", 1, 1)

	const callers = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		exhausted int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := f.uc.Redeem(ctx, redeemInput(deal, fmt.Sprintf("cust-%d", i), 50))
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if out.Succeeded() {
				successes++
			} else if domain.HasReason(out.Reasons, domain.ReasonDealExhausted) {
				exhausted++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, callers-1, exhausted)

	stored, err := f.deals.GetDealByID(ctx, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.UsedCount)
	assert.Equal(t, 0, stored.RemainingUses)
}

func TestRedeem_WindowBoundaries(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	deal := f.seedDeal(t, "d1", 5, 5)

	f.clock.Set(deal.ExpiresAt)
	out, err := f.uc.Redeem(ctx, redeemInput(deal, "cust-1", 50))
	require.NoError(t, err)
	assert.Equal(t, []domain.ReasonCode{domain.ReasonDealExpired}, codes(out.Reasons))

	f.clock.Set(deal.StartsAt.Add(-time.Second))
	out, err = f.uc.Redeem(ctx, redeemInput(deal, "cust-1", 50))
	require.NoError(t, err)
	assert.Equal(t, []domain.ReasonCode{domain.ReasonDealNotStarted}, codes(out.Reasons))

	f.clock.Set(deal.StartsAt)
	out, err = f.uc.Redeem(ctx, redeemInput(deal, "cust-1", 50))
	require.NoError(t, err)
	assert.True(t, out.Succeeded())
}

func TestRedeem_InvalidInput(t *testing.T) {
	f := newFixture(t)
	deal := f.seedDeal(t, "d1", 5, 1)

	_, err := f.uc.Redeem(context.Background(), redeemInput(deal, "cust-1", 0))
	assert.ErrorIs(t, err, domain.ErrInvalidOrderAmount)

	_, err = f.uc.Redeem(context.Background(), redeemInput(deal, "", 10))
	assert.ErrorIs(t, err, domain.ErrInvalidRedeemRequest)
}

func TestValidate_DoesNotWrite(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	deal := f.seedDeal(t, "d1", 5, 1)

	in := redeemInput(deal, "cust-1", 30)
	in.Location = &redemptiondto.LocationInput{Latitude: 43.65, Longitude: -79.38}
	out, err := f.uc.Validate(ctx, in)
	require.NoError(t, err)
	assert.True(t, out.IsValid)
	require.NotNil(t, out.ComputedDiscount)
	assert.Equal(t, 6.0, out.ComputedDiscount.DiscountAmount)
	assert.Equal(t, 24.0, out.ComputedDiscount.FinalAmount)
	require.NotNil(t, out.DistanceMeters)
	assert.InDelta(t, 0, *out.DistanceMeters, 1e-6)

	stored, err := f.deals.GetDealByID(ctx, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.RemainingUses)

	in.Code = ""
	out, err = f.uc.Validate(ctx, in)
	require.NoError(t, err)
	assert.False(t, out.IsValid)
	assert.Nil(t, out.ComputedDiscount)
	assert.Equal(t, []domain.ReasonCode{domain.ReasonInvalidCode}, codes(out.Reasons))
}

func TestReservation_CompleteFlow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	deal := f.seedDeal(t, "d1", 2, 1)

	reserved, err := f.uc.Reserve(ctx, redeemInput(deal, "cust-1", 50))
	require.NoError(t, err)
	require.True(t, reserved.Succeeded())
	assert.Equal(t, domain.RedemptionPending, reserved.Redemption.Status)
	assert.Nil(t, reserved.Redemption.RedeemedAt)

	stored, err := f.deals.GetDealByID(ctx, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.UsedCount)
	assert.Equal(t, 1, stored.RemainingUses)

	again, err := f.uc.Reserve(ctx, redeemInput(deal, "cust-1", 50))
	require.NoError(t, err)
	assert.Equal(t, []domain.ReasonCode{domain.ReasonUserLimitExceeded}, codes(again.Reasons))

	f.clock.Advance(time.Hour)
	completed, err := f.uc.CompleteReservation(ctx, reserved.Redemption.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RedemptionCompleted, completed.Status)
	require.NotNil(t, completed.RedeemedAt)

	stored, err = f.deals.GetDealByID(ctx, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.UsedCount)
	assert.Equal(t, 1, stored.RemainingUses)

	_, err = f.uc.CompleteReservation(ctx, reserved.Redemption.ID)
	assert.ErrorIs(t, err, domain.ErrRedemptionNotPending)
	_, err = f.uc.CancelReservation(ctx, reserved.Redemption.ID)
	assert.ErrorIs(t, err, domain.ErrRedemptionNotPending)
}

func TestReservation_CancelRestoresCapacity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	deal := f.seedDeal(t, "d1", 1, 1)

	reserved, err := f.uc.Reserve(ctx, redeemInput(deal, "cust-1", 50))
	require.NoError(t, err)
	require.True(t, reserved.Succeeded())

	blocked, err := f.uc.Redeem(ctx, redeemInput(deal, "cust-2", 50))
	require.NoError(t, err)
	assert.Equal(t, []domain.ReasonCode{domain.ReasonDealExhausted}, codes(blocked.Reasons))

	cancelled, err := f.uc.CancelReservation(ctx, reserved.Redemption.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RedemptionCancelled, cancelled.Status)

	out, err := f.uc.Redeem(ctx, redeemInput(deal, "cust-2", 50))
	require.NoError(t, err)
	assert.True(t, out.Succeeded())

	_, err = f.uc.CancelReservation(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrRedemptionNotFound)
}

func TestReservation_ExpiredCannotComplete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	deal := f.seedDeal(t, "d1", 3, 1)

	reserved, err := f.uc.Reserve(ctx, redeemInput(deal, "cust-1", 50))
	require.NoError(t, err)

	f.clock.Advance(24 * time.Hour)
	_, err = f.uc.CompleteReservation(ctx, reserved.Redemption.ID)
	assert.ErrorIs(t, err, domain.ErrReservationExpired)

	got, err := f.uc.GetRedemption(ctx, reserved.Redemption.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RedemptionPending, got.Status)
}

// unconfirmedDealRepo reports that no reserved use was held on the deal.
type unconfirmedDealRepo struct {
	domain.DealRepository
}

func (unconfirmedDealRepo) ConfirmReservedUse(context.Context, string, time.Time) (bool, error) {
	return false, nil
}

func TestReservation_CompleteWithoutHeldUseIsCounterMismatch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	deal := f.seedDeal(t, "d1", 2, 1)

	reserved, err := f.uc.Reserve(ctx, redeemInput(deal, "cust-1", 50))
	require.NoError(t, err)
	require.True(t, reserved.Succeeded())

	f.uc.DealRepo = unconfirmedDealRepo{DealRepository: f.deals}
	_, err = f.uc.CompleteReservation(ctx, reserved.Redemption.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCounterMismatch)
	assert.NotErrorIs(t, err, domain.ErrInternal)

	got, err := f.redeems.GetRedemptionByID(ctx, reserved.Redemption.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RedemptionPending, got.Status)
	assert.Nil(t, got.RedeemedAt)

	stored, err := f.deals.GetDealByID(ctx, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.UsedCount)
	assert.Equal(t, 1, stored.RemainingUses)
}
