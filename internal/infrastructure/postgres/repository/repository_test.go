package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LavaJover/shvark-deal-service/internal/domain"
	"github.com/LavaJover/shvark-deal-service/internal/infrastructure/postgres/repository"
	"github.com/LavaJover/shvark-deal-service/internal/testutil"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newDeal(id, restaurantID string, maxUses int) *domain.Deal {
	return &domain.Deal{
		ID:             id,
		Code:           "CODE-" + id,
		RestaurantID:   restaurantID,
		Title:          "Lunch special",
		DiscountType:   domain.DiscountPercentage,
		DiscountValue:  20,
		MaxUses:        maxUses,
		RemainingUses:  maxUses,
		PerUserLimit:   1,
		StartsAt:       baseTime.Add(-time.Hour),
		ExpiresAt:      baseTime.Add(24 * time.Hour),
		Status:         domain.DealStatusDraft,
		ApprovalStatus: domain.ApprovalApproved,
		CreatedAt:      baseTime,
		UpdatedAt:      baseTime,
	}
}

func TestDealRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewDefaultDealRepository(testutil.NewDB(t))

	deal := newDeal("d1", "r1", 5)
	require.NoError(t, repo.CreateDeal(ctx, deal))

	got, err := repo.GetDealByID(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "CODE-d1", got.Code)
	assert.Equal(t, 5, got.RemainingUses)
	assert.Equal(t, domain.DealStatusDraft, got.Status)
	assert.True(t, got.ExpiresAt.Equal(deal.ExpiresAt))

	_, err = repo.GetDealByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrDealNotFound)

	dup := newDeal("d2", "r1", 5)
	dup.Code = deal.Code
	assert.ErrorIs(t, repo.CreateDeal(ctx, dup), domain.ErrDuplicateDealCode)
}

func TestDealRepository_CountActiveDeals(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewDefaultDealRepository(testutil.NewDB(t))

	active := newDeal("active", "r1", 5)
	expired := newDeal("expired", "r1", 5)
	expired.ExpiresAt = baseTime.Add(-time.Minute)
	paused := newDeal("paused", "r1", 5)
	other := newDeal("other", "r2", 5)
	for _, d := range []*domain.Deal{active, expired, paused, other} {
		require.NoError(t, repo.CreateDeal(ctx, d))
	}
	for _, id := range []string{"active", "expired", "other"} {
		require.NoError(t, repo.SetDealActivation(ctx, id, true, domain.DealStatusActive, baseTime))
	}
	require.NoError(t, repo.SetDealActivation(ctx, "paused", false, domain.DealStatusPaused, baseTime))

	count, err := repo.CountActiveDeals(ctx, "r1", "", baseTime)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = repo.CountActiveDeals(ctx, "r1", "active", baseTime)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	assert.ErrorIs(t, repo.SetDealActivation(ctx, "missing", true, domain.DealStatusActive, baseTime), domain.ErrDealNotFound)
}

func TestDealRepository_ConsumeUseStopsAtZero(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewDefaultDealRepository(testutil.NewDB(t))
	require.NoError(t, repo.CreateDeal(ctx, newDeal("d1", "r1", 2)))

	for i := 0; i < 2; i++ {
		ok, err := repo.ConsumeUse(ctx, "d1", baseTime)
		require.NoError(t, err)
		require.True(t, ok)
	}
	ok, err := repo.ConsumeUse(ctx, "d1", baseTime)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.GetDealByID(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.UsedCount)
	assert.Equal(t, 0, got.RemainingUses)
	assert.Equal(t, int64(2), got.Version)
}

func TestDealRepository_ReserveConfirmRestore(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewDefaultDealRepository(testutil.NewDB(t))
	require.NoError(t, repo.CreateDeal(ctx, newDeal("d1", "r1", 3)))

	ok, err := repo.ReserveUse(ctx, "d1", baseTime)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = repo.ReserveUse(ctx, "d1", baseTime)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.ConfirmReservedUse(ctx, "d1", baseTime)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := repo.GetDealByID(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.UsedCount)
	assert.Equal(t, 1, got.RemainingUses)

	// Only one unit is still held; restoring more is capped.
	require.NoError(t, repo.RestoreUses(ctx, "d1", 5, baseTime))
	got, err = repo.GetDealByID(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.RemainingUses)
	assert.Equal(t, 1, got.UsedCount)

	assert.ErrorIs(t, repo.RestoreUses(ctx, "missing", 1, baseTime), domain.ErrDealNotFound)
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := repository.NewDefaultDealRepository(db)
	tx := repository.NewDefaultTransactor(db)
	require.NoError(t, repo.CreateDeal(ctx, newDeal("d1", "r1", 3)))

	errBoom := errors.New("boom")
	err := tx.WithTx(ctx, func(ctx context.Context) error {
		ok, err := repo.ConsumeUse(ctx, "d1", baseTime)
		require.NoError(t, err)
		require.True(t, ok)
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	got, err := repo.GetDealByID(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, 0, got.UsedCount)
	assert.Equal(t, 3, got.RemainingUses)
}

func TestRedemptionRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	deals := repository.NewDefaultDealRepository(db)
	repo := repository.NewDefaultRedemptionRepository(db)
	require.NoError(t, deals.CreateDeal(ctx, newDeal("d1", "r1", 5)))

	distance := 42.5
	pending := &domain.Redemption{
		ID:               "red-1",
		VerificationCode: "ABCD2345",
		DealID:           "d1",
		CustomerID:       "c1",
		OrderAmount:      50,
		DiscountAmount:   10,
		FinalAmount:      40,
		Status:           domain.RedemptionPending,
		Location:         &domain.LocationSnapshot{Latitude: 43.65, Longitude: -79.38, DistanceMeters: &distance, Verified: true},
		CreatedAt:        baseTime,
		UpdatedAt:        baseTime,
	}
	require.NoError(t, repo.CreateRedemption(ctx, pending))

	got, err := repo.GetRedemptionByID(ctx, "red-1")
	require.NoError(t, err)
	require.NotNil(t, got.Location)
	assert.InDelta(t, 42.5, *got.Location.DistanceMeters, 1e-9)
	assert.Nil(t, got.RedeemedAt)

	count, err := repo.CountCustomerRedemptions(ctx, "d1", "c1", domain.RedemptionCompleted)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	count, err = repo.CountCustomerRedemptions(ctx, "d1", "c1", domain.RedemptionCompleted, domain.RedemptionPending)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	ok, err := repo.TransitionStatus(ctx, "red-1", domain.RedemptionPending, domain.RedemptionCompleted, baseTime.Add(time.Minute))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.TransitionStatus(ctx, "red-1", domain.RedemptionPending, domain.RedemptionCancelled, baseTime.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repo.TransitionStatus(ctx, "red-1", domain.RedemptionCompleted, domain.RedemptionCancelled, baseTime)
	assert.ErrorIs(t, err, domain.ErrRedemptionNotPending)

	got, err = repo.GetRedemptionByID(ctx, "red-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RedemptionCompleted, got.Status)
	require.NotNil(t, got.RedeemedAt)

	_, err = repo.GetRedemptionByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrRedemptionNotFound)
}

func TestRedemptionRepository_StalePendingAndExpire(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	deals := repository.NewDefaultDealRepository(db)
	repo := repository.NewDefaultRedemptionRepository(db)
	require.NoError(t, deals.CreateDeal(ctx, newDeal("d1", "r1", 5)))

	mk := func(id string, status domain.RedemptionStatus, createdAt time.Time) {
		require.NoError(t, repo.CreateRedemption(ctx, &domain.Redemption{
			ID: id, VerificationCode: id, DealID: "d1", CustomerID: "c-" + id,
			OrderAmount: 10, FinalAmount: 10, Status: status,
			CreatedAt: createdAt, UpdatedAt: createdAt,
		}))
	}
	mk("old-pending", domain.RedemptionPending, baseTime.Add(-30*time.Hour))
	mk("older-pending", domain.RedemptionPending, baseTime.Add(-40*time.Hour))
	mk("fresh-pending", domain.RedemptionPending, baseTime.Add(-time.Hour))
	mk("old-completed", domain.RedemptionCompleted, baseTime.Add(-30*time.Hour))

	stale, err := repo.FindStalePending(ctx, baseTime.Add(-24*time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, stale, 2)
	assert.Equal(t, "older-pending", stale[0].ID)
	assert.Equal(t, "old-pending", stale[1].ID)

	limited, err := repo.FindStalePending(ctx, baseTime.Add(-24*time.Hour), 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	excluded, err := repo.FindStalePending(ctx, baseTime.Add(-24*time.Hour), 10, "d1")
	require.NoError(t, err)
	assert.Empty(t, excluded)

	ids := []string{"old-pending", "older-pending", "old-completed"}
	n, err := repo.ExpireRedemptions(ctx, ids, baseTime)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = repo.ExpireRedemptions(ctx, ids, baseTime)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = repo.ExpireRedemptions(ctx, nil, baseTime)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestRestaurantRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewDefaultRestaurantRepository(testutil.NewDB(t))

	_, err := repo.GetRestaurantByID(ctx, "r1")
	assert.ErrorIs(t, err, domain.ErrRestaurantNotFound)

	lat, lon := 43.65, -79.38
	require.NoError(t, repo.UpsertRestaurant(ctx, &domain.Restaurant{
		ID: "r1", SubscriptionTier: domain.TierStarter, UpdatedAt: baseTime,
	}))
	require.NoError(t, repo.UpsertRestaurant(ctx, &domain.Restaurant{
		ID: "r1", SubscriptionTier: domain.TierGrowth, Latitude: &lat, Longitude: &lon, UpdatedAt: baseTime,
	}))

	got, err := repo.GetRestaurantByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, domain.TierGrowth, got.SubscriptionTier)
	point, ok := got.Location()
	require.True(t, ok)
	assert.InDelta(t, 43.65, point.Latitude, 1e-9)
}
