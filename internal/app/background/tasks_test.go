package background

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LavaJover/shvark-deal-service/internal/clock"
	"github.com/LavaJover/shvark-deal-service/internal/domain"
	"github.com/LavaJover/shvark-deal-service/internal/infrastructure/postgres/repository"
	"github.com/LavaJover/shvark-deal-service/internal/testutil"
	"github.com/LavaJover/shvark-deal-service/internal/usecase/reclamation"
	"github.com/LavaJover/shvark-deal-service/internal/usecase/restaurant"
)

type countingSweeper struct {
	calls atomic.Int32
}

func (s *countingSweeper) Sweep(context.Context) (*reclamation.SweepReport, error) {
	s.calls.Add(1)
	return &reclamation.SweepReport{}, nil
}

type chanSubscriber struct {
	ch chan domain.Message
}

func (s *chanSubscriber) Subscribe(context.Context, string, string) (<-chan domain.Message, error) {
	return s.ch, nil
}

func TestStartAll_SweepsImmediatelyAndOnTicker(t *testing.T) {
	sweeper := &countingSweeper{}
	bt := NewBackgroundTasks(sweeper, nil, nil, 20*time.Millisecond, "", "")

	ctx, cancel := context.WithCancel(context.Background())
	bt.StartAll(ctx)

	assert.Eventually(t, func() bool { return sweeper.calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	bt.Wait()
}

func TestStartAll_AppliesRestaurantEvents(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewDefaultRestaurantRepository(db)
	syncUC := restaurant.NewSyncUsecase(repo, clock.NewFixed(time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)))
	sub := &chanSubscriber{ch: make(chan domain.Message, 1)}

	bt := NewBackgroundTasks(&countingSweeper{}, syncUC, sub, time.Hour, "restaurant-events", "deal-service")
	ctx, cancel := context.WithCancel(context.Background())
	bt.StartAll(ctx)

	payload, err := json.Marshal(domain.RestaurantEvent{RestaurantID: "rest-9", SubscriptionTier: "GROWTH"})
	require.NoError(t, err)
	sub.ch <- domain.Message{Key: []byte("rest-9"), Value: payload}

	assert.Eventually(t, func() bool {
		r, err := repo.GetRestaurantByID(context.Background(), "rest-9")
		return err == nil && r.SubscriptionTier == domain.TierGrowth
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	bt.Wait()
}

type failingSweeper struct{}

func (failingSweeper) Sweep(context.Context) (*reclamation.SweepReport, error) {
	return nil, errors.New("lease backend down")
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestSweepOnce_LeavesSummaryToSweep(t *testing.T) {
	buf := captureLogs(t)

	NewBackgroundTasks(&countingSweeper{}, nil, nil, time.Hour, "", "").sweepOnce(context.Background())
	assert.Empty(t, buf.String())

	NewBackgroundTasks(failingSweeper{}, nil, nil, time.Hour, "", "").sweepOnce(context.Background())
	assert.Contains(t, buf.String(), "reclamation sweep failed")
	assert.Contains(t, buf.String(), "lease backend down")
}
