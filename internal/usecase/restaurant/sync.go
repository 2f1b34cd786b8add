package restaurant

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/LavaJover/shvark-deal-service/internal/clock"
	"github.com/LavaJover/shvark-deal-service/internal/domain"
)

// SyncUsecase keeps the local restaurant projection in step with the
// restaurants service.
type SyncUsecase struct {
	Repo  domain.RestaurantRepository
	Clock clock.Clock
}

func NewSyncUsecase(repo domain.RestaurantRepository, clk clock.Clock) *SyncUsecase {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &SyncUsecase{Repo: repo, Clock: clk}
}

// Run applies every message until msgs is closed or ctx is done. Bad
// messages are logged and skipped.
func (uc *SyncUsecase) Run(ctx context.Context, msgs <-chan domain.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			if err := uc.Handle(ctx, msg); err != nil {
				slog.Error("failed to apply restaurant event", "key", string(msg.Key), "error", err.Error())
			}
		}
	}
}

func (uc *SyncUsecase) Handle(ctx context.Context, msg domain.Message) error {
	var event domain.RestaurantEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("decode restaurant event: %w", err)
	}
	return uc.Apply(ctx, event)
}

func (uc *SyncUsecase) Apply(ctx context.Context, event domain.RestaurantEvent) error {
	if strings.TrimSpace(event.RestaurantID) == "" || strings.TrimSpace(event.SubscriptionTier) == "" {
		return fmt.Errorf("restaurant event without id or tier")
	}
	if (event.Latitude == nil) != (event.Longitude == nil) {
		return fmt.Errorf("restaurant %s: latitude and longitude must be set together", event.RestaurantID)
	}
	if event.Latitude != nil && (*event.Latitude < -90 || *event.Latitude > 90 || *event.Longitude < -180 || *event.Longitude > 180) {
		return fmt.Errorf("restaurant %s: coordinates out of range", event.RestaurantID)
	}

	restaurant := &domain.Restaurant{
		ID:               event.RestaurantID,
		SubscriptionTier: domain.SubscriptionTier(strings.ToUpper(event.SubscriptionTier)),
		Latitude:         event.Latitude,
		Longitude:        event.Longitude,
		UpdatedAt:        uc.Clock.Now(),
	}
	if err := uc.Repo.UpsertRestaurant(ctx, restaurant); err != nil {
		return err
	}
	slog.Debug("restaurant projection updated", "restaurant_id", restaurant.ID, "tier", restaurant.SubscriptionTier)
	return nil
}
