package background

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/LavaJover/shvark-deal-service/internal/domain"
	"github.com/LavaJover/shvark-deal-service/internal/usecase/reclamation"
	"github.com/LavaJover/shvark-deal-service/internal/usecase/restaurant"
)

type BackgroundTasks struct {
	ReclamationUsecase reclamation.ReclamationUsecase
	RestaurantSync     *restaurant.SyncUsecase
	Subscriber         domain.SubscriberPort

	SweepInterval   time.Duration
	RestaurantTopic string
	RestaurantGroup string

	wg sync.WaitGroup
}

func NewBackgroundTasks(
	reclamationUC reclamation.ReclamationUsecase,
	restaurantSync *restaurant.SyncUsecase,
	subscriber domain.SubscriberPort,
	sweepInterval time.Duration,
	restaurantTopic, restaurantGroup string,
) *BackgroundTasks {
	if sweepInterval <= 0 {
		sweepInterval = time.Hour
	}
	return &BackgroundTasks{
		ReclamationUsecase: reclamationUC,
		RestaurantSync:     restaurantSync,
		Subscriber:         subscriber,
		SweepInterval:      sweepInterval,
		RestaurantTopic:    restaurantTopic,
		RestaurantGroup:    restaurantGroup,
	}
}

// StartAll launches every task. Wait blocks until they have all returned
// after ctx is cancelled.
func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	bt.wg.Add(1)
	go func() {
		defer bt.wg.Done()
		bt.startReclamationSweep(ctx)
	}()

	if bt.Subscriber != nil && bt.RestaurantSync != nil {
		bt.wg.Add(1)
		go func() {
			defer bt.wg.Done()
			bt.startRestaurantSync(ctx)
		}()
	}
}

func (bt *BackgroundTasks) Wait() {
	bt.wg.Wait()
}

func (bt *BackgroundTasks) startReclamationSweep(ctx context.Context) {
	ticker := time.NewTicker(bt.SweepInterval)
	defer ticker.Stop()

	for {
		bt.sweepOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// sweepOnce only reports failures; Sweep logs its own summary.
func (bt *BackgroundTasks) sweepOnce(ctx context.Context) {
	if _, err := bt.ReclamationUsecase.Sweep(ctx); err != nil {
		slog.Error("reclamation sweep failed", "error", err.Error())
	}
}

func (bt *BackgroundTasks) startRestaurantSync(ctx context.Context) {
	msgs, err := bt.Subscriber.Subscribe(ctx, bt.RestaurantTopic, bt.RestaurantGroup)
	if err != nil {
		slog.Error("failed to subscribe to restaurant events", "topic", bt.RestaurantTopic, "error", err.Error())
		return
	}
	slog.Info("restaurant sync started", "topic", bt.RestaurantTopic, "group", bt.RestaurantGroup)
	bt.RestaurantSync.Run(ctx, msgs)
}
