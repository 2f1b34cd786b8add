package setup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"

	"github.com/LavaJover/shvark-deal-service/internal/clock"
	"github.com/LavaJover/shvark-deal-service/internal/config"
	"github.com/LavaJover/shvark-deal-service/internal/domain"
	"github.com/LavaJover/shvark-deal-service/internal/infrastructure/cache"
	publisher "github.com/LavaJover/shvark-deal-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-deal-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-deal-service/internal/infrastructure/migrate"
	"github.com/LavaJover/shvark-deal-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-deal-service/internal/infrastructure/postgres/repository"
)

const sweepLeaseKey = "deal-service:reclamation-sweep"

type Dependencies struct {
	Config     *config.DealConfig
	DB         *gorm.DB
	Clock      clock.Clock
	Registry   *prometheus.Registry
	Metrics    *metrics.DealMetrics
	Events     domain.EventPublisher
	Subscriber domain.SubscriberPort
	SweepLease domain.Lease

	Repositories *Repositories

	closers []io.Closer
}

type Repositories struct {
	Tx             domain.Transactor
	DealRepo       domain.DealRepository
	RedemptionRepo domain.RedemptionRepository
	RestaurantRepo domain.RestaurantRepository
}

func InitializeDependencies(ctx context.Context, cfg *config.DealConfig) (*Dependencies, error) {
	db := postgres.MustInitDB(cfg)
	if err := migrateSchema(db, cfg.DealDB.MigrationsPath); err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	deps := &Dependencies{
		Config:   cfg,
		DB:       db,
		Clock:    clock.NewSystem(),
		Registry: registry,
		Metrics:  metrics.NewDealMetrics(registry),
		Repositories: &Repositories{
			Tx:             repository.NewDefaultTransactor(db),
			DealRepo:       repository.NewDefaultDealRepository(db),
			RedemptionRepo: repository.NewDefaultRedemptionRepository(db),
			RestaurantRepo: repository.NewDefaultRestaurantRepository(db),
		},
	}
	if sqlDB, err := db.DB(); err == nil {
		deps.closers = append(deps.closers, sqlDB)
	}

	deps.initEvents(cfg.KafkaService)

	if err := deps.initSweepLease(ctx, cfg.RedisService); err != nil {
		_ = deps.Close()
		return nil, fmt.Errorf("sweep lease: %w", err)
	}

	return deps, nil
}

// Ping reports whether the database answers.
func (d *Dependencies) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases connections in reverse order of acquisition.
func (d *Dependencies) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func migrateSchema(db *gorm.DB, migrationsPath string) error {
	if migrationsPath == "" {
		slog.Warn("no migrations path configured, falling back to gorm auto-migration")
		return postgres.AutoMigrate(db)
	}
	return migrate.RunMigrations(db, migrationsPath)
}

func (d *Dependencies) initEvents(cfg config.KafkaService) {
	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		slog.Warn("kafka disabled, events are only logged and restaurant sync is off")
		d.Events = publisher.NewEventPublisher(publisher.LogPublisher{}, cfg.DealTopic, cfg.RedemptionTopic)
		return
	}

	pub := publisher.NewDefaultKafkaPublisher(cfg.Brokers)
	d.closers = append(d.closers, pub)
	d.Events = publisher.NewEventPublisher(pub, cfg.DealTopic, cfg.RedemptionTopic)
	d.Subscriber = publisher.NewDefaultKafkaSubscriber(cfg.Brokers)
	slog.Info("kafka enabled", "brokers", cfg.Brokers)
}

func (d *Dependencies) initSweepLease(ctx context.Context, cfg config.RedisService) error {
	if !cfg.Enabled {
		slog.Warn("redis disabled, sweep lease is process-local")
		d.SweepLease = cache.NewInMemoryLease(d.Clock)
		return nil
	}

	client, err := cache.NewRedisClient(ctx, cache.RedisConfig{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err != nil {
		return err
	}
	d.closers = append(d.closers, client)
	d.SweepLease = cache.NewRedisLease(client, sweepLeaseKey)
	return nil
}
