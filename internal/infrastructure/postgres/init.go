package postgres

import (
	"fmt"
	"log"
	"strings"

	"github.com/LavaJover/shvark-deal-service/internal/config"
	"github.com/LavaJover/shvark-deal-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func MustInitDB(cfg *config.DealConfig) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DealDB.Dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(gormLogLevel(cfg.LogConfig.LogLevel)),
	})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v\n", err.Error())
	}
	sqlDB.SetMaxOpenConns(cfg.DealDB.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DealDB.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.DealDB.ConnMaxLifetime)

	return db
}

// AutoMigrate creates the engine's tables from the gorm models. It is used when
// no SQL migrations directory is configured and by tests.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.DealModel{}, &models.RedemptionModel{}, &models.RestaurantModel{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.Info
	case "warn":
		return logger.Warn
	case "error":
		return logger.Error
	default:
		return logger.Silent
	}
}
