package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type DealConfig struct {
	Env          string `yaml:"env" env:"DEAL_ENV" env-default:"local"`
	HTTPServer   `yaml:"http_server"`
	GRPCServer   `yaml:"grpc_server"`
	DealDB       `yaml:"deal_db"`
	LogConfig    `yaml:"log_config"`
	KafkaService `yaml:"kafka_service"`
	RedisService `yaml:"redis_service"`
	Engine       `yaml:"engine"`
}

type HTTPServer struct {
	Host            string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env-default:"10s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"15s"`
}

type GRPCServer struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"9090"`
}

type DealDB struct {
	Dsn             string        `yaml:"dsn" env:"DEAL_DB_DSN"`
	MigrationsPath  string        `yaml:"migrations_path" env:"DEAL_DB_MIGRATIONS_PATH"`
	MaxOpenConns    int           `yaml:"max_open_conns" env-default:"20"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env-default:"5"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env-default:"30m"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"json"`
	LogOutput string `yaml:"log_output" env:"LOG_OUTPUT" env-default:"stdout"`
	// Rotation settings apply only when LogOutput is a file path.
	MaxSizeMB  int `yaml:"max_size_mb" env-default:"100"`
	MaxBackups int `yaml:"max_backups" env-default:"5"`
	MaxAgeDays int `yaml:"max_age_days" env-default:"14"`
}

type KafkaService struct {
	Enabled         bool     `yaml:"enabled" env:"KAFKA_ENABLED" env-default:"false"`
	Brokers         []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
	DealTopic       string   `yaml:"deal_topic" env-default:"deal-events"`
	RedemptionTopic string   `yaml:"redemption_topic" env-default:"redemption-events"`
	RestaurantTopic string   `yaml:"restaurant_topic" env-default:"restaurant-events"`
	RestaurantGroup string   `yaml:"restaurant_group" env-default:"deal-service"`
}

type RedisService struct {
	Enabled  bool   `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// Engine holds the business rules of the redemption engine that are
// deliberately kept out of code.
type Engine struct {
	TierLimits           map[string]int `yaml:"tier_limits" env-default:"STARTER:1,GROWTH:3"`
	GeofenceRadiusMeters float64        `yaml:"geofence_radius_meters" env-default:"100"`
	ReclaimAfter         time.Duration  `yaml:"reclaim_after" env-default:"24h"`
	SweepInterval        time.Duration  `yaml:"sweep_interval" env-default:"1h"`
	SweepBatchSize       int            `yaml:"sweep_batch_size" env-default:"5000"`
	SweepLockTTL         time.Duration  `yaml:"sweep_lock_ttl" env-default:"10m"`
	RequireApproval      bool           `yaml:"require_approval" env-default:"false"`
}

// Load reads the YAML file at configPath and applies env overrides and defaults.
func Load(configPath string) (*DealConfig, error) {
	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	var cfg DealConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *DealConfig {
	configPath := os.Getenv("DEAL_CONFIG_PATH")
	if configPath == "" {
		log.Fatalf("DEAL_CONFIG_PATH was not found\n")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("%v", err)
	}

	return cfg
}
