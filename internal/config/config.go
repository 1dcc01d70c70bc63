package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"analytics-query-service/internal/analytics/core/domain"
)

type Config struct {
	Service    Service    `envconfig:"SERVICE"`
	Analytics  Analytics  `envconfig:"ANALYTICS"`
	Postgres   Postgres   `envconfig:"POSTGRES"`
	ClickHouse ClickHouse `envconfig:"CLICKHOUSE"`
}

type Service struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	APIPort     string `envconfig:"API_PORT" default:"8080"`
}

type Analytics struct {
	Backend string `envconfig:"BACKEND" default:"relational"`
}

type Postgres struct {
	DSN                string `envconfig:"DSN" required:"true"`
	MaxOpenConns       int    `envconfig:"MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns       int    `envconfig:"MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetimeSec int    `envconfig:"CONN_MAX_LIFETIME_SEC" default:"1800"`
}

type ClickHouse struct {
	Host               string `envconfig:"HOST" default:"localhost"`
	Port               string `envconfig:"PORT" default:"9000"`
	Database           string `envconfig:"DB" default:"umami"`
	User               string `envconfig:"USER" default:"default"`
	Password           string `envconfig:"PASSWORD" default:""`
	UseTLS             bool   `envconfig:"USE_TLS" default:"false"`
	MaxOpenConns       int    `envconfig:"MAX_OPEN_CONNS" default:"5"`
	MaxIdleConns       int    `envconfig:"MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetimeSec int    `envconfig:"CONN_MAX_LIFETIME_SEC" default:"3600"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	// required only rejects an unset variable, not an empty one.
	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("POSTGRES_DSN is not set")
	}

	if _, err := cfg.Backend(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Backend is the active analytics backend. It is read once at startup.
func (c *Config) Backend() (domain.Backend, error) {
	return domain.ParseBackend(c.Analytics.Backend)
}
