package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "greendash/backend/libs/config"
)

// Session store kinds.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Config defines dashboard configuration.
type Config struct {
	HTTP struct {
		Port           string   `yaml:"port" toml:"port" env:"DASHBOARD_HTTP_PORT"`
		AllowedOrigins []string `yaml:"allowedOrigins" toml:"allowedOrigins" env:"DASHBOARD_ALLOWED_ORIGINS"`
	} `yaml:"http" toml:"http"`
	API struct {
		BaseURL string        `yaml:"baseUrl" toml:"baseUrl" env:"DASHBOARD_API_URL"`
		Timeout time.Duration `yaml:"timeout" toml:"timeout" env:"DASHBOARD_API_TIMEOUT"`
	} `yaml:"api" toml:"api"`
	Session struct {
		Secret       string        `yaml:"secret" toml:"secret" env:"DASHBOARD_SESSION_SECRET"`
		TTL          time.Duration `yaml:"ttl" toml:"ttl" env:"DASHBOARD_SESSION_TTL"`
		Store        string        `yaml:"store" toml:"store" env:"DASHBOARD_SESSION_STORE"`
		CookieName   string        `yaml:"cookieName" toml:"cookieName" env:"DASHBOARD_COOKIE_NAME"`
		SecureCookie bool          `yaml:"secureCookie" toml:"secureCookie" env:"DASHBOARD_COOKIE_SECURE"`
	} `yaml:"session" toml:"session"`
	Redis struct {
		Addr     string `yaml:"addr" toml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" toml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" toml:"db" env:"REDIS_DB"`
	} `yaml:"redis" toml:"redis"`
	Postgres struct {
		DSN          string        `yaml:"dsn" toml:"dsn" env:"POSTGRES_DSN"`
		MaxOpenConns int           `yaml:"maxOpenConns" toml:"maxOpenConns" env:"POSTGRES_MAX_OPEN_CONNS"`
		SweepEvery   time.Duration `yaml:"sweepEvery" toml:"sweepEvery" env:"POSTGRES_SESSION_SWEEP"`
	} `yaml:"postgres" toml:"postgres"`
	Feed struct {
		PollInterval time.Duration `yaml:"pollInterval" toml:"pollInterval" env:"DASHBOARD_POLL_INTERVAL"`
		PingInterval time.Duration `yaml:"pingInterval" toml:"pingInterval" env:"DASHBOARD_WS_PING_INTERVAL"`
	} `yaml:"feed" toml:"feed"`
	Schedule struct {
		ViewTTL  time.Duration `yaml:"viewTtl" toml:"viewTtl" env:"DASHBOARD_SCHEDULE_TTL"`
		Timezone string        `yaml:"timezone" toml:"timezone" env:"DASHBOARD_TIMEZONE"`
	} `yaml:"schedule" toml:"schedule"`
	Payment struct {
		PublishableKey string `yaml:"publishableKey" toml:"publishableKey" env:"PAYMENT_PUBLISHABLE_KEY"`
		ReturnURL      string `yaml:"returnUrl" toml:"returnUrl" env:"PAYMENT_RETURN_URL"`
	} `yaml:"payment" toml:"payment"`
	Security struct {
		CSRFKey        string  `yaml:"csrfKey" toml:"csrfKey" env:"DASHBOARD_CSRF_KEY"`
		LoginRatePerS  float64 `yaml:"loginRatePerSecond" toml:"loginRatePerSecond" env:"DASHBOARD_LOGIN_RATE"`
		LoginRateBurst int     `yaml:"loginRateBurst" toml:"loginRateBurst" env:"DASHBOARD_LOGIN_BURST"`
	} `yaml:"security" toml:"security"`
	Metrics struct {
		Namespace string `yaml:"namespace" toml:"namespace" env:"DASHBOARD_METRICS_NAMESPACE"`
	} `yaml:"metrics" toml:"metrics"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	cfg := &Config{}
	cfg.HTTP.Port = "3000"
	cfg.API.BaseURL = "http://localhost:8001/api/v1"
	cfg.API.Timeout = 10 * time.Second
	cfg.Session.TTL = 24 * time.Hour
	cfg.Session.Store = StoreMemory
	cfg.Session.CookieName = "greendash_session"
	cfg.Redis.Addr = "localhost:6379"
	cfg.Postgres.SweepEvery = 10 * time.Minute
	cfg.Feed.PollInterval = 60 * time.Second
	cfg.Feed.PingInterval = 30 * time.Second
	cfg.Schedule.ViewTTL = 30 * time.Minute
	cfg.Payment.ReturnURL = "http://localhost:3000/api/payment/return"
	cfg.Security.LoginRatePerS = 1
	cfg.Security.LoginRateBurst = 5
	cfg.Metrics.Namespace = "greendash"
	return cfg
}

// Load configuration via shared helper.
func Load() (*Config, error) {
	cfg := Default()
	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the service cannot run without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Session.Secret) == "" {
		return errors.New("config: session secret required")
	}
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return errors.New("config: api base url required")
	}
	c.Session.Store = strings.ToLower(strings.TrimSpace(c.Session.Store))
	switch c.Session.Store {
	case "":
		c.Session.Store = StoreMemory
	case StoreMemory, StoreRedis:
	case StorePostgres:
		if strings.TrimSpace(c.Postgres.DSN) == "" {
			return errors.New("config: postgres dsn required for postgres session store")
		}
	default:
		return fmt.Errorf("config: unknown session store %q", c.Session.Store)
	}
	if key := c.Security.CSRFKey; key != "" && len(key) != 32 {
		return errors.New("config: csrf key must be 32 bytes")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("config: timezone: %w", err)
	}
	return nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "3000"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// Location is the zone the schedule grid is laid out in. Empty means the server's local zone.
func (c *Config) Location() (*time.Location, error) {
	if strings.TrimSpace(c.Schedule.Timezone) == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Schedule.Timezone)
}
