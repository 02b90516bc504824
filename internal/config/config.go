// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port           int           `yaml:"port"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type MercadoPagoConfig struct {
	AccessToken   string        `yaml:"access_token"`
	WebhookSecret string        `yaml:"webhook_secret"`
	BaseURL       string        `yaml:"base_url"`
	Timeout       time.Duration `yaml:"timeout"`
}

type PaymentConfig struct {
	MercadoPago MercadoPagoConfig `yaml:"mercadopago"`
	// MaxAmount bounds what the creation endpoint accepts, in currency units.
	MaxAmount float64 `yaml:"max_amount"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

type ReconcilerConfig struct {
	Interval   time.Duration `yaml:"interval"`
	StaleAfter time.Duration `yaml:"stale_after"`
}

type NotifyConfig struct {
	TelegramToken string `yaml:"telegram_token"`
	ChatID        int64  `yaml:"chat_id"`
}

type RateLimitConfig struct {
	Limit  int           `yaml:"limit"`
	Window time.Duration `yaml:"window"`
}

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Payment    PaymentConfig    `yaml:"payment"`
	Auth       AuthConfig       `yaml:"auth"`
	Reconciler ReconcilerConfig `yaml:"reconciler"`
	Notify     NotifyConfig     `yaml:"notify"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file, applies environment overrides for secrets,
// fills defaults and validates the minimum needed to boot.
func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Secrets may come from the environment (.env in dev, injected in prod).
	overrideFromEnv(&cfg.Database.URL, "DATABASE_URL")
	overrideFromEnv(&cfg.Payment.MercadoPago.AccessToken, "MP_ACCESS_TOKEN")
	overrideFromEnv(&cfg.Payment.MercadoPago.WebhookSecret, "MP_WEBHOOK_SECRET")
	overrideFromEnv(&cfg.Auth.JWTSecret, "JWT_SECRET")
	overrideFromEnv(&cfg.Notify.TelegramToken, "TELEGRAM_BOT_TOKEN")

	// defaults
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RequestTimeout <= 0 {
		cfg.Server.RequestTimeout = 30 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Payment.MercadoPago.BaseURL == "" {
		cfg.Payment.MercadoPago.BaseURL = "https://api.mercadopago.com"
	}
	if cfg.Payment.MercadoPago.Timeout <= 0 {
		cfg.Payment.MercadoPago.Timeout = 10 * time.Second
	}
	if cfg.Payment.MaxAmount <= 0 {
		cfg.Payment.MaxAmount = 50000
	}
	if cfg.Reconciler.Interval <= 0 {
		cfg.Reconciler.Interval = time.Minute
	}
	if cfg.Reconciler.StaleAfter <= 0 {
		cfg.Reconciler.StaleAfter = 10 * time.Minute
	}
	if cfg.RateLimit.Limit <= 0 {
		cfg.RateLimit.Limit = 60
	}
	if cfg.RateLimit.Window <= 0 {
		cfg.RateLimit.Window = time.Minute
	}

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if !dev && cfg.Payment.MercadoPago.WebhookSecret == "" {
		return nil, errors.New("payment.mercadopago.webhook_secret is required outside dev mode")
	}
	if !dev && cfg.Auth.JWTSecret == "" {
		return nil, errors.New("auth.jwt_secret is required outside dev mode")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func overrideFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
