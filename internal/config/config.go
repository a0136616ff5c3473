// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/mmynk/tabsplit/internal/calculator"
)

// Config is the server configuration.
type Config struct {
	Addr      string `env:"ADDR" envDefault:":8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// AuthSecret signs service tokens. Empty disables authentication.
	AuthSecret string        `env:"AUTH_SECRET"`
	TokenTTL   time.Duration `env:"TOKEN_TTL" envDefault:"720h"`

	DefaultPaymentMode      string `env:"DEFAULT_PAYMENT_MODE" envDefault:"cardAllowed"`
	DefaultSettlementPolicy string `env:"DEFAULT_SETTLEMENT_POLICY" envDefault:"sortedDescending"`

	MetricsPath string `env:"METRICS_PATH" envDefault:"/metrics"`
}

// Load parses the environment and checks enumerated values.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if _, err := cfg.Defaults(); err != nil {
		return nil, err
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be positive, got %s", cfg.TokenTTL)
	}
	return &cfg, nil
}

// Defaults returns the compute options applied when a request leaves them
// empty.
func (c *Config) Defaults() (calculator.Options, error) {
	mode, err := calculator.ParsePaymentMode(c.DefaultPaymentMode)
	if err != nil {
		return calculator.Options{}, fmt.Errorf("DEFAULT_PAYMENT_MODE: %w", err)
	}
	policy, err := calculator.ParseSettlementPolicy(c.DefaultSettlementPolicy)
	if err != nil {
		return calculator.Options{}, fmt.Errorf("DEFAULT_SETTLEMENT_POLICY: %w", err)
	}
	return calculator.Options{PaymentMode: mode, SettlementPolicy: policy}, nil
}

// AuthEnabled reports whether RPCs require a service token.
func (c *Config) AuthEnabled() bool {
	return c.AuthSecret != ""
}
