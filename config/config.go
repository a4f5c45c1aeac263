// Package config provides configuration management for the mock oracle service
package config

import (
	"fmt"
	"log"
	"math/big"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the application configuration
type Config struct {
	ValidTimePeriod string `envconfig:"VALID_TIME_PERIOD"`     // Staleness window for price queries, in seconds
	SingleUpdateFee string `envconfig:"SINGLE_UPDATE_FEE_WEI"` // Per-update fee unit in wei, decimal string
	Addr            string `envconfig:"ADDR"`                  // HTTP listen address
}

// Option is a function that modifies Config
type Option func(*Config) error

// WithEnvFile loads configuration from a .env file
func WithEnvFile(path string) Option {
	return func(c *Config) error {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load env file: %w", err)
		}

		return envconfig.Process("", c)
	}
}

// WithValidTimePeriod sets the staleness window in seconds
func WithValidTimePeriod(seconds string) Option {
	return func(c *Config) error {
		c.ValidTimePeriod = seconds

		return nil
	}
}

// WithSingleUpdateFee sets the per-update fee unit in wei
func WithSingleUpdateFee(wei string) Option {
	return func(c *Config) error {
		c.SingleUpdateFee = wei

		return nil
	}
}

// validate performs validation on the config values
func (c *Config) validate() error {
	period, err := strconv.ParseUint(c.ValidTimePeriod, 10, 64)
	if err != nil || period == 0 {
		return fmt.Errorf("invalid valid time period: %s", c.ValidTimePeriod)
	}

	if _, ok := new(big.Int).SetString(c.SingleUpdateFee, 10); !ok {
		return fmt.Errorf("invalid fee amount: %s", c.SingleUpdateFee)
	}

	if c.Addr == "" {
		return fmt.Errorf("listen address is required")
	}

	return nil
}

// NewConfig creates a new validated Config instance
func NewConfig(opts ...Option) (*Config, error) {
	var cfg Config

	// Process environment variables first
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	// Apply defaults only if values are empty
	if cfg.ValidTimePeriod == "" {
		cfg.ValidTimePeriod = "60"
	}

	if cfg.SingleUpdateFee == "" {
		cfg.SingleUpdateFee = "1"
	}

	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}

	// Apply user options last so they take precedence
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			log.Printf("⚠️ Warning: option application failed: %v", err)
		}
	}

	// Validate the configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// ValidDuration returns the staleness window as a duration
func (c *Config) ValidDuration() time.Duration {
	period, err := strconv.ParseUint(c.ValidTimePeriod, 10, 64)
	if err != nil {
		return 0
	}

	return time.Duration(period) * time.Second
}

// SingleUpdateFeeWei returns the per-update fee unit as a wei amount
func (c *Config) SingleUpdateFeeWei() *big.Int {
	fee, ok := new(big.Int).SetString(c.SingleUpdateFee, 10)
	if !ok {
		return new(big.Int)
	}

	return fee
}
