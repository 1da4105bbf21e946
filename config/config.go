// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"fmt"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/go-playground/validator/v10"

	"github.com/vaultkit/wallet-api/consts"
	"github.com/vaultkit/wallet-api/pebble"
	"github.com/vaultkit/wallet-api/trace"

	walletlogging "github.com/vaultkit/wallet-api/internal/logging"
)

// Pending book backends.
const (
	PebbleBackend = "pebble"
	RedisBackend  = "redis"
)

type Config struct {
	Log   walletlogging.Config `json:"log"   yaml:"log"   mapstructure:"log"`
	Store StoreConfig          `json:"store" yaml:"store" mapstructure:"store"`
	Trace trace.Config         `json:"trace" yaml:"trace" mapstructure:"trace"`

	// BatchWorkers bounds the goroutines used by batch imports. Zero means
	// one goroutine per envelope.
	BatchWorkers int `json:"batchWorkers" yaml:"batchWorkers" mapstructure:"batch_workers" validate:"gte=0"`

	// SizeLimit bounds the canonical encoding of a single transaction. It
	// may only tighten the ledger's own limit.
	SizeLimit int `json:"sizeLimit" yaml:"sizeLimit" mapstructure:"size_limit" validate:"gt=0,lte=1048576"`
}

type StoreConfig struct {
	Backend string `json:"backend" yaml:"backend" mapstructure:"backend" validate:"oneof=pebble redis"`

	PebbleDir    string        `json:"pebbleDir"    yaml:"pebbleDir"    mapstructure:"pebble_dir"    validate:"required_if=Backend pebble"`
	Pebble       pebble.Config `json:"pebble"       yaml:"pebble"       mapstructure:"pebble"`
	RedisAddr    string        `json:"redisAddr"    yaml:"redisAddr"    mapstructure:"redis_addr"    validate:"required_if=Backend redis"`
	RedisDB      int           `json:"redisDB"      yaml:"redisDB"      mapstructure:"redis_db"      validate:"gte=0"`
	RedisPrefix  string        `json:"redisPrefix"  yaml:"redisPrefix"  mapstructure:"redis_prefix"`
	RedisTimeout time.Duration `json:"redisTimeout" yaml:"redisTimeout" mapstructure:"redis_timeout"`
}

func NewDefaultConfig() *Config {
	return &Config{
		Log: walletlogging.NewDefaultConfig(),
		Store: StoreConfig{
			Backend:      PebbleBackend,
			PebbleDir:    "pending",
			Pebble:       pebble.NewDefaultConfig(),
			RedisAddr:    "localhost:6379",
			RedisPrefix:  "rawtxn:pending:",
			RedisTimeout: 5 * time.Second,
		},
		Trace:        trace.NewDefaultConfig(),
		BatchWorkers: 4,
		SizeLimit:    consts.NetworkSizeLimit,
	}
}

// Validate checks the struct constraints and the log level.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.GetLogLevel(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) GetLogLevel() (logging.Level, error) {
	return logging.ToLevel(c.Log.Level)
}

func (c *Config) GetTraceConfig() *trace.Config { return &c.Trace }
