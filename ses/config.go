// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package ses implements the shardcode node: configuration and wiring
// of the state, core, RPC and metrics services.
package ses

import (
	"fmt"
	"time"

	log "github.com/ChainSafe/log15"
	"github.com/go-playground/validator/v10"

	"github.com/ChainSafe/shardcode/lib/utils"
)

// Version is the node implementation version
const Version = "0.1.0"

// DefaultName is the default node name
const DefaultName = "Shardcode"

// GlobalConfig is the global node configuration
type GlobalConfig struct {
	Name     string `validate:"required"`
	BasePath string `validate:"required"`
	LogLvl   log.Lvl
}

// SesConfig configures the shared ephemeral storage subsystem
type SesConfig struct {
	Shard uint32

	// RenewalWindow is the number of epochs an access extends a
	// reference's life by. A tunable, not a constant.
	RenewalWindow uint64 `validate:"required,gte=1"`

	// EpochLength is the wall-clock duration of one epoch. Zero
	// disables the epoch clock; epochs then only advance through the
	// unsafe dev RPC module.
	EpochLength time.Duration
}

// RPCConfig configures the JSON-RPC server
type RPCConfig struct {
	Enabled        bool
	External       bool
	Unsafe         bool
	UnsafeExternal bool
	Host           string
	Port           uint32
	WS             bool
	WSExternal     bool
	WSPort         uint32
	Modules        []string
}

// MetricsConfig configures the prometheus metrics server
type MetricsConfig struct {
	Publish bool
	Port    uint32
}

// Config is the node configuration
type Config struct {
	Global  GlobalConfig
	Ses     SesConfig
	RPC     RPCConfig
	Metrics MetricsConfig
}

// DefaultConfig returns the default node configuration
func DefaultConfig() *Config {
	return &Config{
		Global: GlobalConfig{
			Name:     DefaultName,
			BasePath: utils.BasePath("shardcode"),
			LogLvl:   log.LvlInfo,
		},
		Ses: SesConfig{
			Shard:         0,
			RenewalWindow: 2,
			EpochLength:   10 * time.Minute,
		},
		RPC: RPCConfig{
			Enabled: true,
			Host:    "localhost",
			Port:    8545,
			WSPort:  8546,
			Modules: []string{"system", "state", "author", "rpc"},
		},
		Metrics: MetricsConfig{
			Port: 9876,
		},
	}
}

// Validate checks the configuration for missing or contradictory values
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.RPC.Enabled && c.RPC.Port == 0 {
		return fmt.Errorf("invalid configuration: rpc enabled without a port")
	}
	if c.RPC.WS && c.RPC.WSPort == 0 {
		return fmt.Errorf("invalid configuration: websocket enabled without a port")
	}
	return nil
}
