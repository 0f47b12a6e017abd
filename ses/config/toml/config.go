// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package toml defines the TOML configuration file schema
package toml

// Config is the TOML configuration file format
type Config struct {
	Global  GlobalConfig  `toml:"global"`
	Ses     SesConfig     `toml:"ses"`
	RPC     RPCConfig     `toml:"rpc"`
	Metrics MetricsConfig `toml:"metrics"`
}

// GlobalConfig is the global node configuration
type GlobalConfig struct {
	Name     string `toml:"name"`
	BasePath string `toml:"basepath"`
	LogLvl   string `toml:"log"`
}

// SesConfig configures the shared ephemeral storage subsystem
type SesConfig struct {
	Shard         uint32 `toml:"shard"`
	RenewalWindow uint64 `toml:"renewal-window"`
	EpochLength   uint64 `toml:"epoch-length"` // seconds; 0 disables the epoch clock
}

// RPCConfig configures the JSON-RPC server
type RPCConfig struct {
	Enabled        bool     `toml:"rpc"`
	External       bool     `toml:"rpc-external"`
	Unsafe         bool     `toml:"unsafe-rpc"`
	UnsafeExternal bool     `toml:"unsafe-rpc-external"`
	Host           string   `toml:"host"`
	Port           uint32   `toml:"rpcport"`
	WS             bool     `toml:"ws"`
	WSExternal     bool     `toml:"ws-external"`
	WSPort         uint32   `toml:"wsport"`
	Modules        []string `toml:"modules"`
}

// MetricsConfig configures the prometheus metrics server
type MetricsConfig struct {
	Publish bool   `toml:"metrics"`
	Port    uint32 `toml:"metricsport"`
}
