// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package main

import (
	"github.com/urfave/cli"
)

// Global node configuration flags
var (
	// LogFlag cli service settings
	LogFlag = cli.StringFlag{
		Name:  "log",
		Usage: "Global log level. Supports levels crit (silent), eror, warn, info, dbug and trce (trace)",
	}
	// NameFlag node implementation name
	NameFlag = cli.StringFlag{
		Name:  "name",
		Usage: "Node implementation name",
	}
	// ConfigFlag TOML configuration file
	ConfigFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	// BasePathFlag data directory for node
	BasePathFlag = cli.StringFlag{
		Name:  "basepath",
		Usage: "Data directory for the node",
	}
)

// Shard configuration flags
var (
	// ShardFlag is the shard the node's stores belong to; fixed at init
	ShardFlag = cli.UintFlag{
		Name:  "shard",
		Usage: "Shard the node's reference and blob stores belong to",
	}
	// RenewalWindowFlag is the number of epochs an access extends a reference by
	RenewalWindowFlag = cli.Uint64Flag{
		Name:  "renewal-window",
		Usage: "Number of epochs an access extends a reference's life by",
	}
	// EpochLengthFlag is the wall-clock duration of one epoch
	EpochLengthFlag = cli.DurationFlag{
		Name:  "epoch-length",
		Usage: "Wall-clock duration of one epoch (eg. 10m); 0 disables the epoch clock",
	}
)

// RPC service configuration flags
var (
	// RPCEnabledFlag enables the HTTP-RPC server
	RPCEnabledFlag = cli.BoolFlag{
		Name:  "rpc",
		Usage: "Enable the HTTP-RPC server",
	}
	// RPCExternalFlag enables external HTTP-RPC connections
	RPCExternalFlag = cli.BoolFlag{
		Name:  "rpc-external",
		Usage: "Enable external HTTP-RPC connections",
	}
	// RPCUnsafeEnabledFlag enables the unsafe RPC methods
	RPCUnsafeEnabledFlag = cli.BoolFlag{
		Name:  "unsafe-rpc",
		Usage: "Enable unsafe RPC methods (dev module)",
	}
	// RPCUnsafeExternalFlag enables external HTTP-RPC connections to unsafe procedures
	RPCUnsafeExternalFlag = cli.BoolFlag{
		Name:  "unsafe-rpc-external",
		Usage: "Enable external HTTP-RPC connections to unsafe procedures",
	}
	// RPCHostFlag HTTP-RPC server listening hostname
	RPCHostFlag = cli.StringFlag{
		Name:  "rpchost",
		Usage: "HTTP-RPC server listening hostname",
	}
	// RPCPortFlag HTTP-RPC server listening port
	RPCPortFlag = cli.UintFlag{
		Name:  "rpcport",
		Usage: "HTTP-RPC server listening port",
	}
	// RPCModulesFlag API modules to enable via HTTP-RPC
	RPCModulesFlag = cli.StringFlag{
		Name:  "rpcmods",
		Usage: "API modules to enable via HTTP-RPC, comma separated. (eg. --rpcmods=system,state)",
	}
	// WSFlag enables the websockets server
	WSFlag = cli.BoolFlag{
		Name:  "ws",
		Usage: "Enable the websockets server",
	}
	// WSExternalFlag enables external websocket connections
	WSExternalFlag = cli.BoolFlag{
		Name:  "ws-external",
		Usage: "Enable external websocket connections",
	}
	// WSPortFlag websocket server listening port
	WSPortFlag = cli.UintFlag{
		Name:  "wsport",
		Usage: "Websockets server listening port",
	}
)

// Metrics flags
var (
	// PublishMetricsFlag publishes node metrics
	PublishMetricsFlag = cli.BoolFlag{
		Name:  "publish-metrics",
		Usage: "Publish node metrics",
	}
	// MetricsPortFlag metrics server listening port
	MetricsPortFlag = cli.UintFlag{
		Name:  "metrics-port",
		Usage: "Metrics server listening port",
	}
)

// Subcommand flags
var (
	// ForceFlag disables all confirm prompts ("Y" to all)
	ForceFlag = cli.BoolFlag{
		Name:  "force",
		Usage: "Disable all confirm prompts (the same as answering \"Y\" to all)",
	}
	// OutFlag snapshot output file
	OutFlag = cli.StringFlag{
		Name:  "out",
		Usage: "Snapshot output file",
	}
	// InFlag snapshot input file
	InFlag = cli.StringFlag{
		Name:  "in",
		Usage: "Snapshot input file",
	}
)

// flag sets for the root shardcode command and all subcommands
var (
	// GlobalFlags are flags that are valid for use with the root command and all subcommands
	GlobalFlags = []cli.Flag{
		LogFlag,
		NameFlag,
		ConfigFlag,
		BasePathFlag,
		ShardFlag,
		RenewalWindowFlag,
	}

	// StartupFlags are flags that are only valid for the root command
	StartupFlags = []cli.Flag{
		EpochLengthFlag,

		// rpc flags
		RPCEnabledFlag,
		RPCExternalFlag,
		RPCUnsafeEnabledFlag,
		RPCUnsafeExternalFlag,
		RPCHostFlag,
		RPCPortFlag,
		RPCModulesFlag,
		WSFlag,
		WSExternalFlag,
		WSPortFlag,

		// metrics flags
		PublishMetricsFlag,
		MetricsPortFlag,
	}

	// RootFlags are the flags that are valid for use with the root shardcode command
	RootFlags = append(GlobalFlags, StartupFlags...)

	// InitFlags are flags that are valid for use with the init subcommand
	InitFlags = append([]cli.Flag{
		ForceFlag,
	}, GlobalFlags...)

	// SnapshotFlags are flags that are valid for use with the export-blobs
	// and import-blobs subcommands
	SnapshotFlags = append([]cli.Flag{
		OutFlag,
		InFlag,
	}, GlobalFlags...)
)

// FixFlagOrder allows us to use various flag order formats (ie,
// `shardcode init --config config.toml` and `shardcode --config
// config.toml init`)
func FixFlagOrder(f func(ctx *cli.Context) error) func(*cli.Context) error {
	return func(ctx *cli.Context) error {
		for _, flagName := range ctx.FlagNames() {
			if ctx.GlobalIsSet(flagName) {
				continue
			}
			if ctx.IsSet(flagName) {
				if err := ctx.GlobalSet(flagName, ctx.String(flagName)); err != nil {
					logger.Trace("local flag set", "name", flagName)
				}
			}
		}
		return f(ctx)
	}
}
