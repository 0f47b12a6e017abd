// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/naoina/toml"
	"github.com/urfave/cli"

	"github.com/ChainSafe/shardcode/lib/utils"
	"github.com/ChainSafe/shardcode/ses"
	ctoml "github.com/ChainSafe/shardcode/ses/config/toml"
)

// createSesConfig builds the node configuration: defaults, overlaid
// with the TOML configuration file if one is given, overlaid with any
// command-line flags
func createSesConfig(ctx *cli.Context) (*ses.Config, error) {
	cfg := ses.DefaultConfig()

	if path := ctx.GlobalString(ConfigFlag.Name); path != "" {
		tomlCfg, err := loadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading toml configuration: %w", err)
		}
		if err := applyTomlConfig(tomlCfg, cfg); err != nil {
			return nil, err
		}
	}

	if err := applyFlags(ctx, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadConfigFile decodes the TOML configuration file at path
func loadConfigFile(path string) (*ctoml.Config, error) {
	fp, err := filepath.Abs(utils.ExpandDir(path))
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Clean(fp))
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn("failed to close config file", "err", err)
		}
	}()

	cfg := new(ctoml.Config)
	if err := toml.NewDecoder(f).Decode(cfg); err != nil {
		return nil, err
	}

	logger.Info("loaded toml configuration", "path", fp)
	return cfg, nil
}

func applyTomlConfig(tomlCfg *ctoml.Config, cfg *ses.Config) error {
	if tomlCfg.Global.Name != "" {
		cfg.Global.Name = tomlCfg.Global.Name
	}
	if tomlCfg.Global.BasePath != "" {
		cfg.Global.BasePath = utils.ExpandDir(tomlCfg.Global.BasePath)
	}
	if tomlCfg.Global.LogLvl != "" {
		lvl, err := parseLogLevel(tomlCfg.Global.LogLvl)
		if err != nil {
			return err
		}
		cfg.Global.LogLvl = lvl
	}

	cfg.Ses.Shard = tomlCfg.Ses.Shard
	if tomlCfg.Ses.RenewalWindow != 0 {
		cfg.Ses.RenewalWindow = tomlCfg.Ses.RenewalWindow
	}
	cfg.Ses.EpochLength = time.Duration(tomlCfg.Ses.EpochLength) * time.Second

	cfg.RPC.Enabled = tomlCfg.RPC.Enabled
	cfg.RPC.External = tomlCfg.RPC.External
	cfg.RPC.Unsafe = tomlCfg.RPC.Unsafe
	cfg.RPC.UnsafeExternal = tomlCfg.RPC.UnsafeExternal
	if tomlCfg.RPC.Host != "" {
		cfg.RPC.Host = tomlCfg.RPC.Host
	}
	if tomlCfg.RPC.Port != 0 {
		cfg.RPC.Port = tomlCfg.RPC.Port
	}
	cfg.RPC.WS = tomlCfg.RPC.WS
	cfg.RPC.WSExternal = tomlCfg.RPC.WSExternal
	if tomlCfg.RPC.WSPort != 0 {
		cfg.RPC.WSPort = tomlCfg.RPC.WSPort
	}
	if len(tomlCfg.RPC.Modules) > 0 {
		cfg.RPC.Modules = tomlCfg.RPC.Modules
	}

	cfg.Metrics.Publish = tomlCfg.Metrics.Publish
	if tomlCfg.Metrics.Port != 0 {
		cfg.Metrics.Port = tomlCfg.Metrics.Port
	}
	return nil
}

func applyFlags(ctx *cli.Context, cfg *ses.Config) error {
	if name := ctx.GlobalString(NameFlag.Name); name != "" {
		cfg.Global.Name = name
	}
	if basepath := ctx.GlobalString(BasePathFlag.Name); basepath != "" {
		cfg.Global.BasePath = utils.ExpandDir(basepath)
	}
	if lvlStr := ctx.GlobalString(LogFlag.Name); lvlStr != "" {
		lvl, err := parseLogLevel(lvlStr)
		if err != nil {
			return err
		}
		cfg.Global.LogLvl = lvl
	}

	if ctx.GlobalIsSet(ShardFlag.Name) {
		cfg.Ses.Shard = uint32(ctx.GlobalUint(ShardFlag.Name))
	}
	if ctx.GlobalIsSet(RenewalWindowFlag.Name) {
		cfg.Ses.RenewalWindow = ctx.GlobalUint64(RenewalWindowFlag.Name)
	}
	if ctx.GlobalIsSet(EpochLengthFlag.Name) {
		cfg.Ses.EpochLength = ctx.GlobalDuration(EpochLengthFlag.Name)
	}

	if ctx.GlobalBool(RPCEnabledFlag.Name) {
		cfg.RPC.Enabled = true
	}
	if ctx.GlobalBool(RPCExternalFlag.Name) {
		cfg.RPC.Enabled = true
		cfg.RPC.External = true
	}
	if ctx.GlobalBool(RPCUnsafeEnabledFlag.Name) {
		cfg.RPC.Unsafe = true
	}
	if ctx.GlobalBool(RPCUnsafeExternalFlag.Name) {
		cfg.RPC.Unsafe = true
		cfg.RPC.UnsafeExternal = true
	}
	if host := ctx.GlobalString(RPCHostFlag.Name); host != "" {
		cfg.RPC.Host = host
	}
	if port := ctx.GlobalUint(RPCPortFlag.Name); port != 0 {
		cfg.RPC.Port = uint32(port)
	}
	if mods := ctx.GlobalString(RPCModulesFlag.Name); mods != "" {
		cfg.RPC.Modules = strings.Split(mods, ",")
	}
	if ctx.GlobalBool(WSFlag.Name) {
		cfg.RPC.WS = true
	}
	if ctx.GlobalBool(WSExternalFlag.Name) {
		cfg.RPC.WS = true
		cfg.RPC.WSExternal = true
	}
	if port := ctx.GlobalUint(WSPortFlag.Name); port != 0 {
		cfg.RPC.WSPort = uint32(port)
	}

	if ctx.GlobalBool(PublishMetricsFlag.Name) {
		cfg.Metrics.Publish = true
	}
	if port := ctx.GlobalUint(MetricsPortFlag.Name); port != 0 {
		cfg.Metrics.Port = uint32(port)
	}

	return nil
}
