// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	log "github.com/ChainSafe/log15"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"

	"github.com/ChainSafe/shardcode/ses"
)

// newTestContext creates a cli context for the given flags and values
func newTestContext(t *testing.T, description string, flags []string, values []interface{}) *cli.Context {
	t.Helper()
	require.Equal(t, len(flags), len(values))

	set := flag.NewFlagSet(description, 0)
	for i := range values {
		switch v := values[i].(type) {
		case bool:
			set.Bool(flags[i], v, "")
		case string:
			set.String(flags[i], v, "")
		case uint:
			set.Uint(flags[i], v, "")
		case uint64:
			set.Uint64(flags[i], v, "")
		case time.Duration:
			set.Duration(flags[i], v, "")
		default:
			t.Fatalf("unexpected cli value type: %T", values[i])
		}
	}

	ctx := cli.NewContext(nil, set, nil)
	for i := range flags {
		err := ctx.Set(flags[i], fmt.Sprint(values[i]))
		require.NoError(t, err)
	}
	return ctx
}

func TestCreateSesConfig_Defaults(t *testing.T) {
	ctx := newTestContext(t, "defaults", nil, nil)

	cfg, err := createSesConfig(ctx)
	require.NoError(t, err)
	require.Equal(t, ses.DefaultConfig(), cfg)
}

func TestCreateSesConfig_Flags(t *testing.T) {
	basepath := t.TempDir()
	ctx := newTestContext(t, "flags",
		[]string{"name", "basepath", "shard", "renewal-window", "epoch-length", "log"},
		[]interface{}{"shard-3-node", basepath, uint(3), uint64(5), 30 * time.Second, "dbug"},
	)

	cfg, err := createSesConfig(ctx)
	require.NoError(t, err)
	require.Equal(t, "shard-3-node", cfg.Global.Name)
	require.Equal(t, basepath, cfg.Global.BasePath)
	require.Equal(t, log.LvlDebug, cfg.Global.LogLvl)
	require.Equal(t, uint32(3), cfg.Ses.Shard)
	require.Equal(t, uint64(5), cfg.Ses.RenewalWindow)
	require.Equal(t, 30*time.Second, cfg.Ses.EpochLength)
}

func TestCreateSesConfig_TomlFile(t *testing.T) {
	content := `[global]
name = "toml-node"
log = "warn"

[ses]
shard = 9
renewal-window = 4
epoch-length = 600

[rpc]
rpc = true
rpcport = 9933
modules = ["system", "state"]

[metrics]
metrics = true
metricsport = 9999
`
	path := filepath.Join(t.TempDir(), "config.toml")
	err := os.WriteFile(path, []byte(content), 0o600)
	require.NoError(t, err)

	ctx := newTestContext(t, "toml",
		[]string{"config"},
		[]interface{}{path},
	)

	cfg, err := createSesConfig(ctx)
	require.NoError(t, err)
	require.Equal(t, "toml-node", cfg.Global.Name)
	require.Equal(t, log.LvlWarn, cfg.Global.LogLvl)
	require.Equal(t, uint32(9), cfg.Ses.Shard)
	require.Equal(t, uint64(4), cfg.Ses.RenewalWindow)
	require.Equal(t, 10*time.Minute, cfg.Ses.EpochLength)
	require.True(t, cfg.RPC.Enabled)
	require.Equal(t, uint32(9933), cfg.RPC.Port)
	require.Equal(t, []string{"system", "state"}, cfg.RPC.Modules)
	require.True(t, cfg.Metrics.Publish)
	require.Equal(t, uint32(9999), cfg.Metrics.Port)
}

func TestCreateSesConfig_FlagOverridesToml(t *testing.T) {
	content := `[ses]
shard = 9
`
	path := filepath.Join(t.TempDir(), "config.toml")
	err := os.WriteFile(path, []byte(content), 0o600)
	require.NoError(t, err)

	ctx := newTestContext(t, "override",
		[]string{"config", "shard"},
		[]interface{}{path, uint(2)},
	)

	cfg, err := createSesConfig(ctx)
	require.NoError(t, err)
	require.Equal(t, uint32(2), cfg.Ses.Shard)
}

func TestCreateSesConfig_InvalidLogLevel(t *testing.T) {
	ctx := newTestContext(t, "badlog",
		[]string{"log"},
		[]interface{}{"verbose"},
	)

	_, err := createSesConfig(ctx)
	require.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	for lvlStr, want := range map[string]log.Lvl{
		"crit": log.LvlCrit,
		"eror": log.LvlError,
		"warn": log.LvlWarn,
		"info": log.LvlInfo,
		"dbug": log.LvlDebug,
	} {
		lvl, err := parseLogLevel(lvlStr)
		require.NoError(t, err, fmt.Sprintf("level %s", lvlStr))
		require.Equal(t, want, lvl)
	}
}
