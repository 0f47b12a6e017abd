// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package ses

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
}

func TestConfigValidate_MissingName(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Global.Name = ""
	require.Error(t, cfg.Validate())
}

func TestConfigValidate_ZeroRenewalWindow(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Ses.RenewalWindow = 0
	require.Error(t, cfg.Validate())
}

func TestConfigValidate_RPCWithoutPort(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RPC.Port = 0
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.RPC.WS = true
	cfg.RPC.WSPort = 0
	require.Error(t, cfg.Validate())
}
