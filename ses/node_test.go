// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package ses

import (
	"testing"
	"time"

	log "github.com/ChainSafe/log15"
	"github.com/stretchr/testify/require"
)

// newTestConfig returns a node configuration rooted in a temporary
// directory, with all servers disabled
func newTestConfig(t *testing.T) *Config {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Global.Name = "shardcode-test"
	cfg.Global.BasePath = t.TempDir()
	cfg.Global.LogLvl = log.LvlCrit
	cfg.Ses.Shard = 1
	cfg.Ses.EpochLength = 0
	cfg.RPC.Enabled = false
	cfg.RPC.WS = false
	cfg.Metrics.Publish = false
	return cfg
}

func TestInitNode(t *testing.T) {
	cfg := newTestConfig(t)

	require.False(t, NodeInitialised(cfg.Global.BasePath))

	err := InitNode(cfg)
	require.NoError(t, err)
	require.True(t, NodeInitialised(cfg.Global.BasePath))
}

func TestNewNode_NotInitialised(t *testing.T) {
	cfg := newTestConfig(t)

	_, err := NewNode(cfg)
	require.ErrorIs(t, err, ErrNodeNotInitialised)
}

func TestNewNode_ShardMismatch(t *testing.T) {
	cfg := newTestConfig(t)

	err := InitNode(cfg)
	require.NoError(t, err)

	cfg.Ses.Shard = 7
	_, err = NewNode(cfg)
	require.Error(t, err)
}

func TestStartStopNode(t *testing.T) {
	cfg := newTestConfig(t)

	err := InitNode(cfg)
	require.NoError(t, err)

	node, err := NewNode(cfg)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		err := node.Start()
		require.NoError(t, err)
	}()

	time.Sleep(100 * time.Millisecond)
	node.Stop()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("node did not stop")
	}
}
