// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package modules

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ChainSafe/shardcode/lib/common"
	"github.com/ChainSafe/shardcode/ses/core"
)

func TestDevModule_SetEpoch(t *testing.T) {
	coreSrvc, _ := newTestBackend(t)
	dm := NewDevModule(coreSrvc)

	deployShared(t, coreSrvc, "alice", "expiring wasm")
	hash := common.MustBlake2bHash([]byte("expiring wasm"))

	// expiry is epoch 2; the entry survives until current epoch passes it
	var res SweepResponse
	err := dm.SetEpoch(nil, &SetEpochRequest{Epoch: 2}, &res)
	require.NoError(t, err)
	require.Empty(t, res.Swept)

	err = dm.SetEpoch(nil, &SetEpochRequest{Epoch: 3}, &res)
	require.NoError(t, err)
	require.Equal(t, []string{hash.String()}, res.Swept)
}

func TestDevModule_SetEpoch_Regression(t *testing.T) {
	coreSrvc, _ := newTestBackend(t)
	dm := NewDevModule(coreSrvc)

	var res SweepResponse
	err := dm.SetEpoch(nil, &SetEpochRequest{Epoch: 5}, &res)
	require.NoError(t, err)

	err = dm.SetEpoch(nil, &SetEpochRequest{Epoch: 4}, &res)
	require.ErrorIs(t, err, core.ErrEpochRegression)
}

func TestDevModule_Sweep(t *testing.T) {
	coreSrvc, _ := newTestBackend(t)
	dm := NewDevModule(coreSrvc)

	var res SweepResponse
	err := dm.Sweep(nil, &EmptyRequest{}, &res)
	require.NoError(t, err)
	require.Equal(t, uint64(0), res.Epoch)
	require.Empty(t, res.Swept)
}

func TestIsUnsafe(t *testing.T) {
	require.True(t, IsUnsafe("dev_setEpoch"))
	require.True(t, IsUnsafe("dev_sweep"))
	require.False(t, IsUnsafe("state_getCode"))
}
