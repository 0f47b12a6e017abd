// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package state

import (
	"testing"

	log "github.com/ChainSafe/log15"
	"github.com/stretchr/testify/require"
)

func TestService_StartStop(t *testing.T) {
	srv := NewTestService(t)

	require.NotNil(t, srv.Base)
	require.NotNil(t, srv.Epoch)
	require.NotNil(t, srv.Reference)
	require.NotNil(t, srv.Blob)
	require.NotNil(t, srv.Account)
	require.Equal(t, uint32(1), srv.Shard())

	err := srv.Stop()
	require.NoError(t, err)
}

func TestService_StartWithoutInitialise(t *testing.T) {
	srv := NewService(Config{
		LogLvl: log.LvlInfo,
		Shard:  1,
	})
	srv.UseMemDB()

	err := srv.Start()
	require.ErrorIs(t, err, ErrDBNotInitialised)
}

func TestService_ShardMismatch(t *testing.T) {
	srv := NewService(Config{
		Shard:         2,
		RenewalWindow: 2,
	})
	srv.UseMemDB()

	err := srv.Initialise("test", "id")
	require.NoError(t, err)

	// the database is bound to shard 2; a node configured for shard 3
	// must refuse to open it
	srv.shard = 3
	err = srv.Start()
	require.ErrorIs(t, err, ErrShardMismatch)
}

func TestService_InitStoresIdentity(t *testing.T) {
	srv := NewTestService(t)

	name, err := srv.Base.LoadNodeName()
	require.NoError(t, err)
	require.Equal(t, "test", name)

	id, err := srv.Base.LoadNodeID()
	require.NoError(t, err)
	require.NotEmpty(t, id)

	shard, err := srv.Base.LoadShard()
	require.NoError(t, err)
	require.Equal(t, uint32(1), shard)
}
