// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package state

import (
	"testing"

	"github.com/ChainSafe/chaindb"
	"github.com/stretchr/testify/require"

	"github.com/ChainSafe/shardcode/lib/utils"
)

// NewInMemoryDB creates a new in-memory database for testing
func NewInMemoryDB(t *testing.T) chaindb.Database {
	db, err := utils.SetupDatabase(t.TempDir(), true)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

// NewTestService creates a started state service over an in-memory
// database, on shard 1 with a renewal window of 2 epochs
func NewTestService(t *testing.T) *Service {
	srv := NewService(Config{
		Shard:         1,
		RenewalWindow: 2,
	})
	srv.UseMemDB()

	err := srv.Initialise("test", "00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)

	err = srv.Start()
	require.NoError(t, err)
	return srv
}
