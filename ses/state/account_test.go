// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package state

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ChainSafe/shardcode/lib/common"
	"github.com/ChainSafe/shardcode/ses/types"
)

func TestAccountState_PrivateCode(t *testing.T) {
	accounts := NewAccountState(NewInMemoryDB(t))

	err := accounts.SetPrivateCode("alice", []byte("private wasm"))
	require.NoError(t, err)

	ac, err := accounts.Code("alice")
	require.NoError(t, err)
	require.Equal(t, types.ClassPrivate, ac.Class)
	require.Equal(t, []byte("private wasm"), ac.Code)
}

func TestAccountState_SharedCode(t *testing.T) {
	accounts := NewAccountState(NewInMemoryDB(t))
	hash := common.MustBlake2bHash([]byte("shared wasm"))

	err := accounts.SetSharedCode("bob", hash, 1)
	require.NoError(t, err)

	ac, err := accounts.Code("bob")
	require.NoError(t, err)
	require.True(t, ac.IsShared())
	require.Equal(t, hash, ac.Hash)
	require.Equal(t, uint32(1), ac.Shard)
}

func TestAccountState_NotFound(t *testing.T) {
	accounts := NewAccountState(NewInMemoryDB(t))

	_, err := accounts.Code("nobody")
	require.ErrorIs(t, err, ErrAccountNotFound)

	has, err := accounts.Has("nobody")
	require.NoError(t, err)
	require.False(t, has)
}

func TestAccountState_SlotIsExclusive(t *testing.T) {
	accounts := NewAccountState(NewInMemoryDB(t))
	hash := common.MustBlake2bHash([]byte("shared wasm"))

	err := accounts.SetPrivateCode("carol", []byte("private wasm"))
	require.NoError(t, err)

	// re-deploying as shared replaces the slot entirely
	err = accounts.SetSharedCode("carol", hash, 1)
	require.NoError(t, err)

	ac, err := accounts.Code("carol")
	require.NoError(t, err)
	require.True(t, ac.IsShared())
	require.Empty(t, ac.Code)
}
