// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package modules

import (
	"testing"

	"github.com/ChainSafe/chaindb"
	"github.com/stretchr/testify/require"

	"github.com/ChainSafe/shardcode/lib/common"
	"github.com/ChainSafe/shardcode/ses/state"
	"github.com/ChainSafe/shardcode/ses/types"
)

func TestStateModule_GetAccountInfo(t *testing.T) {
	coreSrvc, _ := newTestBackend(t)
	sm := NewStateModule(coreSrvc, nil)

	deployShared(t, coreSrvc, "alice", "shared wasm")

	var res AccountInfoResponse
	err := sm.GetAccountInfo(nil, &AccountRequest{Account: "alice"}, &res)
	require.NoError(t, err)
	require.Equal(t, uint32(1), res.Shard)
	require.Equal(t, string(types.CodeStatusShared), res.CodeStatus)
	require.Equal(t, common.MustBlake2bHash([]byte("shared wasm")).String(), res.CodeHash)
}

func TestStateModule_GetAccountInfo_Private(t *testing.T) {
	coreSrvc, _ := newTestBackend(t)
	sm := NewStateModule(coreSrvc, nil)

	_, err := coreSrvc.HandleDeploy(&types.Deploy{
		Account: "bob",
		Code:    []byte("private wasm"),
	})
	require.NoError(t, err)

	var res AccountInfoResponse
	err = sm.GetAccountInfo(nil, &AccountRequest{Account: "bob"}, &res)
	require.NoError(t, err)
	require.Equal(t, string(types.CodeStatusPrivate), res.CodeStatus)
	require.Empty(t, res.CodeHash)
}

func TestStateModule_GetAccountInfo_NotFound(t *testing.T) {
	coreSrvc, _ := newTestBackend(t)
	sm := NewStateModule(coreSrvc, nil)

	var res AccountInfoResponse
	err := sm.GetAccountInfo(nil, &AccountRequest{Account: "nobody"}, &res)
	require.ErrorIs(t, err, state.ErrAccountNotFound)
}

func TestStateModule_GetCode_DoesNotRenew(t *testing.T) {
	coreSrvc, st := newTestBackend(t)
	sm := NewStateModule(coreSrvc, st.Reference)

	deployShared(t, coreSrvc, "alice", "shared wasm")
	hash := common.MustBlake2bHash([]byte("shared wasm"))

	before, err := st.Reference.Expiry(hash)
	require.NoError(t, err)

	_, err = coreSrvc.SetEpoch(1)
	require.NoError(t, err)

	var res CodeResponse
	err = sm.GetCode(nil, &AccountRequest{Account: "alice"}, &res)
	require.NoError(t, err)
	require.Equal(t, common.BytesToHex([]byte("shared wasm")), res.Code)
	require.True(t, res.Shared)
	require.Equal(t, hash.String(), res.Hash)

	after, err := st.Reference.Expiry(hash)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestStateModule_GetReference(t *testing.T) {
	coreSrvc, st := newTestBackend(t)
	sm := NewStateModule(coreSrvc, st.Reference)

	deployShared(t, coreSrvc, "alice", "shared wasm")
	hash := common.MustBlake2bHash([]byte("shared wasm"))

	var res ReferenceResponse
	err := sm.GetReference(nil, &ReferenceRequest{Hash: hash.String()}, &res)
	require.NoError(t, err)
	require.Equal(t, uint64(2), res.ExpiryEpoch)

	err = sm.GetReference(nil, &ReferenceRequest{Hash: common.Hash{}.String()}, &res)
	require.ErrorIs(t, err, chaindb.ErrKeyNotFound)
}

func TestStateModule_GetReferences(t *testing.T) {
	coreSrvc, st := newTestBackend(t)
	sm := NewStateModule(coreSrvc, st.Reference)

	deployShared(t, coreSrvc, "alice", "wasm a")
	deployShared(t, coreSrvc, "bob", "wasm b")

	var res ReferencesResponse
	err := sm.GetReferences(nil, &EmptyRequest{}, &res)
	require.NoError(t, err)
	require.Len(t, res, 2)
	require.Equal(t, uint64(2), res[common.MustBlake2bHash([]byte("wasm a")).String()])
}
