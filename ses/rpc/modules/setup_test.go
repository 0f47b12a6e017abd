// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package modules

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ChainSafe/shardcode/ses/core"
	"github.com/ChainSafe/shardcode/ses/state"
	"github.com/ChainSafe/shardcode/ses/types"
)

// newTestBackend returns a core service and the state service beneath
// it, over an in-memory database on shard 1
func newTestBackend(t *testing.T) (*core.Service, *state.Service) {
	t.Helper()

	st := state.NewTestService(t)
	coreSrvc, err := core.NewService(&core.Config{
		Shard:          st.Shard(),
		EpochState:     st.Epoch,
		ReferenceState: st.Reference,
		BlobState:      st.Blob,
		AccountState:   st.Account,
	})
	require.NoError(t, err)
	return coreSrvc, st
}

// deployShared deploys code to the given account through the core
// service, shared on the backend's shard
func deployShared(t *testing.T, coreSrvc *core.Service, account, code string) {
	t.Helper()

	_, err := coreSrvc.HandleDeploy(&types.Deploy{
		Account: types.AccountID(account),
		Code:    []byte(code),
		Shared:  true,
		Shard:   coreSrvc.Shard(),
	})
	require.NoError(t, err)
}

type testSystemAPI struct{}

func (*testSystemAPI) NodeName() string      { return "shardcode-test" }
func (*testSystemAPI) SystemVersion() string { return "0.0.1" }
