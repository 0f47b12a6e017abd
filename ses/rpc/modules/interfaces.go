// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package modules

import (
	"github.com/ChainSafe/shardcode/lib/common"
	"github.com/ChainSafe/shardcode/ses/types"
)

// CoreAPI is the interface for the core service
type CoreAPI interface {
	HandleDeploy(deploy *types.Deploy) (common.Hash, error)
	ResolveCode(id types.AccountID) ([]byte, error)
	PeekCode(id types.AccountID) (*types.AccountCode, []byte, error)
	CodeStatus(id types.AccountID) (types.CodeStatus, *types.AccountCode, error)
	CurrentEpoch() (uint64, error)
	SetEpoch(epoch uint64) (*types.SweepResult, error)
	Sweep() (*types.SweepResult, error)
	Shard() uint32
	Health() (*types.Health, error)
}

// ReferenceAPI is the interface for read-only reference store queries
type ReferenceAPI interface {
	Expiry(hash common.Hash) (uint64, error)
	Entries() (map[common.Hash]uint64, error)
}

// SystemAPI is the interface for the node's static system information
type SystemAPI interface {
	NodeName() string
	SystemVersion() string
}

// RPCAPI is the interface for the RPC methods state
type RPCAPI interface {
	Methods() []string
	BuildMethodNames(rcvr interface{}, name string)
}
