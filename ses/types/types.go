// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package types

import (
	"github.com/ChainSafe/shardcode/lib/common"
)

// AccountID identifies an account within a shard
type AccountID string

// Deploy is a code deployment action submitted by an account.
// When Shared is set, the account's code slot becomes a reference into
// the shard-local shared store instead of a private copy.
type Deploy struct {
	Account AccountID
	Code    []byte
	Shared  bool
	Shard   uint32
}

// CodeStatus describes how an account's code slot currently resolves
type CodeStatus string

const (
	// CodeStatusPrivate means the account owns a private copy of its code
	CodeStatusPrivate CodeStatus = "private"
	// CodeStatusShared means the account references live shared code
	CodeStatusShared CodeStatus = "shared"
	// CodeStatusSoftLocked means the account references shared code that
	// has expired and been swept; calls fail until an identical re-deploy
	CodeStatusSoftLocked CodeStatus = "softLocked"
)

// SweepResult describes one epoch-boundary sweep
type SweepResult struct {
	Epoch uint64        `json:"epoch"`
	Swept []common.Hash `json:"swept"`
}

// Health is returned by the system_health RPC method
type Health struct {
	Epoch          uint64 `json:"epoch"`
	Shard          uint32 `json:"shard"`
	LiveReferences int    `json:"liveReferences"`
}
