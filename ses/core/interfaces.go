// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package core

import (
	"github.com/ChainSafe/shardcode/lib/common"
	"github.com/ChainSafe/shardcode/ses/types"
)

// EpochState tracks the shard's current epoch
type EpochState interface {
	CurrentEpoch() (uint64, error)
	SetCurrentEpoch(epoch uint64) error
}

// ReferenceState is the expiring reference store
type ReferenceState interface {
	Touch(hash common.Hash, epoch uint64) (uint64, error)
	CreateOrTouchWithBlob(hash common.Hash, code []byte, epoch uint64) (uint64, error)
	Sweep(epoch uint64) ([]common.Hash, error)
	Has(hash common.Hash) (bool, error)
	Count() (int, error)
}

// BlobState is the content-addressed code store. Blob writes on the
// deploy path go through ReferenceState.CreateOrTouchWithBlob instead,
// so the blob and its reference appear together.
type BlobState interface {
	Get(hash common.Hash) ([]byte, error)
}

// AccountState stores account code slots
type AccountState interface {
	SetPrivateCode(id types.AccountID, code []byte) error
	SetSharedCode(id types.AccountID, hash common.Hash, shard uint32) error
	Code(id types.AccountID) (*types.AccountCode, error)
	Has(id types.AccountID) (bool, error)
}
