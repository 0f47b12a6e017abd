// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package state

import (
	"sync"

	"github.com/ChainSafe/chaindb"

	"github.com/ChainSafe/shardcode/lib/common"
)

// EpochState tracks the current epoch of the node's shard. Epochs are
// the chain's native time unit; the expiring reference store derives
// every expiry from them rather than from wall-clock time.
type EpochState struct {
	db   chaindb.Database
	lock sync.RWMutex
}

// NewEpochState returns an EpochState over the given database
func NewEpochState(db chaindb.Database) *EpochState {
	return &EpochState{
		db: db,
	}
}

// NewEpochStateFromGenesis returns an EpochState with the current epoch
// set to zero
func NewEpochStateFromGenesis(db chaindb.Database) (*EpochState, error) {
	s := NewEpochState(db)
	if err := s.SetCurrentEpoch(0); err != nil {
		return nil, err
	}
	return s, nil
}

// CurrentEpoch returns the current epoch
func (s *EpochState) CurrentEpoch() (uint64, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	enc, err := s.db.Get(common.CurrentEpochKey)
	if err != nil {
		return 0, err
	}
	return decodeUint64(enc), nil
}

// SetCurrentEpoch sets the current epoch
func (s *EpochState) SetCurrentEpoch(epoch uint64) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.db.Put(common.CurrentEpochKey, encodeUint64(epoch))
}
