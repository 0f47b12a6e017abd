// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package state

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ChainSafe/chaindb"

	"github.com/ChainSafe/shardcode/lib/common"
	"github.com/ChainSafe/shardcode/ses/types"
)

// AccountState stores each account's executable-code slot: either a
// private copy of its code or a reference into the shared store.
type AccountState struct {
	db   chaindb.Database
	lock sync.RWMutex
}

// NewAccountState returns an AccountState over a prefixed table of the
// given database
func NewAccountState(db chaindb.Database) *AccountState {
	return &AccountState{
		db: chaindb.NewTable(db, accountPrefix),
	}
}

// SetPrivateCode sets the account's code slot to a privately-owned copy
func (s *AccountState) SetPrivateCode(id types.AccountID, code []byte) error {
	return s.setCode(id, types.NewPrivateCode(code))
}

// SetSharedCode sets the account's code slot to a reference into the
// shared store. The shard is fixed here and never rewritten by
// resolution.
func (s *AccountState) SetSharedCode(id types.AccountID, hash common.Hash, shard uint32) error {
	return s.setCode(id, types.NewSharedCode(hash, shard))
}

func (s *AccountState) setCode(id types.AccountID, ac *types.AccountCode) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.db.Put(accountKey(id), ac.Encode())
}

// Code returns the account's code slot, or ErrAccountNotFound if the
// account has never deployed code
func (s *AccountState) Code(id types.AccountID) (*types.AccountCode, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	enc, err := s.db.Get(accountKey(id))
	if errors.Is(err, chaindb.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, id)
	} else if err != nil {
		return nil, err
	}

	return types.DecodeAccountCode(enc)
}

// Has returns true if the account has a code record
func (s *AccountState) Has(id types.AccountID) (bool, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.db.Has(accountKey(id))
}
