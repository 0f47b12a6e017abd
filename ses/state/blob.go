// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package state

import (
	"sync"

	"github.com/ChainSafe/chaindb"

	"github.com/ChainSafe/shardcode/lib/common"
)

// BlobState is the content-addressed store of shared code bytes. Blobs
// are keyed by the blake2b hash of their contents, so byte-identical
// deployments always resolve to the same row. A blob lives exactly as
// long as its reference row: the only deletion path is the reference
// store's sweep, which removes both in one batch.
type BlobState struct {
	db   chaindb.Database
	lock sync.RWMutex
}

// NewBlobState returns a BlobState over the given database
func NewBlobState(db chaindb.Database) *BlobState {
	return &BlobState{
		db: db,
	}
}

// Put stores the given code and returns its content hash. It is
// idempotent: if a blob with that hash is already stored, nothing is
// written and the hash is returned as usual.
func (s *BlobState) Put(code []byte) (common.Hash, error) {
	hash, err := common.Blake2bHash(code)
	if err != nil {
		return common.Hash{}, err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	has, err := s.db.Has(blobKey(hash))
	if err != nil {
		return common.Hash{}, err
	}
	if has {
		return hash, nil
	}

	if err := s.db.Put(blobKey(hash), code); err != nil {
		return common.Hash{}, err
	}
	return hash, nil
}

// Get returns the code stored under the given hash, or
// chaindb.ErrKeyNotFound if it has been swept or was never stored
func (s *BlobState) Get(hash common.Hash) ([]byte, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.db.Get(blobKey(hash))
}

// Has returns true if a blob is stored under the given hash
func (s *BlobState) Has(hash common.Hash) (bool, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.db.Has(blobKey(hash))
}
