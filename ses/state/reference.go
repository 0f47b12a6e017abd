// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package state

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/ChainSafe/chaindb"

	"github.com/ChainSafe/shardcode/lib/common"
)

// ReferenceState is the expiring reference store: a mapping from
// content hash to the epoch after which the entry may be swept.
//
// Expiry is only enforced by Sweep, never by Touch: an access that
// arrives after the expiry epoch but before the sweep still renews the
// entry. The store mutex serializes Sweep against Touch/CreateOrTouch
// so the expired-or-renewed decision is atomic per pass.
type ReferenceState struct {
	db            chaindb.Database
	renewalWindow uint64
	lock          sync.RWMutex
}

// NewReferenceState returns a ReferenceState over the given database.
// renewalWindow is the number of epochs each access extends an entry's
// life by.
func NewReferenceState(db chaindb.Database, renewalWindow uint64) *ReferenceState {
	return &ReferenceState{
		db:            db,
		renewalWindow: renewalWindow,
	}
}

// RenewalWindow returns the configured renewal window in epochs
func (s *ReferenceState) RenewalWindow() uint64 {
	return s.renewalWindow
}

// Expiry returns the expiry epoch of the reference for the given hash,
// or chaindb.ErrKeyNotFound if no reference exists
func (s *ReferenceState) Expiry(hash common.Hash) (uint64, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.expiry(hash)
}

func (s *ReferenceState) expiry(hash common.Hash) (uint64, error) {
	enc, err := s.db.Get(refKey(hash))
	if err != nil {
		return 0, err
	}
	return decodeUint64(enc), nil
}

// Has returns true if a reference exists for the given hash
func (s *ReferenceState) Has(hash common.Hash) (bool, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.db.Has(refKey(hash))
}

// Touch renews the reference for the given hash at the given current
// epoch and returns the new expiry epoch. It fails with
// chaindb.ErrKeyNotFound only if the entry has been swept away, never
// merely because the current epoch has passed the recorded expiry.
func (s *ReferenceState) Touch(hash common.Hash, epoch uint64) (uint64, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	prev, err := s.expiry(hash)
	if err != nil {
		return 0, fmt.Errorf("touching reference %s: %w", hash, err)
	}

	return s.renew(hash, prev, epoch)
}

// CreateOrTouch creates the reference for the given hash if it does not
// exist, otherwise renews it. Either way the returned expiry epoch is
// at least epoch + renewalWindow.
func (s *ReferenceState) CreateOrTouch(hash common.Hash, epoch uint64) (uint64, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	prev, err := s.expiry(hash)
	if errors.Is(err, chaindb.ErrKeyNotFound) {
		prev = 0
	} else if err != nil {
		return 0, err
	}

	return s.renew(hash, prev, epoch)
}

// CreateOrTouchWithBlob stores the code blob and creates or renews its
// reference as a single step under the store mutex, the mirror image
// of Sweep deleting both in one batch. Deploys go through this so a
// sweep can never land between the blob write and the reference write
// and leave a reference with no blob behind it. hash must be the
// blake2b hash of code.
func (s *ReferenceState) CreateOrTouchWithBlob(hash common.Hash, code []byte, epoch uint64) (uint64, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	prev, err := s.expiry(hash)
	if errors.Is(err, chaindb.ErrKeyNotFound) {
		prev = 0
	} else if err != nil {
		return 0, err
	}

	next := epoch + s.renewalWindow
	if next < prev {
		next = prev
	}

	batch := s.db.NewBatch()
	if err := batch.Put(blobKey(hash), code); err != nil {
		return 0, fmt.Errorf("storing blob %s: %w", hash, err)
	}
	if err := batch.Put(refKey(hash), encodeUint64(next)); err != nil {
		return 0, fmt.Errorf("storing reference %s: %w", hash, err)
	}
	if err := batch.Flush(); err != nil {
		return 0, fmt.Errorf("flushing deploy batch: %w", err)
	}
	return next, nil
}

// renew writes the extended expiry. An expiry never decreases over the
// life of an entry, so the previous value wins if it is larger.
func (s *ReferenceState) renew(hash common.Hash, prev, epoch uint64) (uint64, error) {
	next := epoch + s.renewalWindow
	if next < prev {
		next = prev
	}

	if err := s.db.Put(refKey(hash), encodeUint64(next)); err != nil {
		return 0, err
	}
	return next, nil
}

// Restore recreates a reference row with the given expiry, used when
// importing a blob-column snapshot. If the row already exists, the
// larger expiry wins.
func (s *ReferenceState) Restore(hash common.Hash, expiry uint64) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	prev, err := s.expiry(hash)
	if err == nil && prev > expiry {
		expiry = prev
	} else if err != nil && !errors.Is(err, chaindb.ErrKeyNotFound) {
		return err
	}

	return s.db.Put(refKey(hash), encodeUint64(expiry))
}

// Sweep removes every reference whose expiry epoch is strictly less
// than the given current epoch, together with its blob, and returns the
// swept hashes. An entry expiring exactly at the current epoch
// survives this pass and is removed by the next one.
func (s *ReferenceState) Sweep(epoch uint64) ([]common.Hash, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	expired, err := s.expiredAt(epoch)
	if err != nil {
		return nil, err
	}
	if len(expired) == 0 {
		return nil, nil
	}

	batch := s.db.NewBatch()
	for _, hash := range expired {
		if err := batch.Del(refKey(hash)); err != nil {
			return nil, fmt.Errorf("deleting reference %s: %w", hash, err)
		}
		if err := batch.Del(blobKey(hash)); err != nil {
			return nil, fmt.Errorf("deleting blob %s: %w", hash, err)
		}
	}
	if err := batch.Flush(); err != nil {
		return nil, fmt.Errorf("flushing sweep batch: %w", err)
	}

	sort.Slice(expired, func(i, j int) bool {
		return bytes.Compare(expired[i].Bytes(), expired[j].Bytes()) < 0
	})
	return expired, nil
}

func (s *ReferenceState) expiredAt(epoch uint64) (expired []common.Hash, err error) {
	iter := s.db.NewIterator()
	defer iter.Release()

	for iter.Next() {
		key := iter.Key()
		if !bytes.HasPrefix(key, refPrefix) {
			continue
		}
		if decodeUint64(iter.Value()) < epoch {
			expired = append(expired, common.NewHash(key[len(refPrefix):]))
		}
	}
	return expired, nil
}

// Entries returns every live reference and its expiry epoch
func (s *ReferenceState) Entries() (map[common.Hash]uint64, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	entries := make(map[common.Hash]uint64)

	iter := s.db.NewIterator()
	defer iter.Release()

	for iter.Next() {
		key := iter.Key()
		if !bytes.HasPrefix(key, refPrefix) {
			continue
		}
		entries[common.NewHash(key[len(refPrefix):])] = decodeUint64(iter.Value())
	}
	return entries, nil
}

// Count returns the number of live references
func (s *ReferenceState) Count() (int, error) {
	entries, err := s.Entries()
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}
