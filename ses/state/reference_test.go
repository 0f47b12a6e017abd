// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package state

import (
	"testing"

	"github.com/ChainSafe/chaindb"
	"github.com/stretchr/testify/require"

	"github.com/ChainSafe/shardcode/lib/common"
)

func newTestReferenceState(t *testing.T) (*ReferenceState, *BlobState) {
	db := NewInMemoryDB(t)
	return NewReferenceState(db, 2), NewBlobState(db)
}

func TestReferenceState_TouchNotFound(t *testing.T) {
	refs, _ := newTestReferenceState(t)

	_, err := refs.Touch(common.MustBlake2bHash([]byte("missing")), 10)
	require.ErrorIs(t, err, chaindb.ErrKeyNotFound)
}

func TestReferenceState_CreateOrTouch(t *testing.T) {
	refs, _ := newTestReferenceState(t)
	hash := common.MustBlake2bHash([]byte("code"))

	expiry, err := refs.CreateOrTouch(hash, 10)
	require.NoError(t, err)
	require.Equal(t, uint64(12), expiry)

	// second call behaves as a touch
	expiry, err = refs.CreateOrTouch(hash, 11)
	require.NoError(t, err)
	require.Equal(t, uint64(13), expiry)
}

func TestReferenceState_ExpiryNeverDecreases(t *testing.T) {
	refs, _ := newTestReferenceState(t)
	hash := common.MustBlake2bHash([]byte("code"))

	_, err := refs.CreateOrTouch(hash, 10)
	require.NoError(t, err)

	// a touch at an earlier epoch cannot shorten the entry's life
	expiry, err := refs.Touch(hash, 8)
	require.NoError(t, err)
	require.Equal(t, uint64(12), expiry)

	expiry, err = refs.Touch(hash, 11)
	require.NoError(t, err)
	require.Equal(t, uint64(13), expiry)
}

func TestReferenceState_TouchAfterExpiryBeforeSweep(t *testing.T) {
	refs, _ := newTestReferenceState(t)
	hash := common.MustBlake2bHash([]byte("code"))

	_, err := refs.CreateOrTouch(hash, 10)
	require.NoError(t, err)

	// the entry expired at 12, but no sweep has run yet: the access is
	// still honoured and renews the entry
	expiry, err := refs.Touch(hash, 20)
	require.NoError(t, err)
	require.Equal(t, uint64(22), expiry)
}

func TestReferenceState_CreateOrTouchWithBlob(t *testing.T) {
	refs, blobs := newTestReferenceState(t)

	code := []byte("wasm")
	hash := common.MustBlake2bHash(code)

	expiry, err := refs.CreateOrTouchWithBlob(hash, code, 10)
	require.NoError(t, err)
	require.Equal(t, uint64(12), expiry)

	got, err := blobs.Get(hash)
	require.NoError(t, err)
	require.Equal(t, code, got)

	// a sweep removes the reference together with its blob
	swept, err := refs.Sweep(13)
	require.NoError(t, err)
	require.Equal(t, []common.Hash{hash}, swept)
	has, err := blobs.Has(hash)
	require.NoError(t, err)
	require.False(t, has)

	// a re-deploy of the same bytes after the sweep rewrites both rows,
	// even though an earlier blob write for this hash already happened
	expiry, err = refs.CreateOrTouchWithBlob(hash, code, 13)
	require.NoError(t, err)
	require.Equal(t, uint64(15), expiry)

	got, err = blobs.Get(hash)
	require.NoError(t, err)
	require.Equal(t, code, got)
	has, err = refs.Has(hash)
	require.NoError(t, err)
	require.True(t, has)
}

func TestReferenceState_SweepBoundary(t *testing.T) {
	refs, blobs := newTestReferenceState(t)

	expiring, err := blobs.Put([]byte("expiring"))
	require.NoError(t, err)
	surviving, err := blobs.Put([]byte("surviving"))
	require.NoError(t, err)

	_, err = refs.CreateOrTouch(expiring, 10) // expiry 12
	require.NoError(t, err)
	_, err = refs.CreateOrTouch(surviving, 11) // expiry 13
	require.NoError(t, err)

	// the boundary is a strict < check: expiry 12 is not yet expired at
	// epoch 12, and expiry 13 survives a sweep at epoch 13
	swept, err := refs.Sweep(12)
	require.NoError(t, err)
	require.Empty(t, swept)

	swept, err = refs.Sweep(13)
	require.NoError(t, err)
	require.Equal(t, []common.Hash{expiring}, swept)

	// the swept entry's blob is gone, the survivor's is untouched
	has, err := blobs.Has(expiring)
	require.NoError(t, err)
	require.False(t, has)
	has, err = blobs.Has(surviving)
	require.NoError(t, err)
	require.True(t, has)

	swept, err = refs.Sweep(14)
	require.NoError(t, err)
	require.Equal(t, []common.Hash{surviving}, swept)
}

func TestReferenceState_SweepThenTouchFails(t *testing.T) {
	refs, blobs := newTestReferenceState(t)

	hash, err := blobs.Put([]byte("code"))
	require.NoError(t, err)
	_, err = refs.CreateOrTouch(hash, 10)
	require.NoError(t, err)

	swept, err := refs.Sweep(13)
	require.NoError(t, err)
	require.Equal(t, []common.Hash{hash}, swept)

	_, err = refs.Touch(hash, 13)
	require.ErrorIs(t, err, chaindb.ErrKeyNotFound)
}

func TestReferenceState_Entries(t *testing.T) {
	refs, _ := newTestReferenceState(t)

	h1 := common.MustBlake2bHash([]byte("one"))
	h2 := common.MustBlake2bHash([]byte("two"))

	_, err := refs.CreateOrTouch(h1, 10)
	require.NoError(t, err)
	_, err = refs.CreateOrTouch(h2, 20)
	require.NoError(t, err)

	entries, err := refs.Entries()
	require.NoError(t, err)
	require.Equal(t, map[common.Hash]uint64{h1: 12, h2: 22}, entries)

	count, err := refs.Count()
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestReferenceState_Restore(t *testing.T) {
	refs, _ := newTestReferenceState(t)
	hash := common.MustBlake2bHash([]byte("code"))

	err := refs.Restore(hash, 15)
	require.NoError(t, err)

	expiry, err := refs.Expiry(hash)
	require.NoError(t, err)
	require.Equal(t, uint64(15), expiry)

	// restoring with a smaller expiry does not shorten the entry
	err = refs.Restore(hash, 5)
	require.NoError(t, err)

	expiry, err = refs.Expiry(hash)
	require.NoError(t, err)
	require.Equal(t, uint64(15), expiry)
}
