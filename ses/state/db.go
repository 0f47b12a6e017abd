// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package state

import (
	"encoding/binary"

	"github.com/ChainSafe/shardcode/lib/common"
	"github.com/ChainSafe/shardcode/ses/types"
)

// Key prefixes for the stores sharing the node's database. The
// reference and blob namespaces use raw prefixed keys so the sweep can
// delete a reference and its blob in a single batch; the account store
// uses a chaindb table.
var (
	refPrefix  = []byte("ref")
	blobPrefix = []byte("blob")
)

// accountPrefix is the chaindb table prefix for account code records
const accountPrefix = "acct"

func refKey(hash common.Hash) []byte {
	return append(refPrefix, hash.Bytes()...)
}

func blobKey(hash common.Hash) []byte {
	return append(blobPrefix, hash.Bytes()...)
}

func accountKey(id types.AccountID) []byte {
	return []byte(id)
}

func encodeUint64(n uint64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, n)
	return buf
}

func decodeUint64(in []byte) uint64 {
	return binary.LittleEndian.Uint64(in)
}

func encodeUint32(n uint32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, n)
	return buf
}

func decodeUint32(in []byte) uint32 {
	return binary.LittleEndian.Uint32(in)
}
