// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package types

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ChainSafe/shardcode/lib/common"
)

// CodeClass is the tag of the account code slot union
type CodeClass byte

const (
	// ClassPrivate marks a privately-owned code copy
	ClassPrivate CodeClass = iota
	// ClassShared marks a reference into the shard-local shared store
	ClassShared
)

var (
	// ErrEmptyCodeRecord is returned when decoding a zero-length record
	ErrEmptyCodeRecord = errors.New("account code record is empty")
	// ErrUnknownCodeClass is returned when decoding an unrecognised tag
	ErrUnknownCodeClass = errors.New("unknown account code class")
)

// AccountCode is an account's executable-code slot. It is a tagged
// union: exactly one of Code (ClassPrivate) or Hash+Shard (ClassShared)
// is meaningful. An account never simultaneously owns code and
// references shared code.
type AccountCode struct {
	Class CodeClass
	Code  []byte
	Hash  common.Hash
	Shard uint32
}

// NewPrivateCode returns a code slot owning a private copy of code
func NewPrivateCode(code []byte) *AccountCode {
	return &AccountCode{
		Class: ClassPrivate,
		Code:  code,
	}
}

// NewSharedCode returns a code slot referencing shared code by hash.
// The shard is fixed at deploy time and never changes afterwards.
func NewSharedCode(hash common.Hash, shard uint32) *AccountCode {
	return &AccountCode{
		Class: ClassShared,
		Hash:  hash,
		Shard: shard,
	}
}

// IsShared returns true if the slot references the shared store
func (ac *AccountCode) IsShared() bool {
	return ac.Class == ClassShared
}

// Encode returns the database encoding of the code slot:
// a one-byte tag followed by the class payload.
func (ac *AccountCode) Encode() []byte {
	switch ac.Class {
	case ClassShared:
		enc := make([]byte, 0, 1+common.HashLength+4)
		enc = append(enc, byte(ClassShared))
		enc = append(enc, ac.Hash.Bytes()...)
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, ac.Shard)
		return append(enc, buf...)
	default:
		return append([]byte{byte(ClassPrivate)}, ac.Code...)
	}
}

// DecodeAccountCode decodes a database record produced by Encode
func DecodeAccountCode(enc []byte) (*AccountCode, error) {
	if len(enc) == 0 {
		return nil, ErrEmptyCodeRecord
	}

	switch CodeClass(enc[0]) {
	case ClassPrivate:
		return NewPrivateCode(enc[1:]), nil
	case ClassShared:
		if len(enc) != 1+common.HashLength+4 {
			return nil, fmt.Errorf("shared code record has length %d, expected %d",
				len(enc), 1+common.HashLength+4)
		}
		hash := common.NewHash(enc[1 : 1+common.HashLength])
		shard := binary.LittleEndian.Uint32(enc[1+common.HashLength:])
		return NewSharedCode(hash, shard), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCodeClass, enc[0])
	}
}
