// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package common

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// HashLength is the expected length of the common.Hash type
const HashLength = 32

// EmptyHash is the all-zero hash
var EmptyHash = Hash{}

var errHashLength = errors.New("hash must be 32 bytes")

// Hash is the blake2b-256 digest of a code blob, used as its storage key
type Hash [HashLength]byte

// NewHash casts a byte slice to a Hash.
// If the input is longer than 32 bytes, it takes the first 32 bytes.
func NewHash(in []byte) (res Hash) {
	res = [HashLength]byte{}
	copy(res[:], in)
	return res
}

// Bytes returns the hash as a byte slice
func (h Hash) Bytes() []byte {
	b := [HashLength]byte(h)
	return b[:]
}

// IsEmpty returns true if the hash is the zero hash
func (h Hash) IsEmpty() bool {
	return h == EmptyHash
}

// String returns the 0x-prefixed hex representation of the hash
func (h Hash) String() string {
	return fmt.Sprintf("0x%x", h[:])
}

// HexToHash turns a 0x-prefixed hex string into a Hash
func HexToHash(in string) (Hash, error) {
	if len(in) < 2 || strings.Compare(in[:2], "0x") != 0 {
		return Hash{}, errors.New("could not byteify non 0x prefixed string")
	}
	in = strings.TrimPrefix(in, "0x")
	out, err := hex.DecodeString(in)
	if err != nil {
		return Hash{}, err
	}
	if len(out) != HashLength {
		return Hash{}, errHashLength
	}
	var buf = [HashLength]byte{}
	copy(buf[:], out)
	return buf, nil
}

// MustHexToHash turns a 0x-prefixed hex string into a Hash, panicking on error.
// Only used in tests and hardcoded values.
func MustHexToHash(in string) Hash {
	h, err := HexToHash(in)
	if err != nil {
		panic(err)
	}
	return h
}

// MarshalJSON marshals the hash as a 0x-prefixed hex string
func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

// UnmarshalJSON unmarshals a 0x-prefixed hex string into the hash
func (h *Hash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	out, err := HexToHash(s)
	if err != nil {
		return err
	}
	copy(h[:], out[:])
	return nil
}

// HashValidator validates hash fields for the rpc request validator
func HashValidator(field reflect.Value) interface{} {
	if valuer, ok := field.Interface().(Hash); ok {
		if valuer == EmptyHash {
			return ""
		}
		return valuer.Bytes()
	}
	return ""
}
