// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package common

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// BytesToHex turns a byte slice into a 0x-prefixed hex string
func BytesToHex(in []byte) string {
	return fmt.Sprintf("0x%x", in)
}

// HexToBytes turns a 0x-prefixed hex string into a byte slice
func HexToBytes(in string) ([]byte, error) {
	if len(in) < 2 || !strings.HasPrefix(in, "0x") {
		return nil, errors.New("could not byteify non 0x prefixed string")
	}
	return hex.DecodeString(strings.TrimPrefix(in, "0x"))
}
