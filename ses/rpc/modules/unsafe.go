// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package modules

// UnsafeMethods are the RPC methods only served when unsafe RPC is
// enabled
var UnsafeMethods = []string{
	"dev_setEpoch",
	"dev_sweep",
}

// IsUnsafe returns true if the given `module_method` name requires
// unsafe RPC to be enabled
func IsUnsafe(method string) bool {
	for _, m := range UnsafeMethods {
		if m == method {
			return true
		}
	}
	return false
}
