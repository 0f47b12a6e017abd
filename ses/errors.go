// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package ses

import "errors"

// ErrNodeNotInitialised is returned when starting a node whose base
// path holds no initialised database
var ErrNodeNotInitialised = errors.New("node has not been initialised")
