// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package state

import (
	"errors"
)

var (
	// ErrDBNotInitialised is returned when starting the state service on
	// a database that has not been through init
	ErrDBNotInitialised = errors.New("database has not been initialised")

	// ErrShardMismatch is returned when the configured shard does not
	// match the shard the database was initialised for
	ErrShardMismatch = errors.New("configured shard does not match database shard")

	// ErrAccountNotFound is returned when an account has no code record
	ErrAccountNotFound = errors.New("account not found")
)
