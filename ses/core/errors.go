// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package core

import (
	"errors"
)

var (
	// ErrNilEpochState is returned when the service is built without an epoch state
	ErrNilEpochState = errors.New("cannot have nil epoch state")
	// ErrNilReferenceState is returned when the service is built without a reference state
	ErrNilReferenceState = errors.New("cannot have nil reference state")
	// ErrNilBlobState is returned when the service is built without a blob state
	ErrNilBlobState = errors.New("cannot have nil blob state")
	// ErrNilAccountState is returned when the service is built without an account state
	ErrNilAccountState = errors.New("cannot have nil account state")

	// ErrEmptyCode is returned when a deploy carries no code
	ErrEmptyCode = errors.New("deployed code is empty")

	// ErrLocalityMismatch is returned when a deploy or resolution
	// references a shard other than the one this node serves. Shared
	// code is never fetched cross-shard.
	ErrLocalityMismatch = errors.New("code reference belongs to a different shard")

	// ErrCodeSoftLocked is returned when resolving an account whose
	// referenced code has expired and been swept. The account is
	// recoverable: a byte-identical re-deploy under the same hash
	// unlocks it.
	ErrCodeSoftLocked = errors.New("shared code has been swept; account is soft-locked")

	// ErrInvalidRedeploy is returned when a re-deploy to a soft-locked
	// account carries non-identical bytes or a mismatched shard. The
	// account remains soft-locked.
	ErrInvalidRedeploy = errors.New("re-deploy to soft-locked account must be byte-identical on the same shard")

	// ErrEpochRegression is returned when attempting to set the current
	// epoch to an earlier value
	ErrEpochRegression = errors.New("current epoch cannot decrease")
)
