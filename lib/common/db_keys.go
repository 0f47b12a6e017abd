// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package common

var (
	// NodeNameKey is the database key for the node's global name
	NodeNameKey = []byte("node_name")
	// NodeIDKey is the database key for the node's unique ID
	NodeIDKey = []byte("node_id")
	// ShardKey is the database key for the shard this database belongs to.
	// Set once at init; a database never changes shard.
	ShardKey = []byte("shard")
	// CurrentEpochKey is the database key for the current epoch
	CurrentEpochKey = []byte("current_epoch")
	// InitialisedKey is the database key marking a completed init
	InitialisedKey = []byte("initialised")
)
