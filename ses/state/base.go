// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package state

import (
	"github.com/ChainSafe/chaindb"

	"github.com/ChainSafe/shardcode/lib/common"
)

// BaseState is a wrapper for the chaindb.Database, without any prefixes
type BaseState struct {
	db chaindb.Database
}

// NewBaseState returns a new BaseState
func NewBaseState(db chaindb.Database) *BaseState {
	return &BaseState{
		db: db,
	}
}

// StoreNodeName stores the node name to avoid generating a new one on
// each start
func (s *BaseState) StoreNodeName(name string) error {
	return s.db.Put(common.NodeNameKey, []byte(name))
}

// LoadNodeName loads the stored node name
func (s *BaseState) LoadNodeName() (string, error) {
	name, err := s.db.Get(common.NodeNameKey)
	if err != nil {
		return "", err
	}
	return string(name), nil
}

// StoreNodeID stores the node's unique ID, generated once at init
func (s *BaseState) StoreNodeID(id string) error {
	return s.db.Put(common.NodeIDKey, []byte(id))
}

// LoadNodeID loads the stored node ID
func (s *BaseState) LoadNodeID() (string, error) {
	id, err := s.db.Get(common.NodeIDKey)
	if err != nil {
		return "", err
	}
	return string(id), nil
}

// StoreShard stores the shard this database belongs to. A reference
// store's locality is fixed at creation, so this is written exactly
// once, at init.
func (s *BaseState) StoreShard(shard uint32) error {
	return s.db.Put(common.ShardKey, encodeUint32(shard))
}

// LoadShard loads the stored shard
func (s *BaseState) LoadShard() (uint32, error) {
	enc, err := s.db.Get(common.ShardKey)
	if err != nil {
		return 0, err
	}
	return decodeUint32(enc), nil
}

// StoreInitialised marks the database as initialised
func (s *BaseState) StoreInitialised() error {
	return s.db.Put(common.InitialisedKey, []byte{1})
}

// Initialised returns true if the database has been initialised
func (s *BaseState) Initialised() (bool, error) {
	return s.db.Has(common.InitialisedKey)
}
