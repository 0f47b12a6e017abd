// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package modules

import (
	"net/http"

	"github.com/ChainSafe/shardcode/ses/types"
)

// SystemModule is an RPC module providing access to node information
type SystemModule struct {
	systemAPI SystemAPI
	coreAPI   CoreAPI
}

// EmptyRequest represents an RPC request with no fields
type EmptyRequest struct{}

// U64Response holds a uint64 response
type U64Response uint64

// U32Response holds a uint32 response
type U32Response uint32

// SystemHealthResponse struct to marshal json
type SystemHealthResponse types.Health

// NewSystemModule creates a new system module instance
func NewSystemModule(sys SystemAPI, core CoreAPI) *SystemModule {
	return &SystemModule{
		systemAPI: sys,
		coreAPI:   core,
	}
}

// Name returns the node name
func (sm *SystemModule) Name(r *http.Request, req *EmptyRequest, res *string) error {
	*res = sm.systemAPI.NodeName()
	return nil
}

// Version returns the node version
func (sm *SystemModule) Version(r *http.Request, req *EmptyRequest, res *string) error {
	*res = sm.systemAPI.SystemVersion()
	return nil
}

// Health returns the current epoch, shard and live reference count
func (sm *SystemModule) Health(r *http.Request, req *EmptyRequest, res *SystemHealthResponse) error {
	health, err := sm.coreAPI.Health()
	if err != nil {
		return err
	}
	*res = SystemHealthResponse(*health)
	return nil
}

// Shard returns the shard this node serves
func (sm *SystemModule) Shard(r *http.Request, req *EmptyRequest, res *U32Response) error {
	*res = U32Response(sm.coreAPI.Shard())
	return nil
}

// Epoch returns the shard's current epoch
func (sm *SystemModule) Epoch(r *http.Request, req *EmptyRequest, res *U64Response) error {
	epoch, err := sm.coreAPI.CurrentEpoch()
	if err != nil {
		return err
	}
	*res = U64Response(epoch)
	return nil
}
