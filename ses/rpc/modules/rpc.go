// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package modules

import (
	"net/http"
)

// RPCModule is an RPC module providing access to RPC methods
type RPCModule struct {
	rpcAPI RPCAPI
}

// NewRPCModule creates a new rpc module instance
func NewRPCModule(api RPCAPI) *RPCModule {
	return &RPCModule{
		rpcAPI: api,
	}
}

// MethodsResponse holds the list of registered RPC methods
type MethodsResponse struct {
	Methods []string `json:"methods"`
}

// Methods returns the list of RPC methods this node exposes
func (rm *RPCModule) Methods(r *http.Request, req *EmptyRequest, res *MethodsResponse) error {
	res.Methods = rm.rpcAPI.Methods()
	return nil
}
