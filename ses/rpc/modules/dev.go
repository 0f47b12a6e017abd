// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package modules

import (
	"net/http"

	"github.com/ChainSafe/shardcode/ses/types"
)

// DevModule is an unsafe RPC module controlling the epoch clock,
// intended for development networks only
type DevModule struct {
	coreAPI CoreAPI
}

// NewDevModule creates a new dev module instance
func NewDevModule(core CoreAPI) *DevModule {
	return &DevModule{
		coreAPI: core,
	}
}

// SetEpochRequest holds the target epoch
type SetEpochRequest struct {
	Epoch uint64
}

// SweepResponse describes the sweep run by an epoch transition
type SweepResponse struct {
	Epoch uint64   `json:"epoch"`
	Swept []string `json:"swept"`
}

func newSweepResponse(result *types.SweepResult) SweepResponse {
	res := SweepResponse{
		Epoch: result.Epoch,
		Swept: make([]string, len(result.Swept)),
	}
	for i, hash := range result.Swept {
		res.Swept[i] = hash.String()
	}
	return res
}

// SetEpoch moves the shard to the given epoch and sweeps
func (dm *DevModule) SetEpoch(r *http.Request, req *SetEpochRequest, res *SweepResponse) error {
	result, err := dm.coreAPI.SetEpoch(req.Epoch)
	if err != nil {
		return err
	}
	*res = newSweepResponse(result)
	return nil
}

// Sweep runs a sweep at the current epoch without advancing it
func (dm *DevModule) Sweep(r *http.Request, req *EmptyRequest, res *SweepResponse) error {
	result, err := dm.coreAPI.Sweep()
	if err != nil {
		return err
	}
	*res = newSweepResponse(result)
	return nil
}
