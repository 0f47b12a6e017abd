// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package ses

import (
	"fmt"

	"github.com/ChainSafe/shardcode/ses/core"
	"github.com/ChainSafe/shardcode/ses/metrics"
	"github.com/ChainSafe/shardcode/ses/rpc"
	"github.com/ChainSafe/shardcode/ses/state"
)

// createStateService starts the state service immediately, since every
// other service is built on top of its stores
func createStateService(cfg *Config) (*state.Service, error) {
	stateSrvc := state.NewService(state.Config{
		Path:          cfg.Global.BasePath,
		LogLvl:        cfg.Global.LogLvl,
		Shard:         cfg.Ses.Shard,
		RenewalWindow: cfg.Ses.RenewalWindow,
	})

	if err := stateSrvc.Start(); err != nil {
		return nil, fmt.Errorf("failed to start state service: %w", err)
	}
	return stateSrvc, nil
}

func createCoreService(cfg *Config, stateSrvc *state.Service) (*core.Service, error) {
	return core.NewService(&core.Config{
		LogLvl:         cfg.Global.LogLvl,
		Shard:          cfg.Ses.Shard,
		EpochLength:    cfg.Ses.EpochLength,
		EpochState:     stateSrvc.Epoch,
		ReferenceState: stateSrvc.Reference,
		BlobState:      stateSrvc.Blob,
		AccountState:   stateSrvc.Account,
	})
}

// systemInfo exposes the node's static identity to the system RPC module
type systemInfo struct {
	nodeName string
}

func (s *systemInfo) NodeName() string {
	return s.nodeName
}

func (s *systemInfo) SystemVersion() string {
	return Version
}

func createRPCService(cfg *Config, stateSrvc *state.Service, coreSrvc *core.Service) *rpc.HTTPServer {
	return rpc.NewHTTPServer(&rpc.HTTPServerConfig{
		LogLvl:            cfg.Global.LogLvl,
		CoreAPI:           coreSrvc,
		SystemAPI:         &systemInfo{nodeName: cfg.Global.Name},
		ReferenceAPI:      stateSrvc.Reference,
		SweepAPI:          coreSrvc,
		RPCAPI:            rpc.NewService(),
		Host:              cfg.RPC.Host,
		RPCPort:           cfg.RPC.Port,
		RPCExternal:       cfg.RPC.External,
		RPCUnsafe:         cfg.RPC.Unsafe,
		RPCUnsafeExternal: cfg.RPC.UnsafeExternal,
		WS:                cfg.RPC.WS,
		WSExternal:        cfg.RPC.WSExternal,
		WSPort:            cfg.RPC.WSPort,
		Modules:           cfg.RPC.Modules,
	})
}

func createMetricsServer(cfg *Config) *metrics.Server {
	return metrics.NewServer(fmt.Sprintf("%s:%d", cfg.RPC.Host, cfg.Metrics.Port))
}
