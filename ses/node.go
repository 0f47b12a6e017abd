// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package ses

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	log "github.com/ChainSafe/log15"
	"github.com/google/uuid"

	"github.com/ChainSafe/shardcode/lib/services"
	"github.com/ChainSafe/shardcode/lib/utils"
	"github.com/ChainSafe/shardcode/ses/state"
)

var logger = log.New("pkg", "ses")

// Node is a container for all the node's services
type Node struct {
	Name     string
	Services *services.ServiceRegistry
	wg       sync.WaitGroup
}

// InitNode initialises a node's database at the configured base path:
// it fixes the node's shard, generates its ID, and sets the epoch to
// zero. A node must be initialised before it can be started.
func InitNode(cfg *Config) error {
	setupLogger(cfg)
	logger.Info("initialising node...",
		"name", cfg.Global.Name,
		"basepath", cfg.Global.BasePath,
		"shard", cfg.Ses.Shard,
	)

	stateSrvc := state.NewService(state.Config{
		Path:          cfg.Global.BasePath,
		LogLvl:        cfg.Global.LogLvl,
		Shard:         cfg.Ses.Shard,
		RenewalWindow: cfg.Ses.RenewalWindow,
	})

	nodeID := uuid.New().String()
	if err := stateSrvc.Initialise(cfg.Global.Name, nodeID); err != nil {
		return fmt.Errorf("failed to initialise state service: %w", err)
	}

	logger.Info("node initialised", "name", cfg.Global.Name, "id", nodeID)
	return nil
}

// NodeInitialised returns true if, within the configured base path,
// an initialised database already exists
func NodeInitialised(basepath string) bool {
	return utils.PathExists(filepath.Join(basepath, utils.DefaultDatabaseDir))
}

// NewNode builds a node from the given configuration. The node's
// database must already be initialised.
func NewNode(cfg *Config) (*Node, error) {
	setupLogger(cfg)

	if !NodeInitialised(cfg.Global.BasePath) {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotInitialised, cfg.Global.BasePath)
	}

	logger.Info("building node services...",
		"name", cfg.Global.Name,
		"basepath", cfg.Global.BasePath,
		"shard", cfg.Ses.Shard,
	)

	stateSrvc, err := createStateService(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create state service: %w", err)
	}

	coreSrvc, err := createCoreService(cfg, stateSrvc)
	if err != nil {
		return nil, fmt.Errorf("failed to create core service: %w", err)
	}

	node := &Node{
		Name:     cfg.Global.Name,
		Services: services.NewServiceRegistry(logger),
	}
	node.Services.RegisterService(stateSrvc)
	node.Services.RegisterService(coreSrvc)

	if cfg.RPC.Enabled {
		rpcSrvc := createRPCService(cfg, stateSrvc, coreSrvc)
		node.Services.RegisterService(rpcSrvc)
	}

	if cfg.Metrics.Publish {
		node.Services.RegisterService(createMetricsServer(cfg))
	}

	return node, nil
}

// Start starts all node services and blocks until Stop is called
func (n *Node) Start() error {
	logger.Info("starting node services...", "name", n.Name)
	n.Services.StartAll()

	n.wg.Add(1)
	n.wg.Wait()
	return nil
}

// Stop stops all node services
func (n *Node) Stop() {
	n.Services.StopAll()
	n.wg.Done()
}

func setupLogger(cfg *Config) {
	h := log.StreamHandler(os.Stdout, log.TerminalFormat())
	logger.SetHandler(log.LvlFilterHandler(cfg.Global.LogLvl, h))
}
