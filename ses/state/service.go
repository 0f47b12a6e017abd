// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package state

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ChainSafe/chaindb"
	log "github.com/ChainSafe/log15"

	"github.com/ChainSafe/shardcode/lib/utils"
)

var logger = log.New("pkg", "state")

// Service composes the stores sharing the node's database: base
// metadata, current epoch, expiring references, content-addressed
// blobs, and account code slots.
type Service struct {
	dbPath        string
	logLvl        log.Lvl
	db            chaindb.Database
	isMemDB       bool // set to true if using an in-memory database; only used for testing
	shard         uint32
	renewalWindow uint64

	Base      *BaseState
	Epoch     *EpochState
	Reference *ReferenceState
	Blob      *BlobState
	Account   *AccountState

	closeCh chan interface{}
}

// Config is the configuration for the state service
type Config struct {
	Path          string
	LogLvl        log.Lvl
	Shard         uint32
	RenewalWindow uint64
}

// NewService creates a new state service
func NewService(config Config) *Service {
	h := log.StreamHandler(os.Stdout, log.TerminalFormat())
	logger.SetHandler(log.LvlFilterHandler(config.LogLvl, h))

	return &Service{
		dbPath:        config.Path,
		logLvl:        config.LogLvl,
		shard:         config.Shard,
		renewalWindow: config.RenewalWindow,
		closeCh:       make(chan interface{}),
	}
}

// UseMemDB tells the service to use an in-memory key-value store
// instead of a persistent database. This should be called after
// NewService, and before Initialise. Only used for testing.
func (s *Service) UseMemDB() {
	s.isMemDB = true
}

// DB returns the service's database
func (s *Service) DB() chaindb.Database {
	return s.db
}

// Shard returns the shard this node's stores belong to
func (s *Service) Shard() uint32 {
	return s.shard
}

func (s *Service) ensureDB() error {
	if s.db != nil {
		return nil
	}

	if s.isMemDB {
		db, err := utils.SetupDatabase("", true)
		if err != nil {
			return err
		}
		s.db = db
		return nil
	}

	basepath, err := filepath.Abs(s.dbPath)
	if err != nil {
		return err
	}

	db, err := utils.SetupDatabase(basepath, false)
	if err != nil {
		return err
	}
	s.db = db
	return nil
}

// Initialise sets up a fresh database for this node: it fixes the
// shard, stores the node name and ID, and sets the current epoch to
// zero. The shard can never be changed afterwards.
func (s *Service) Initialise(name, nodeID string) error {
	if err := s.ensureDB(); err != nil {
		return fmt.Errorf("setting up database: %w", err)
	}

	base := NewBaseState(s.db)
	if err := base.StoreNodeName(name); err != nil {
		return err
	}
	if err := base.StoreNodeID(nodeID); err != nil {
		return err
	}
	if err := base.StoreShard(s.shard); err != nil {
		return err
	}
	if _, err := NewEpochStateFromGenesis(s.db); err != nil {
		return err
	}
	if err := base.StoreInitialised(); err != nil {
		return err
	}

	logger.Info("initialised state database", "path", s.dbPath, "shard", s.shard)

	if s.isMemDB {
		return nil
	}

	// the node reopens the database on Start
	db := s.db
	s.db = nil
	return db.Close()
}

// Start opens the database and builds the stores. It fails if the
// database has not been initialised, or if it was initialised for a
// different shard.
func (s *Service) Start() error {
	if s.Reference != nil || s.Blob != nil || s.Account != nil {
		return nil
	}

	if err := s.ensureDB(); err != nil {
		return fmt.Errorf("setting up database: %w", err)
	}

	s.Base = NewBaseState(s.db)

	initialised, err := s.Base.Initialised()
	if err != nil {
		return err
	}
	if !initialised {
		return ErrDBNotInitialised
	}

	shard, err := s.Base.LoadShard()
	if err != nil {
		return err
	}
	if shard != s.shard {
		return fmt.Errorf("%w: configured %d, database %d",
			ErrShardMismatch, s.shard, shard)
	}

	s.Epoch = NewEpochState(s.db)
	s.Reference = NewReferenceState(s.db, s.renewalWindow)
	s.Blob = NewBlobState(s.db)
	s.Account = NewAccountState(s.db)

	epoch, err := s.Epoch.CurrentEpoch()
	if err != nil {
		return err
	}

	logger.Info("state service started",
		"shard", s.shard, "epoch", epoch, "renewal_window", s.renewalWindow)
	return nil
}

// Stop flushes and closes the database
func (s *Service) Stop() error {
	if err := s.db.Flush(); err != nil {
		return err
	}
	if err := s.db.Close(); err != nil {
		return err
	}
	close(s.closeCh)
	return nil
}
