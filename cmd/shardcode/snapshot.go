// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli"

	"github.com/ChainSafe/shardcode/ses"
	"github.com/ChainSafe/shardcode/ses/state"
	"github.com/ChainSafe/shardcode/ses/sync"
)

var (
	errNoOutputFile = errors.New("no snapshot output file; use --out")
	errNoInputFile  = errors.New("no snapshot input file; use --in")
)

// exportBlobsAction writes the shard's live references and blobs to a
// snapshot file
func exportBlobsAction(ctx *cli.Context) error {
	out := ctx.String(OutFlag.Name)
	if out == "" {
		out = ctx.GlobalString(OutFlag.Name)
	}
	if out == "" {
		return errNoOutputFile
	}

	cfg, stateSrvc, err := openStores(ctx)
	if err != nil {
		return err
	}
	defer stopStores(stateSrvc)

	f, err := os.Create(filepath.Clean(out))
	if err != nil {
		return err
	}

	count, err := sync.Export(f, stateSrvc.Reference, stateSrvc.Blob)
	if err != nil {
		f.Close()
		return fmt.Errorf("exporting snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	logger.Info("snapshot written", "file", out, "entries", count, "shard", cfg.Ses.Shard)
	return nil
}

// importBlobsAction merges a snapshot file into the node's stores.
// Restored references unlock accounts that were soft-locked on them.
func importBlobsAction(ctx *cli.Context) error {
	in := ctx.String(InFlag.Name)
	if in == "" {
		in = ctx.GlobalString(InFlag.Name)
	}
	if in == "" {
		return errNoInputFile
	}

	_, stateSrvc, err := openStores(ctx)
	if err != nil {
		return err
	}
	defer stopStores(stateSrvc)

	f, err := os.Open(filepath.Clean(in))
	if err != nil {
		return err
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn("failed to close snapshot file", "err", err)
		}
	}()

	count, err := sync.Import(f, stateSrvc.Reference, stateSrvc.Blob)
	if err != nil {
		return fmt.Errorf("importing snapshot: %w", err)
	}

	logger.Info("snapshot imported", "file", in, "entries", count)
	return nil
}

// openStores starts the state service of an initialised node so a
// subcommand can read and write its stores directly
func openStores(ctx *cli.Context) (*ses.Config, *state.Service, error) {
	cfg, err := createSesConfig(ctx)
	if err != nil {
		return nil, nil, err
	}

	if !ses.NodeInitialised(cfg.Global.BasePath) {
		return nil, nil, fmt.Errorf("no node database at %s; run `shardcode init` first", cfg.Global.BasePath)
	}

	stateSrvc := state.NewService(state.Config{
		Path:          cfg.Global.BasePath,
		LogLvl:        cfg.Global.LogLvl,
		Shard:         cfg.Ses.Shard,
		RenewalWindow: cfg.Ses.RenewalWindow,
	})
	if err := stateSrvc.Start(); err != nil {
		return nil, nil, fmt.Errorf("failed to start state service: %w", err)
	}
	return cfg, stateSrvc, nil
}

func stopStores(stateSrvc *state.Service) {
	if err := stateSrvc.Stop(); err != nil {
		logger.Error("failed to stop state service", "err", err)
	}
}
