// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/ChainSafe/log15"
	"github.com/urfave/cli"

	"github.com/ChainSafe/shardcode/ses"
)

var logger = log.New("pkg", "cmd")

var app = cli.NewApp()

var (
	// initCommand defines the "init" subcommand
	initCommand = cli.Command{
		Action:   FixFlagOrder(initAction),
		Name:     "init",
		Usage:    "Initialise node databases for a shard",
		Flags:    InitFlags,
		Category: "INIT",
		Description: "The init command initialises the node databases for a shard.\n" +
			"\tUsage: shardcode init --shard 3\n" +
			"\tThe shard is fixed at initialisation and cannot be changed afterwards.",
	}
	// exportBlobsCommand defines the "export-blobs" subcommand
	exportBlobsCommand = cli.Command{
		Action:   FixFlagOrder(exportBlobsAction),
		Name:     "export-blobs",
		Usage:    "Export the shard's live references and code blobs to a snapshot file",
		Flags:    SnapshotFlags,
		Category: "SNAPSHOT",
		Description: "The export-blobs command writes every live reference and its code blob " +
			"to a compressed snapshot file.\n" +
			"\tUsage: shardcode export-blobs --out snapshot.zst",
	}
	// importBlobsCommand defines the "import-blobs" subcommand
	importBlobsCommand = cli.Command{
		Action:   FixFlagOrder(importBlobsAction),
		Name:     "import-blobs",
		Usage:    "Import references and code blobs from a snapshot file",
		Flags:    SnapshotFlags,
		Category: "SNAPSHOT",
		Description: "The import-blobs command merges a snapshot file into the node's stores. " +
			"Existing references keep the later expiry.\n" +
			"\tUsage: shardcode import-blobs --in snapshot.zst",
	}
)

// init initialises the cli application
func init() {
	app.Action = FixFlagOrder(shardcodeAction)
	app.Copyright = "Copyright 2022 ChainSafe Systems Authors"
	app.Name = "shardcode"
	app.Usage = "Shared ephemeral code storage node"
	app.Author = "ChainSafe Systems 2022"
	app.Version = ses.Version
	app.Commands = []cli.Command{
		initCommand,
		exportBlobsCommand,
		importBlobsCommand,
	}
	app.Flags = RootFlags
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// shardcodeAction is the root command: it builds and starts a node,
// initialising it first if the base path holds no database
func shardcodeAction(ctx *cli.Context) error {
	if arg := ctx.Args().First(); arg != "" {
		return fmt.Errorf("unknown command: %s", arg)
	}

	cfg, err := createSesConfig(ctx)
	if err != nil {
		logger.Error("failed to create node configuration", "err", err)
		return err
	}

	if !ses.NodeInitialised(cfg.Global.BasePath) {
		if err := ses.InitNode(cfg); err != nil {
			logger.Error("failed to initialise node", "err", err)
			return err
		}
	}

	node, err := ses.NewNode(cfg)
	if err != nil {
		logger.Error("failed to create node", "err", err)
		return err
	}

	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigc)
		<-sigc
		logger.Info("signal interrupt, shutting down...")
		node.Stop()
	}()

	return node.Start()
}

// initAction initialises the node databases for the configured shard.
// Re-initialising an existing node discards its stores; this requires
// confirmation unless --force is set.
func initAction(ctx *cli.Context) error {
	cfg, err := createSesConfig(ctx)
	if err != nil {
		logger.Error("failed to create node configuration", "err", err)
		return err
	}

	if ses.NodeInitialised(cfg.Global.BasePath) {
		if !confirmReinitialise(ctx, cfg.Global.BasePath) {
			logger.Warn("exiting without reinitialising the node", "basepath", cfg.Global.BasePath)
			return nil
		}
		if err := wipeDatabase(cfg.Global.BasePath); err != nil {
			logger.Error("failed to remove existing database", "err", err)
			return err
		}
	}

	return ses.InitNode(cfg)
}
