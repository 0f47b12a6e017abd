// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/ChainSafe/log15"
	"github.com/fatih/color"
	"github.com/urfave/cli"

	"github.com/ChainSafe/shardcode/lib/utils"
)

const confirmCharacter = "Y"

// parseLogLevel parses a log15 level name ("info", "dbug", ...)
func parseLogLevel(lvlStr string) (log.Lvl, error) {
	lvl, err := log.LvlFromString(lvlStr)
	if err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", lvlStr, err)
	}
	return lvl, nil
}

// confirmReinitialise warns that an initialised database already exists
// at the base path and prompts for confirmation, unless --force is set
func confirmReinitialise(ctx *cli.Context, basepath string) bool {
	color.Yellow("node database already exists at %s; reinitialising will discard all stored references and blobs", basepath)

	if ctx.Bool(ForceFlag.Name) || ctx.GlobalBool(ForceFlag.Name) {
		return true
	}

	return confirmMessage("Are you sure you want to reinitialise the node? [Y/n]")
}

// confirmMessage prompts user to confirm message and returns true if "Y"
func confirmMessage(msg string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Println(msg)
	fmt.Print("> ")
	text, _ := reader.ReadString('\n')
	text = strings.ReplaceAll(text, "\n", "")
	return strings.EqualFold(confirmCharacter, text)
}

// wipeDatabase removes the database directory under the base path
func wipeDatabase(basepath string) error {
	return os.RemoveAll(filepath.Join(basepath, utils.DefaultDatabaseDir))
}
