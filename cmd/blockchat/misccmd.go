/*
 *  Copyright (C) 2017 gyee authors
 *
 *  This file is part of the gyee library.
 *
 *  The gyee library is free software: you can redistribute it and/or modify
 *  it under the terms of the GNU General Public License as published by
 *  the Free Software Foundation, either version 3 of the License, or
 *  (at your option) any later version.
 *
 *  The gyee library is distributed in the hope that it will be useful,
 *  but WITHOUT ANY WARRANTY; without even the implied warranty of
 *  MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 *  GNU General Public License for more details.
 *
 *  You should have received a copy of the GNU General Public License
 *  along with the gyee library.  If not, see <http://www.gnu.org/licenses/>.
 *
 */

package main

import (
	"fmt"
	"runtime"

	"github.com/urfave/cli"
	"github.com/yeeco/blockchat/config"
	"github.com/yeeco/blockchat/node"
)

// Version is overridden at link time with -X main.Version
var Version = "0.1.0"

var (
	initCommand = cli.Command{
		Action:    config.MergeFlags(initLedger),
		Name:      "init",
		Usage:     "Initialise the data directory from genesis",
		ArgsUsage: " ",
		Category:  "LEDGER COMMANDS",
		Description: `
Creates the ledger with the genesis accounts of the selected chain
(--testnet, --genesis) unless the data directory already holds one.`,
	}
	rootCommand = cli.Command{
		Action:    config.MergeFlags(printRoot),
		Name:      "root",
		Usage:     "Print the current state root",
		ArgsUsage: " ",
		Category:  "LEDGER COMMANDS",
	}
	versionCommand = cli.Command{
		Action:    config.MergeFlags(printVersion),
		Name:      "version",
		Usage:     "Print version numbers",
		ArgsUsage: " ",
		Category:  "MISC COMMANDS",
	}
	licenseCommand = cli.Command{
		Action:    config.MergeFlags(printLicense),
		Name:      "license",
		Usage:     "Display license information",
		ArgsUsage: " ",
		Category:  "MISC COMMANDS",
	}
)

func initLedger(ctx *cli.Context) error {
	return withNode(ctx, func(n *node.Node) error {
		ledger := n.Ledger()
		success.Printf("ledger ready in %s\n", n.Config().DataDir)
		printField("ChainID", ledger.ChainID())
		printField("Height", ledger.Height())
		printField("Root", ledger.StateRoot().Hex())
		return nil
	})
}

func printRoot(ctx *cli.Context) error {
	return withNode(ctx, func(n *node.Node) error {
		root := n.Ledger().StateRoot()
		printField("Height", n.Ledger().Height())
		printField("Hex", root.Hex())
		printField("Base58", root.Base58())
		return nil
	})
}

func printVersion(ctx *cli.Context) error {
	fmt.Println("Version:", Version)
	fmt.Println("Go Version:", runtime.Version())
	fmt.Println("Operating System:", runtime.GOOS)
	return nil
}

func printLicense(_ *cli.Context) error {
	fmt.Println("blockchat is free software released under the GNU General Public License Version 3.0 or later.")
	return nil
}
