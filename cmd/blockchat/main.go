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
	"os"
	"path/filepath"
	"sort"

	"github.com/fatih/color"
	"github.com/urfave/cli"
	"github.com/yeeco/blockchat/config"
	"github.com/yeeco/blockchat/node"
	"github.com/yeeco/blockchat/utils/logging"
)

var (
	app = cli.NewApp()

	failure = color.New(color.FgRed, color.Bold)
	success = color.New(color.FgGreen)
)

func init() {
	app.Name = filepath.Base(os.Args[0])
	app.Version = Version
	app.Usage = "the blockchat ledger command line interface"
	app.Copyright = "Copyright 2017-2019 The gyee Authors"
	app.Flags = config.GlobalFlags
	app.Commands = []cli.Command{
		initCommand,
		accountCommand,
		txCommand,
		rootCommand,
		configCommand,
		versionCommand,
		licenseCommand,
	}
	sort.Sort(cli.CommandsByName(app.Commands))
}

func main() {
	if err := app.Run(os.Args); err != nil {
		failure.Fprintln(os.Stderr, "Fatal:", err)
		os.Exit(1)
	}
}

func makeNode(ctx *cli.Context) (*node.Node, error) {
	conf, err := config.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	return node.NewNode(conf)
}

// withNode runs fn against a started node and stops it afterwards.
func withNode(ctx *cli.Context, fn func(n *node.Node) error) error {
	n, err := makeNode(ctx)
	if err != nil {
		return err
	}
	if err := n.Start(); err != nil {
		return err
	}
	defer func() {
		if err := n.Stop(); err != nil {
			logging.Logger.Error(err)
		}
	}()
	return fn(n)
}

func printField(name string, value interface{}) {
	fmt.Printf("%-10s %v\n", name+":", value)
}
