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
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/urfave/cli"
	"github.com/yeeco/blockchat/config"
	"github.com/yeeco/blockchat/core"
	"github.com/yeeco/blockchat/node"
)

var (
	txCommand = cli.Command{
		Name:     "tx",
		Usage:    "Apply transactions",
		Category: "LEDGER COMMANDS",
		Description: `
Apply a batch of transactions read from a toml file:

    [[Transactions]]
    Kind = "transfer"
    From = 0
    To = 1
    Amount = 100
    Nonce = 0

The batch is applied atomically, one failing transaction rejects all.`,

		Subcommands: []cli.Command{
			{
				Name:      "apply",
				Usage:     "Apply a transaction batch file",
				ArgsUsage: "<file>",
				Action:    config.MergeFlags(txApply),
			},
		},
	}
)

type txBatch struct {
	Transactions core.Transactions
}

func loadTxBatch(file string) (core.Transactions, error) {
	var batch txBatch
	if _, err := toml.DecodeFile(file, &batch); err != nil {
		return nil, err
	}
	if len(batch.Transactions) == 0 {
		return nil, fmt.Errorf("no transactions in %s", file)
	}
	return batch.Transactions, nil
}

func txApply(ctx *cli.Context) error {
	file := ctx.Args().First()
	if len(file) == 0 {
		return errors.New("please give a transaction file arg")
	}
	txs, err := loadTxBatch(file)
	if err != nil {
		return err
	}
	return withNode(ctx, func(n *node.Node) error {
		root, err := n.Ledger().Apply(txs)
		if err != nil {
			failure.Println("batch rejected:", err)
			return err
		}
		for _, tx := range txs {
			fmt.Printf("%x %v\n", tx.Hash(), tx)
		}
		success.Printf("applied %d transactions, height %d\n", len(txs), n.Ledger().Height())
		printField("Root", root.Hex())
		return nil
	})
}
