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
	"strconv"

	"github.com/urfave/cli"
	"github.com/yeeco/blockchat/config"
	"github.com/yeeco/blockchat/core/state"
	"github.com/yeeco/blockchat/node"
)

var (
	accountCommand = cli.Command{
		Name:        "account",
		Usage:       "Inspect accounts",
		Category:    "ACCOUNT COMMANDS",
		Description: "List accounts, show balances or the nonce window of one account",

		Subcommands: []cli.Command{
			{
				Name:      "list",
				Usage:     "List all existing accounts",
				ArgsUsage: " ",
				Action:    config.MergeFlags(accountList),
			},
			{
				Name:      "show",
				Usage:     "Show balances of an account",
				ArgsUsage: "<id>",
				Action:    config.MergeFlags(accountShow),
			},
			{
				Name:      "nonce",
				Usage:     "Show the next nonce, or whether a nonce is used",
				ArgsUsage: "<id> [nonce]",
				Action:    config.MergeFlags(accountNonce),
			},
		},
	}
)

func accountList(ctx *cli.Context) error {
	return withNode(ctx, func(n *node.Node) error {
		accounts, err := n.Ledger().Accounts()
		if err != nil {
			return err
		}
		for i, acc := range accounts {
			fmt.Printf("Account #%d: %v\n", i, acc)
		}
		return nil
	})
}

func accountShow(ctx *cli.Context) error {
	id, err := accountArg(ctx)
	if err != nil {
		return err
	}
	return withNode(ctx, func(n *node.Node) error {
		acc, err := n.Ledger().Account(id)
		if err != nil {
			return err
		}
		printAccount(acc)
		return nil
	})
}

func accountNonce(ctx *cli.Context) error {
	id, err := accountArg(ctx)
	if err != nil {
		return err
	}
	return withNode(ctx, func(n *node.Node) error {
		if ctx.NArg() < 2 {
			next, err := n.Ledger().NextNonce(id)
			if err != nil {
				return err
			}
			printField("Next", next)
			return nil
		}
		nonce, err := strconv.ParseUint(ctx.Args().Get(1), 10, 64)
		if err != nil {
			return err
		}
		used, err := n.Ledger().IsNonceUsed(id, nonce)
		if err != nil {
			return err
		}
		if used {
			failure.Printf("nonce %d used\n", nonce)
		} else {
			success.Printf("nonce %d unused\n", nonce)
		}
		return nil
	})
}

func accountArg(ctx *cli.Context) (uint32, error) {
	if ctx.NArg() < 1 {
		return 0, fmt.Errorf("missing account id")
	}
	id, err := strconv.ParseUint(ctx.Args().First(), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid account id %q", ctx.Args().First())
	}
	return uint32(id), nil
}

func printAccount(acc *state.Account) {
	printField("Account", acc.ID())
	printField("Held", acc.Held())
	printField("Staked", acc.Staked())
	printField("Nonce", acc.NoncePool().Next())
}
