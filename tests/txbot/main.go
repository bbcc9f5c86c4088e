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
	"flag"
	"math/rand"

	"github.com/yeeco/blockchat/config"
	"github.com/yeeco/blockchat/core"
	"github.com/yeeco/blockchat/log"
	"github.com/yeeco/blockchat/node"
)

// txbot fills a test ledger with random transfers, each sender using its
// next unused nonce.
func main() {
	var (
		dataDir   = flag.String("datadir", "", "ledger data directory")
		blocks    = flag.Int("blocks", 10, "number of batches to apply")
		batchSize = flag.Int("txs", 8, "transactions per batch")
		seed      = flag.Int64("seed", 1, "random seed")
	)
	flag.Parse()

	cfg, err := config.GetDefaultConfig()
	if err != nil {
		log.Crit("config failure", "err", err)
	}
	cfg.Chain.ChainID = config.TestNetChainID
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	n, err := node.NewNode(cfg)
	if err != nil {
		log.Crit("node create failure", "err", err)
	}
	if err := n.Start(); err != nil {
		log.Crit("node start failure", "err", err)
	}
	defer n.Stop()

	rnd := rand.New(rand.NewSource(*seed))
	for i := 0; i < *blocks; i++ {
		txs, err := randomBatch(n.Ledger(), rnd, *batchSize)
		if err != nil {
			log.Error("build batch", "err", err)
			return
		}
		root, err := n.Ledger().Apply(txs)
		if err != nil {
			log.Warn("batch rejected", "block", i, "err", err)
			continue
		}
		log.Info("batch applied", "block", i, "txs", len(txs), "root", root)
	}
}

func randomBatch(ledger *core.Ledger, rnd *rand.Rand, size int) (core.Transactions, error) {
	accounts, err := ledger.Accounts()
	if err != nil || len(accounts) < 2 {
		return nil, err
	}
	nonces := make(map[uint32]uint64)
	for _, acc := range accounts {
		nonces[acc.ID()] = acc.NoncePool().Next()
	}

	txs := make(core.Transactions, 0, size)
	for len(txs) < size {
		from := accounts[rnd.Intn(len(accounts))]
		to := accounts[rnd.Intn(len(accounts))]
		if from.ID() == to.ID() || from.Held() < 100 {
			continue
		}
		amount := uint32(rnd.Intn(int(from.Held()/100))) + 1
		txs = append(txs, core.NewTransfer(from.ID(), to.ID(), amount, nonces[from.ID()]))
		nonces[from.ID()]++
	}
	return txs, nil
}
