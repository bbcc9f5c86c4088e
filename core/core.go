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

package core

import (
	"errors"
	"sync"

	"github.com/yeeco/blockchat/common"
	"github.com/yeeco/blockchat/core/state"
	"github.com/yeeco/blockchat/log"
	"github.com/yeeco/blockchat/persistent"
)

var (
	ErrLedgerNoStorage   = errors.New("must provide ledger storage")
	ErrLedgerNoGenesis   = errors.New("must provide genesis for an empty ledger")
	ErrChainIDMismatch   = errors.New("chainID mismatch")
	ErrInvalidChainID    = errors.New("stored chainID malformed")
	ErrStateRootMismatch = errors.New("stored state root mismatch")
)

// Ledger is the authoritative account state of a node.
//
// Blocks are applied one at a time under the ledger lock, each one either
// fully or not at all. Reads may run concurrently with each other.
type Ledger struct {
	chainID   ChainID
	storage   persistent.Storage
	catalog   *state.Catalog
	processor *StateProcessor

	lastRoot common.Hash
	height   uint64

	lock sync.RWMutex
}

func NewLedger(storage persistent.Storage, genesis *Genesis) (*Ledger, error) {
	return NewLedgerWithCache(storage, genesis, state.DefaultCacheSize)
}

// NewLedgerWithCache opens the ledger kept in storage, initialising it from
// genesis when storage holds no state yet.
func NewLedgerWithCache(storage persistent.Storage, genesis *Genesis, cacheSize int) (*Ledger, error) {
	if storage == nil {
		return nil, ErrLedgerNoStorage
	}
	if genesis == nil {
		return nil, ErrLedgerNoGenesis
	}
	if err := prepareStorage(storage, genesis.ChainID); err != nil {
		return nil, err
	}

	catalog, err := state.NewCatalogWithCache(persistent.NewTable(storage, KeyPrefixState), cacheSize)
	if err != nil {
		return nil, err
	}
	l := &Ledger{
		chainID:   genesis.ChainID,
		storage:   storage,
		catalog:   catalog,
		processor: NewStateProcessor(catalog),
	}

	if root := getLastRoot(storage); root != nil {
		if err := l.load(root); err != nil {
			return nil, err
		}
		return l, nil
	}
	if err := l.initGenesis(genesis); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Ledger) initGenesis(genesis *Genesis) error {
	if err := genesis.Apply(l.catalog); err != nil {
		return err
	}
	root, err := l.commit(0)
	if err != nil {
		return err
	}
	log.Info("ledger initialised from genesis", "chainID", l.chainID,
		"accounts", len(genesis.Accounts), "root", root)
	return nil
}

// commit writes the pending accounts together with the state root and
// height in one storage batch. The catalog keeps its pending changes if the
// write fails.
func (l *Ledger) commit(height uint64) (common.Hash, error) {
	batch := l.storage.NewBatch()
	root, err := l.catalog.CommitTo(persistent.NewTableBatch(batch, KeyPrefixState))
	if err != nil {
		return nil, err
	}
	if err := putLastRoot(batch, root); err != nil {
		return nil, err
	}
	if err := putHeight(batch, height); err != nil {
		return nil, err
	}
	if err := batch.Write(); err != nil {
		return nil, err
	}
	l.catalog.Committed()
	l.lastRoot = root
	l.height = height
	return root, nil
}

func (l *Ledger) load(stored common.Hash) error {
	root, err := l.catalog.StateRoot()
	if err != nil {
		return err
	}
	if !root.Equals(stored) {
		log.Error("state root mismatch", "stored", stored, "computed", root)
		return ErrStateRootMismatch
	}
	l.lastRoot = root
	l.height = getHeight(l.storage)
	log.Info("ledger loaded", "chainID", l.chainID, "height", l.height, "root", root)
	return nil
}

// Apply applies a block of transactions atomically and returns the new
// state root.
// Apply applies txs as the next block. A rejected block or a failed write
// leaves both the ledger and its storage as they were.
func (l *Ledger) Apply(txs Transactions) (common.Hash, error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	rev := l.catalog.Snapshot()
	if err := l.processor.Process(txs); err != nil {
		return nil, err
	}
	root, err := l.commit(l.height + 1)
	if err != nil {
		l.catalog.RevertToSnapshot(rev)
		l.processor.metrics.blockRollback.Mark(1)
		log.Error("block commit failed", "height", l.height+1, "err", err)
		return nil, err
	}
	l.processor.metrics.blockCommit.Mark(1)
	log.Info("block applied", "height", l.height, "txs", len(txs), "root", root)
	return root, nil
}

func (l *Ledger) Account(id uint32) (*state.Account, error) {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return l.catalog.GetAccount(id)
}

func (l *Ledger) Accounts() ([]*state.Account, error) {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return l.catalog.Accounts()
}

// NextNonce suggests the nonce for the next transaction of an account.
func (l *Ledger) NextNonce(id uint32) (uint64, error) {
	account, err := l.Account(id)
	if err != nil {
		return 0, err
	}
	return account.NoncePool().Next(), nil
}

func (l *Ledger) IsNonceUsed(id uint32, nonce uint64) (bool, error) {
	account, err := l.Account(id)
	if err != nil {
		return false, err
	}
	return account.NoncePool().IsMarkedUsed(nonce), nil
}

func (l *Ledger) StateRoot() common.Hash {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return l.lastRoot
}

func (l *Ledger) Height() uint64 {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return l.height
}

func (l *Ledger) ChainID() ChainID {
	return l.chainID
}

func (l *Ledger) PrintMetrics() {
	l.processor.metrics.printMetrics()
}
