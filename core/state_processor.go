// Copyright (C) 2019 gyee authors
//
// This file is part of the gyee library.
//
// The gyee library is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The gyee library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with the gyee library.  If not, see <http://www.gnu.org/licenses/>.

package core

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
	"github.com/yeeco/blockchat/common"
	"github.com/yeeco/blockchat/core/state"
	"github.com/yeeco/blockchat/log"
)

var (
	ErrNonceUsed = errors.New("nonce already used")
)

// StateProcessor applies transactions to the accounts of a catalog.
//
// A transaction is applied in three steps: the sender nonce is checked
// against its nonce pool, the balance effects are applied, and only then
// the nonce is marked used. A failing step leaves no partial effect.
type StateProcessor struct {
	catalog state.AccountCatalog
	metrics *coreMetrics
}

func NewStateProcessor(catalog state.AccountCatalog) *StateProcessor {
	return &StateProcessor{
		catalog: catalog,
		metrics: newCoreMetrics(),
	}
}

// ApplyTransaction applies a single transaction, the catalog is left
// untouched when it fails.
func (p *StateProcessor) ApplyTransaction(tx *Transaction) error {
	rev := p.catalog.Snapshot()
	if err := p.applyTransaction(tx); err != nil {
		p.catalog.RevertToSnapshot(rev)
		p.metrics.markRejected(err)
		log.Debug("tx rejected", "tx", tx, "err", err)
		return err
	}
	p.metrics.txApplied.Mark(1)
	return nil
}

func (p *StateProcessor) applyTransaction(tx *Transaction) error {
	if err := tx.validate(); err != nil {
		return err
	}
	sender, err := p.catalog.GetMutAccount(tx.From)
	if err != nil {
		return pkgerrors.Wrapf(err, "sender %d", tx.From)
	}
	pool := sender.MutNoncePool()
	if pool.IsMarkedUsed(tx.Nonce) {
		return ErrNonceUsed
	}

	switch tx.Kind {
	case TxTransfer:
		recipient, err := p.catalog.GetMutAccount(tx.To)
		if err != nil {
			return pkgerrors.Wrapf(err, "recipient %d", tx.To)
		}
		if err := sender.SubHeld(tx.Amount); err != nil {
			return err
		}
		if err := recipient.AddHeld(tx.Amount); err != nil {
			return err
		}
	case TxStake:
		if err := sender.SubHeld(tx.Amount); err != nil {
			return err
		}
		if err := sender.AddStaked(tx.Amount); err != nil {
			return err
		}
	case TxUnstake:
		if err := sender.SubStaked(tx.Amount); err != nil {
			return err
		}
		if err := sender.AddHeld(tx.Amount); err != nil {
			return err
		}
	}

	pool.MarkUsed(tx.Nonce)
	return nil
}

// ApplyBlock applies txs in order as one unit. Either every transaction is
// applied and committed, returning the new state root, or the catalog is
// rolled back to where it was before the block.
func (p *StateProcessor) ApplyBlock(txs Transactions) (common.Hash, error) {
	if err := p.Process(txs); err != nil {
		return nil, err
	}
	root, err := p.catalog.Commit()
	if err != nil {
		return nil, err
	}
	p.metrics.blockCommit.Mark(1)
	log.Info("block applied", "txs", len(txs), "root", root)
	return root, nil
}

// Process applies txs in order without committing them. On the first
// failure every change of the block is reverted.
func (p *StateProcessor) Process(txs Transactions) error {
	rev := p.catalog.Snapshot()
	for i, tx := range txs {
		if err := p.ApplyTransaction(tx); err != nil {
			p.catalog.RevertToSnapshot(rev)
			p.metrics.blockRollback.Mark(1)
			log.Warn("block rolled back", "index", i, "tx", tx, "err", err)
			return pkgerrors.Wrapf(err, "tx %d %s", i, tx)
		}
	}
	return nil
}
