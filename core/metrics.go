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
	"fmt"

	"github.com/ethereum/go-ethereum/metrics"
	"github.com/yeeco/blockchat/core/state"
	"github.com/yeeco/blockchat/log"
)

type coreMetrics struct {
	txApplied     metrics.Meter
	txNonceUsed   metrics.Meter
	txNoFunds     metrics.Meter
	txRejected    metrics.Meter
	blockCommit   metrics.Meter
	blockRollback metrics.Meter
}

// Meters created while metrics.Enabled is off are no-ops.
func newCoreMetrics() *coreMetrics {
	return &coreMetrics{
		txApplied:     metrics.GetOrRegisterMeter("core/tx/applied", nil),
		txNonceUsed:   metrics.GetOrRegisterMeter("core/tx/reject/nonce", nil),
		txNoFunds:     metrics.GetOrRegisterMeter("core/tx/reject/funds", nil),
		txRejected:    metrics.GetOrRegisterMeter("core/tx/reject/other", nil),
		blockCommit:   metrics.GetOrRegisterMeter("core/block/commit", nil),
		blockRollback: metrics.GetOrRegisterMeter("core/block/rollback", nil),
	}
}

func (cm *coreMetrics) markRejected(err error) {
	if errors.Is(err, ErrNonceUsed) {
		cm.txNonceUsed.Mark(1)
		return
	}
	if _, ok := state.IsInsufficientFunds(err); ok {
		cm.txNoFunds.Mark(1)
		return
	}
	cm.txRejected.Mark(1)
}

func (cm *coreMetrics) printMetrics() {
	m := make(map[string]string)
	m["tx"] = fmt.Sprintf("ok%d nonce%d funds%d other%d",
		cm.txApplied.Count(), cm.txNonceUsed.Count(), cm.txNoFunds.Count(), cm.txRejected.Count())
	m["block"] = fmt.Sprintf("commit%d rollback%d", cm.blockCommit.Count(), cm.blockRollback.Count())

	log.Info("core metrics", "tx", m["tx"], "block", m["block"])
}
