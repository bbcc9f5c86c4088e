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

package state

import (
	"github.com/yeeco/blockchat/common"
)

// interface for the account registry consumed by transaction validation
// 1. lookup / create accounts by id
// 2. journal mutable access so a batch can be rolled back
// NO CONCURRENCY is allowed
type AccountCatalog interface {
	// Create a fresh account, fails if id is taken
	CreateAccount(id uint32) (*Account, error)

	// Read-only copy of an account
	GetAccount(id uint32) (*Account, error)

	// Live account, every change is undone by RevertToSnapshot
	GetMutAccount(id uint32) (*Account, error)

	// All accounts ordered by id
	Accounts() ([]*Account, error)

	Snapshot() int
	RevertToSnapshot(revision int)

	// Hash over all accounts, used by consensus to compare states
	StateRoot() (common.Hash, error)

	// Persist pending changes and drop the journal
	Commit() (common.Hash, error)
}
