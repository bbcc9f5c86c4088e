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
	"fmt"

	"github.com/BurntSushi/toml"
	pkgerrors "github.com/pkg/errors"
	"github.com/yeeco/blockchat/core/state"
)

type ChainID uint32

const (
	MainNetID ChainID = 1
	TestNetID ChainID = 2
)

type GenesisAccount struct {
	ID     uint32
	Held   uint32
	Staked uint32
}

// Genesis describes the accounts a ledger starts with.
type Genesis struct {
	ChainID  ChainID
	Accounts []GenesisAccount
}

const mainNetGenesis = `
ChainID = 1

[[Accounts]]
ID = 0
Held = 100000000
`

const testNetGenesis = `
ChainID = 2

[[Accounts]]
ID = 0
Held = 1000000

[[Accounts]]
ID = 1
Held = 1000000

[[Accounts]]
ID = 2
Held = 1000000

[[Accounts]]
ID = 3
Held = 1000000
Staked = 1000
`

// DefaultGenesis returns the built-in genesis of a known chain.
func DefaultGenesis(id ChainID) (*Genesis, error) {
	switch id {
	case MainNetID:
		return parseGenesis(mainNetGenesis)
	case TestNetID:
		return parseGenesis(testNetGenesis)
	default:
		return nil, fmt.Errorf("unknown chainID %v", id)
	}
}

func LoadGenesis(fn string) (*Genesis, error) {
	genesis := new(Genesis)
	if _, err := toml.DecodeFile(fn, genesis); err != nil {
		return nil, pkgerrors.Wrapf(err, "load genesis %s", fn)
	}
	return genesis, nil
}

func parseGenesis(data string) (*Genesis, error) {
	genesis := new(Genesis)
	if _, err := toml.Decode(data, genesis); err != nil {
		return nil, err
	}
	return genesis, nil
}

// Apply creates the genesis accounts in catalog.
func (g *Genesis) Apply(catalog state.AccountCatalog) error {
	for _, ga := range g.Accounts {
		account, err := catalog.CreateAccount(ga.ID)
		if err != nil {
			return pkgerrors.Wrapf(err, "genesis account %d", ga.ID)
		}
		if err := account.AddHeld(ga.Held); err != nil {
			return err
		}
		if err := account.AddStaked(ga.Staked); err != nil {
			return err
		}
	}
	return nil
}
