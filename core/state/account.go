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
	"errors"
	"fmt"
	"math"

	"github.com/ethereum/go-ethereum/rlp"
	pkgerrors "github.com/pkg/errors"
)

var (
	ErrBalanceOverflow  = errors.New("balance overflow")
	ErrInvalidNoncePool = errors.New("invalid nonce pool encoding")
)

// InsufficientFundsError is returned when a debit exceeds the balance.
type InsufficientFundsError struct {
	Shortfall uint32
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds, short of %d cents", e.Shortfall)
}

// IsInsufficientFunds reports whether err, or any error it wraps, is an
// InsufficientFundsError, and returns it.
func IsInsufficientFunds(err error) (*InsufficientFundsError, bool) {
	var target *InsufficientFundsError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// Account is the ledger entry of a single participant.
// NO CONCURRENCY is allowed
type Account struct {
	id          uint32
	noncePool   NoncePool
	heldCents   uint32
	stakedCents uint32
}

func NewAccount(id uint32) *Account {
	return &Account{
		id:        id,
		noncePool: NewNoncePool(),
	}
}

func (acc *Account) ID() uint32 {
	return acc.id
}

func (acc *Account) Held() uint32 {
	return acc.heldCents
}

func (acc *Account) Staked() uint32 {
	return acc.stakedCents
}

// NoncePool returns a copy of the account nonce pool.
func (acc *Account) NoncePool() NoncePool {
	return acc.noncePool
}

func (acc *Account) MutNoncePool() *NoncePool {
	return &acc.noncePool
}

func (acc *Account) AddHeld(amount uint32) error {
	return add(&acc.heldCents, amount)
}

func (acc *Account) SubHeld(amount uint32) error {
	return sub(&acc.heldCents, amount)
}

func (acc *Account) AddStaked(amount uint32) error {
	return add(&acc.stakedCents, amount)
}

func (acc *Account) SubStaked(amount uint32) error {
	return sub(&acc.stakedCents, amount)
}

func add(balance *uint32, amount uint32) error {
	if amount > math.MaxUint32-*balance {
		return ErrBalanceOverflow
	}
	*balance += amount
	return nil
}

func sub(balance *uint32, amount uint32) error {
	if amount > *balance {
		return &InsufficientFundsError{Shortfall: amount - *balance}
	}
	*balance -= amount
	return nil
}

// Copy returns an independent copy of the account.
func (acc *Account) Copy() *Account {
	cpy := *acc
	return &cpy
}

func (acc *Account) String() string {
	return fmt.Sprintf("account{%d held %d staked %d next %d}",
		acc.id, acc.heldCents, acc.stakedCents, acc.noncePool.Next())
}

// rlp layout of an account
type accountRLP struct {
	ID     uint32
	Held   uint32
	Staked uint32
	Iter   uint64
	BufEnd uint64
	Buf    uint32
}

// binary representation for account used as storage value
func (acc *Account) ToBytes() ([]byte, error) {
	return rlp.EncodeToBytes(&accountRLP{
		ID:     acc.id,
		Held:   acc.heldCents,
		Staked: acc.stakedCents,
		Iter:   acc.noncePool.iter,
		BufEnd: acc.noncePool.bufEnd,
		Buf:    acc.noncePool.bitmap(),
	})
}

func (acc *Account) FromBytes(enc []byte) error {
	var dec accountRLP
	if err := rlp.DecodeBytes(enc, &dec); err != nil {
		return pkgerrors.Wrap(err, "decode account")
	}
	if dec.BufEnd >= BufLen {
		return pkgerrors.Wrapf(ErrInvalidNoncePool, "account %d bufEnd %d", dec.ID, dec.BufEnd)
	}
	acc.id = dec.ID
	acc.heldCents = dec.Held
	acc.stakedCents = dec.Staked
	acc.noncePool.iter = dec.Iter
	acc.noncePool.bufEnd = dec.BufEnd
	acc.noncePool.setBitmap(dec.Buf)
	return nil
}

// DecodeAccount builds an account from its ToBytes encoding.
func DecodeAccount(enc []byte) (*Account, error) {
	acc := new(Account)
	if err := acc.FromBytes(enc); err != nil {
		return nil, err
	}
	return acc, nil
}
