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
	"math"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	pkgerrors "github.com/pkg/errors"
)

func TestAccountBalances(t *testing.T) {
	acc := NewAccount(7)
	if acc.ID() != 7 || acc.Held() != 0 || acc.Staked() != 0 {
		t.Fatalf("fresh account got %v", acc)
	}
	if np := acc.NoncePool(); np.Next() != 0 {
		t.Fatalf("fresh nonce pool next %d", np.Next())
	}

	if err := acc.AddHeld(100); err != nil {
		t.Fatalf("AddHeld() %v", err)
	}
	if err := acc.AddStaked(40); err != nil {
		t.Fatalf("AddStaked() %v", err)
	}
	if err := acc.SubHeld(30); err != nil {
		t.Fatalf("SubHeld() %v", err)
	}
	if acc.Held() != 70 || acc.Staked() != 40 {
		t.Errorf("balances got held %d staked %d", acc.Held(), acc.Staked())
	}
	if err := acc.SubStaked(40); err != nil {
		t.Fatalf("SubStaked() %v", err)
	}
	if acc.Staked() != 0 {
		t.Errorf("staked got %d", acc.Staked())
	}
}

func TestAccountInsufficientFunds(t *testing.T) {
	tests := []struct {
		name      string
		balance   uint32
		amount    uint32
		shortfall uint32
		held      bool
	}{
		{"held empty", 0, 1, 1, true},
		{"held short", 50, 80, 30, true},
		{"held max", 1, math.MaxUint32, math.MaxUint32 - 1, true},
		{"staked empty", 0, 5, 5, false},
		{"staked short", 10, 11, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := NewAccount(1)
			var err error
			if tt.held {
				acc.AddHeld(tt.balance)
				err = acc.SubHeld(tt.amount)
			} else {
				acc.AddStaked(tt.balance)
				err = acc.SubStaked(tt.amount)
			}
			e, ok := IsInsufficientFunds(err)
			if !ok {
				t.Fatalf("got err %v", err)
			}
			if e.Shortfall != tt.shortfall {
				t.Errorf("shortfall got %d want %d", e.Shortfall, tt.shortfall)
			}
			if acc.Held()+acc.Staked() != tt.balance {
				t.Errorf("balance changed on failed debit")
			}
		})
	}
}

func TestInsufficientFundsWrapped(t *testing.T) {
	err := pkgerrors.Wrap(&InsufficientFundsError{Shortfall: 3}, "apply tx")
	e, ok := IsInsufficientFunds(err)
	if !ok || e.Shortfall != 3 {
		t.Errorf("IsInsufficientFunds() through wrap got %v %v", e, ok)
	}
	if _, ok := IsInsufficientFunds(ErrBalanceOverflow); ok {
		t.Errorf("IsInsufficientFunds() matched overflow")
	}
}

func TestAccountOverflow(t *testing.T) {
	acc := NewAccount(1)
	acc.AddHeld(math.MaxUint32 - 1)
	if err := acc.AddHeld(2); err != ErrBalanceOverflow {
		t.Fatalf("AddHeld() overflow got %v", err)
	}
	if acc.Held() != math.MaxUint32-1 {
		t.Errorf("held changed on overflow: %d", acc.Held())
	}
	if err := acc.AddHeld(1); err != nil {
		t.Errorf("AddHeld() to max %v", err)
	}
	acc.AddStaked(math.MaxUint32)
	if err := acc.AddStaked(1); err != ErrBalanceOverflow {
		t.Errorf("AddStaked() overflow got %v", err)
	}
}

func TestAccountAddSubRestores(t *testing.T) {
	for _, amount := range []uint32{0, 1, 999, math.MaxUint32 - 500} {
		acc := NewAccount(1)
		acc.AddHeld(500)
		if err := acc.AddHeld(amount); err != nil {
			t.Fatalf("AddHeld(%d) %v", amount, err)
		}
		if err := acc.SubHeld(amount); err != nil {
			t.Fatalf("SubHeld(%d) %v", amount, err)
		}
		if acc.Held() != 500 {
			t.Errorf("add/sub %d left held %d", amount, acc.Held())
		}
	}
}

func TestAccountNoncePoolAccess(t *testing.T) {
	acc := NewAccount(1)
	acc.MutNoncePool().MarkUsed(0)
	ro := acc.NoncePool()
	if !ro.IsMarkedUsed(0) {
		t.Fatalf("MarkUsed through MutNoncePool not visible")
	}
	ro.MarkUsed(1)
	if acc.NoncePool().IsMarkedUsed(1) {
		t.Errorf("read-only copy leaked into account")
	}
	if next := acc.NoncePool().Next(); next != 1 {
		t.Errorf("Next() on returned pool %d", next)
	}
}

func TestAccountCopy(t *testing.T) {
	acc := NewAccount(3)
	acc.AddHeld(10)
	acc.MutNoncePool().MarkUsed(4)

	cpy := acc.Copy()
	cpy.AddHeld(5)
	cpy.MutNoncePool().MarkUsed(2)
	if acc.Held() != 10 {
		t.Errorf("copy shares balance")
	}
	if np := acc.NoncePool(); np.IsMarkedUsed(2) {
		t.Errorf("copy shares nonce pool")
	}
}

func TestAccountEncoding(t *testing.T) {
	acc := NewAccount(0xdeadbeef)
	acc.AddHeld(12345)
	acc.AddStaked(678)
	for _, n := range []uint64{0, 2, 5, BufLen + 1, 3*BufLen + 7} {
		acc.MutNoncePool().MarkUsed(n)
	}

	enc, err := acc.ToBytes()
	if err != nil {
		t.Fatalf("ToBytes() %v", err)
	}
	dec, err := DecodeAccount(enc)
	if err != nil {
		t.Fatalf("DecodeAccount() %v", err)
	}
	if *dec != *acc {
		t.Errorf("decoded %v want %v", dec, acc)
	}
}

func TestAccountDecodeInvalid(t *testing.T) {
	enc, err := rlp.EncodeToBytes(&accountRLP{ID: 1, BufEnd: BufLen})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := DecodeAccount(enc); pkgerrors.Cause(err) != ErrInvalidNoncePool {
		t.Errorf("bufEnd out of range got %v", err)
	}
	if _, err := DecodeAccount([]byte{0xff, 0x01}); err == nil {
		t.Errorf("garbage decoded")
	}
}
