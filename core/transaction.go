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
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/rlp"
	pkgerrors "github.com/pkg/errors"
	"github.com/yeeco/blockchat/common"
	"github.com/yeeco/blockchat/log"
	"golang.org/x/crypto/sha3"
)

var (
	ErrUnknownTxKind = errors.New("unknown transaction kind")
	ErrSelfTransfer  = errors.New("transfer to self")
	ErrZeroAmount    = errors.New("zero amount")
)

type TxKind uint8

const (
	// held cents of From move to held cents of To
	TxTransfer TxKind = iota
	// held cents of From move to its staked cents
	TxStake
	// staked cents of From move back to its held cents
	TxUnstake
)

var txKindNames = map[TxKind]string{
	TxTransfer: "transfer",
	TxStake:    "stake",
	TxUnstake:  "unstake",
}

func (k TxKind) String() string {
	if name, ok := txKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TxKind(%d)", uint8(k))
}

func (k TxKind) MarshalText() ([]byte, error) {
	if _, ok := txKindNames[k]; !ok {
		return nil, ErrUnknownTxKind
	}
	return []byte(k.String()), nil
}

func (k *TxKind) UnmarshalText(text []byte) error {
	for kind, name := range txKindNames {
		if strings.EqualFold(name, string(text)) {
			*k = kind
			return nil
		}
	}
	return pkgerrors.Wrapf(ErrUnknownTxKind, "%q", text)
}

// Transaction moves cents of one account, guarded by the sender nonce.
// To is ignored by stake and unstake.
type Transaction struct {
	Kind   TxKind
	From   uint32
	To     uint32
	Amount uint32
	Nonce  uint64

	// caches
	hash common.Hash
}

func NewTransfer(from, to, amount uint32, nonce uint64) *Transaction {
	return &Transaction{Kind: TxTransfer, From: from, To: to, Amount: amount, Nonce: nonce}
}

func NewStake(from, amount uint32, nonce uint64) *Transaction {
	return &Transaction{Kind: TxStake, From: from, To: from, Amount: amount, Nonce: nonce}
}

func NewUnstake(from, amount uint32, nonce uint64) *Transaction {
	return &Transaction{Kind: TxUnstake, From: from, To: from, Amount: amount, Nonce: nonce}
}

type txRLP struct {
	Kind   uint8
	From   uint32
	To     uint32
	Amount uint32
	Nonce  uint64
}

func (t *Transaction) Encode() ([]byte, error) {
	return rlp.EncodeToBytes(&txRLP{
		Kind:   uint8(t.Kind),
		From:   t.From,
		To:     t.To,
		Amount: t.Amount,
		Nonce:  t.Nonce,
	})
}

func (t *Transaction) Decode(enc []byte) error {
	var dec txRLP
	if err := rlp.DecodeBytes(enc, &dec); err != nil {
		return pkgerrors.Wrap(err, "decode tx")
	}
	*t = Transaction{
		Kind:   TxKind(dec.Kind),
		From:   dec.From,
		To:     dec.To,
		Amount: dec.Amount,
		Nonce:  dec.Nonce,
	}
	return nil
}

func DecodeTransaction(enc []byte) (*Transaction, error) {
	tx := new(Transaction)
	if err := tx.Decode(enc); err != nil {
		return nil, err
	}
	return tx, nil
}

func (t *Transaction) Hash() common.Hash {
	if t.hash == nil {
		enc, err := t.Encode()
		if err != nil {
			log.Crit("wrong tx hash", "err", err)
		}
		sum := sha3.Sum256(enc)
		t.hash = common.BytesToHash(sum[:])
	}
	return t.hash
}

// validate checks what can be checked without account state
func (t *Transaction) validate() error {
	if _, ok := txKindNames[t.Kind]; !ok {
		return ErrUnknownTxKind
	}
	if t.Amount == 0 {
		return ErrZeroAmount
	}
	if t.Kind == TxTransfer && t.From == t.To {
		return ErrSelfTransfer
	}
	return nil
}

func (t *Transaction) String() string {
	if t.Kind == TxTransfer {
		return fmt.Sprintf("tx{%s %d->%d %d nonce %d}", t.Kind, t.From, t.To, t.Amount, t.Nonce)
	}
	return fmt.Sprintf("tx{%s %d %d nonce %d}", t.Kind, t.From, t.Amount, t.Nonce)
}

type Transactions []*Transaction

func (txs Transactions) Len() int { return len(txs) }

func (txs Transactions) String() string {
	var sb strings.Builder
	_, _ = fmt.Fprint(&sb, "[")
	for _, tx := range txs {
		_, _ = fmt.Fprint(&sb, tx, " ")
	}
	_, _ = fmt.Fprint(&sb, "]")
	return sb.String()
}
