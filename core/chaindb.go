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
	"encoding/binary"

	"github.com/yeeco/blockchat/common"
	"github.com/yeeco/blockchat/log"
	"github.com/yeeco/blockchat/persistent"
)

// Key / KeyPrefix for ledger used in persistent.Storage
const (
	KeyChainID = "ChainID"

	KeyLastRoot = "LastRoot"
	KeyHeight   = "Height"

	KeyPrefixState = "st-" // account id => encoded account, see state.KeyPrefixAccount
)

func prepareStorage(storage persistent.Storage, id ChainID) error {
	key := keyChainID()
	if hasChainID, err := storage.Has(key); err != nil {
		return err
	} else {
		if hasChainID {
			encChainID, err := storage.Get(key)
			if err != nil {
				return err
			}
			if len(encChainID) != 4 {
				return ErrInvalidChainID
			}
			decoded := binary.BigEndian.Uint32(encChainID)
			if ChainID(decoded) != id {
				return ErrChainIDMismatch
			}
		} else {
			encChainID := make([]byte, 4)
			binary.BigEndian.PutUint32(encChainID, uint32(id))
			if err := storage.Put(key, encChainID); err != nil {
				return err
			}
		}
	}
	return nil
}

func getLastRoot(getter persistent.Getter) common.Hash {
	enc, err := getter.Get(keyLastRoot())
	if err != nil {
		if err != persistent.ErrKeyNotFound {
			log.Error("getLastRoot()", "err", err)
		}
		return nil
	}
	if len(enc) == 0 {
		return nil
	}
	return common.BytesToHash(enc)
}

func putLastRoot(putter persistent.Putter, root common.Hash) error {
	return putter.Put(keyLastRoot(), root)
}

func getHeight(getter persistent.Getter) uint64 {
	enc, _ := getter.Get(keyHeight())
	if len(enc) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(enc)
}

func putHeight(putter persistent.Putter, height uint64) error {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, height)
	return putter.Put(keyHeight(), buf)
}

func keyChainID() []byte {
	return []byte(KeyChainID)
}

func keyLastRoot() []byte {
	return []byte(KeyLastRoot)
}

func keyHeight() []byte {
	return []byte(KeyHeight)
}
