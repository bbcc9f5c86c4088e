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

package common

import (
	"bytes"
	"encoding/hex"

	"github.com/mr-tron/base58/base58"
)

const HashLength = 32

type Hash []byte

// EmptyHash is the root of a ledger without accounts.
var EmptyHash = Hash(make([]byte, HashLength))

func BytesToHash(b []byte) Hash {
	h := make(Hash, len(b))
	copy(h, b)
	return h
}

func HexToHash(s string) (Hash, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return Hash(b), nil
}

func (h Hash) Hex() string {
	return hex.EncodeToString(h)
}

func (h Hash) Base58() string {
	return base58.Encode(h)
}

func (h Hash) String() string {
	return h.Hex()
}

func (h Hash) Equals(b Hash) bool {
	return bytes.Equal(h, b)
}
