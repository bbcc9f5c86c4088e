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

package fdlimit

import (
	ethfdlimit "github.com/ethereum/go-ethereum/common/fdlimit"
	"github.com/yeeco/blockchat/log"
)

// FixFdLimit raises the open file limit towards want, capped by the
// system maximum, so leveldb table files do not exhaust descriptors.
func FixFdLimit(want uint64) (uint64, error) {
	curr, err := Current()
	if err != nil {
		return 0, err
	}
	if uint64(curr) >= want {
		return uint64(curr), nil
	}
	max, err := Maximum()
	if err != nil {
		return 0, err
	}
	if want > uint64(max) {
		want = uint64(max)
	}
	result, err := Raise(want)
	if err != nil {
		return 0, err
	}
	log.Info("fd limit raised", "from", curr, "to", result, "max", max)
	return result, nil
}

func Current() (int, error) {
	return ethfdlimit.Current()
}

func Raise(max uint64) (uint64, error) {
	return ethfdlimit.Raise(max)
}

func Maximum() (int, error) {
	return ethfdlimit.Maximum()
}
