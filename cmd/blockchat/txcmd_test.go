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

package main

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/yeeco/blockchat/core"
)

func TestLoadTxBatch(t *testing.T) {
	dir, err := ioutil.TempDir("", "txbatch")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	file := filepath.Join(dir, "txs.toml")
	data := `
[[Transactions]]
Kind = "transfer"
From = 0
To = 1
Amount = 100
Nonce = 0

[[Transactions]]
Kind = "unstake"
From = 3
Amount = 10
Nonce = 4
`
	if err := ioutil.WriteFile(file, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	txs, err := loadTxBatch(file)
	if err != nil {
		t.Fatalf("loadTxBatch() %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("got %d txs", len(txs))
	}
	if txs[1].Kind != core.TxUnstake || txs[1].From != 3 || txs[1].Nonce != 4 {
		t.Errorf("second tx %v", txs[1])
	}

	empty := filepath.Join(dir, "empty.toml")
	ioutil.WriteFile(empty, nil, 0644)
	if _, err := loadTxBatch(empty); err == nil {
		t.Errorf("empty batch accepted")
	}
}
