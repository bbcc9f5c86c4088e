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

package node

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/metrics"
	"github.com/yeeco/blockchat/config"
	"github.com/yeeco/blockchat/core"
)

func testConfig(t *testing.T) (*config.Config, func()) {
	dir, err := ioutil.TempDir("", "node")
	if err != nil {
		t.Fatal(err)
	}
	conf, err := config.GetDefaultConfig()
	if err != nil {
		t.Fatal(err)
	}
	conf.DataDir = dir
	conf.Chain.ChainID = uint32(core.TestNetID)
	return conf, func() { os.RemoveAll(dir) }
}

func TestNode(t *testing.T) {
	conf, cleanup := testConfig(t)
	defer cleanup()

	node, err := NewNode(conf)
	if err != nil {
		t.Fatalf("NewNode() %v", err)
	}
	if node.Ledger() != nil {
		t.Errorf("ledger open before Start")
	}
	if err := node.Stop(); err != ErrNodeNotStarted {
		t.Errorf("Stop() before Start got %v", err)
	}
	if err := node.Start(); err != nil {
		t.Fatalf("Start() %v", err)
	}
	if err := node.Start(); err != ErrNodeStarted {
		t.Errorf("second Start() got %v", err)
	}

	// the data dir is locked against a second node
	other, err := NewNode(conf)
	if err != nil {
		t.Fatalf("NewNode() %v", err)
	}
	if err := other.Start(); err == nil {
		t.Errorf("second node started on a locked data dir")
		other.Stop()
	}

	root, err := node.Ledger().Apply(core.Transactions{core.NewTransfer(0, 1, 10, 0)})
	if err != nil {
		t.Fatalf("Apply() %v", err)
	}
	if err := node.Stop(); err != nil {
		t.Fatalf("Stop() %v", err)
	}
	if _, err := os.Stat(filepath.Join(conf.DataDir, "chaindata")); err != nil {
		t.Errorf("chaindata %v", err)
	}

	// restart loads the committed state
	if err := node.Start(); err != nil {
		t.Fatalf("restart %v", err)
	}
	defer node.Stop()
	if !node.Ledger().StateRoot().Equals(root) {
		t.Errorf("root after restart %v, want %v", node.Ledger().StateRoot(), root)
	}
}

func TestNodeGenesisFile(t *testing.T) {
	conf, cleanup := testConfig(t)
	defer cleanup()

	file := filepath.Join(conf.DataDir, "genesis.toml")
	data := "ChainID = 7\n[[Accounts]]\nID = 5\nHeld = 42\n"
	if err := ioutil.WriteFile(file, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	conf.Chain.Genesis = file
	if _, err := NewNode(conf); err == nil {
		t.Fatalf("genesis with a foreign chainID accepted")
	}

	conf.Chain.ChainID = 7
	node, err := NewNode(conf)
	if err != nil {
		t.Fatalf("NewNode() %v", err)
	}
	if err := node.Start(); err != nil {
		t.Fatalf("Start() %v", err)
	}
	defer node.Stop()
	acc, err := node.Ledger().Account(5)
	if err != nil {
		t.Fatalf("Account(5) %v", err)
	}
	if acc.Held() != 42 {
		t.Errorf("held %d", acc.Held())
	}
}

func TestNodeMetrics(t *testing.T) {
	conf, cleanup := testConfig(t)
	defer cleanup()

	if _, err := NewNode(conf); err != nil {
		t.Fatalf("NewNode() %v", err)
	}
	if !metrics.Enabled {
		t.Errorf("metrics not enabled by node")
	}
}

func TestNodeStopReleasesLock(t *testing.T) {
	conf, cleanup := testConfig(t)
	defer cleanup()

	node, err := NewNode(conf)
	if err != nil {
		t.Fatalf("NewNode() %v", err)
	}
	if err := node.Start(); err != nil {
		t.Fatalf("Start() %v", err)
	}
	// a second close of the leveldb fails
	node.storage.Close()
	if err := node.Stop(); err == nil {
		t.Errorf("Stop() hid the storage close error")
	}

	other, err := NewNode(conf)
	if err != nil {
		t.Fatalf("NewNode() %v", err)
	}
	if err := other.Start(); err != nil {
		t.Fatalf("data dir still locked after failed Stop: %v", err)
	}
	other.Stop()
}
