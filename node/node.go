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

/*
   A node owns one data directory:
     LOCK       flock held while the ledger is open
     chaindata  leveldb with chain id, state root and accounts
     logs       rotated log files when App.LogDir is relative
   The ledger is created from genesis on first start and loaded afterwards.
*/

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ethereum/go-ethereum/metrics"
	"github.com/gofrs/flock"
	"github.com/yeeco/blockchat/config"
	"github.com/yeeco/blockchat/core"
	"github.com/yeeco/blockchat/log"
	"github.com/yeeco/blockchat/persistent"
	"github.com/yeeco/blockchat/utils/fdlimit"
	"github.com/yeeco/blockchat/utils/logging"
)

var metricsOnce sync.Once

var (
	ErrNodeStarted    = errors.New("node: already started")
	ErrNodeNotStarted = errors.New("node: not started")
)

type Node struct {
	config  *config.Config
	genesis *core.Genesis
	storage *persistent.LevelStorage
	ledger  *core.Ledger

	lock     sync.RWMutex
	filelock *flock.Flock
}

func NewNode(conf *config.Config) (*Node, error) {
	return NewNodeWithGenesis(conf, nil)
}

// NewNodeWithGenesis uses genesis instead of the one named by the config.
func NewNodeWithGenesis(conf *config.Config, genesis *core.Genesis) (*Node, error) {
	if conf.DataDir == "" {
		return nil, errors.New("node: empty data dir")
	}
	absdatadir, err := filepath.Abs(conf.DataDir)
	if err != nil {
		return nil, err
	}
	conf.DataDir = absdatadir
	if err := os.MkdirAll(conf.DataDir, 0755); err != nil {
		return nil, err
	}
	if err := setupLogging(conf); err != nil {
		return nil, err
	}
	setupMetrics(conf)

	if genesis == nil {
		if genesis, err = loadGenesis(conf); err != nil {
			return nil, err
		}
	}
	log.Info("Create new node", "datadir", conf.DataDir, "chainID", genesis.ChainID)

	return &Node{
		config:   conf,
		genesis:  genesis,
		filelock: flock.New(filepath.Join(conf.DataDir, "LOCK")),
	}, nil
}

func setupLogging(conf *config.Config) error {
	if err := logging.SetLevel(conf.App.LogLevel); err != nil {
		return err
	}
	if path := conf.LogPath(); path != "" {
		return logging.SetFileRotationHooker(path, conf.App.LogRotation)
	}
	return nil
}

// setupMetrics switches on process wide metric collection, it must run
// before the ledger creates its meters.
func setupMetrics(conf *config.Config) {
	if !conf.App.Metrics {
		return
	}
	metricsOnce.Do(func() {
		metrics.Enabled = true
		log.Info("Metrics collection enabled")
	})
}

func loadGenesis(conf *config.Config) (*core.Genesis, error) {
	id := core.ChainID(conf.Chain.ChainID)
	if conf.Chain.Genesis == "" {
		return core.DefaultGenesis(id)
	}
	genesis, err := core.LoadGenesis(conf.Chain.Genesis)
	if err != nil {
		return nil, err
	}
	if genesis.ChainID != id {
		return nil, fmt.Errorf("node: genesis chainID %v, config chainID %v", genesis.ChainID, id)
	}
	return genesis, nil
}

func (n *Node) Start() (err error) {
	n.lock.Lock()
	defer n.lock.Unlock()
	if n.ledger != nil {
		return ErrNodeStarted
	}
	log.Info("Node Start...")

	if err = n.lockDataDir(); err != nil {
		log.Error("node: lockDataDir()", "err", err)
		return err
	}
	defer func() {
		if err != nil {
			n.unlockDataDir()
		}
	}()

	if want := n.config.Storage.FdLimit; want > 0 {
		if _, err := fdlimit.FixFdLimit(want); err != nil {
			log.Warn("node: fd limit unchanged", "err", err)
		}
	}

	storage, err := persistent.NewLevelStorage(n.config.ChainDataDir())
	if err != nil {
		return err
	}
	ledger, err := core.NewLedgerWithCache(storage, n.genesis, n.config.Storage.AccountCache)
	if err != nil {
		storage.Close()
		return err
	}
	n.storage = storage
	n.ledger = ledger
	log.Info("Node Started", "height", ledger.Height(), "root", ledger.StateRoot())
	return nil
}

func (n *Node) Stop() error {
	n.lock.Lock()
	defer n.lock.Unlock()
	if n.ledger == nil {
		return ErrNodeNotStarted
	}
	log.Info("Node Stop...")

	n.ledger.PrintMetrics()
	n.ledger = nil
	closeErr := n.storage.Close()
	n.storage = nil
	if closeErr != nil {
		log.Error("node: close storage", "err", closeErr)
	}

	// the lock goes even if the storage did not close cleanly
	if err := n.unlockDataDir(); err != nil {
		log.Error("node: unlockDataDir()", "err", err)
		return err
	}
	return closeErr
}

func (n *Node) lockDataDir() error {
	locked, err := n.filelock.TryLock()
	if err != nil {
		return err
	}
	if !locked {
		return errors.New("node: failed to acquire node file lock")
	}
	return nil
}

func (n *Node) unlockDataDir() error {
	return n.filelock.Unlock()
}

func (n *Node) Config() *config.Config {
	return n.config
}

func (n *Node) Genesis() *core.Genesis {
	return n.genesis
}

// Ledger is nil unless the node is started.
func (n *Node) Ledger() *core.Ledger {
	n.lock.RLock()
	defer n.lock.RUnlock()
	return n.ledger
}
