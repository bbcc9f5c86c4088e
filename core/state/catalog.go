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
	"encoding/binary"
	"errors"
	"fmt"
	"sort"

	lru "github.com/hashicorp/golang-lru"
	pkgerrors "github.com/pkg/errors"
	"github.com/yeeco/blockchat/common"
	"github.com/yeeco/blockchat/log"
	"github.com/yeeco/blockchat/persistent"
	"golang.org/x/crypto/sha3"
)

// KeyPrefixAccount prefixes account entries in storage, followed by the
// big endian account id.
const KeyPrefixAccount = "acc-"

const DefaultCacheSize = 1024

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account already exists")
	ErrNoStorage       = errors.New("must provide catalog storage")
)

var _ AccountCatalog = (*Catalog)(nil)

type journalEntry struct {
	id       uint32
	prev     *Account
	wasDirty bool
}

// Catalog owns every account of the ledger.
//
// Accounts changed since the last Commit live in the dirty set, clean ones
// are read from storage through a bounded cache.
type Catalog struct {
	storage persistent.Storage
	cache   *lru.Cache
	dirty   map[uint32]*Account
	journal []journalEntry
}

func NewCatalog(storage persistent.Storage) (*Catalog, error) {
	return NewCatalogWithCache(storage, DefaultCacheSize)
}

func NewCatalogWithCache(storage persistent.Storage, cacheSize int) (*Catalog, error) {
	if storage == nil {
		return nil, ErrNoStorage
	}
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, err
	}
	return &Catalog{
		storage: storage,
		cache:   cache,
		dirty:   make(map[uint32]*Account),
	}, nil
}

func (c *Catalog) CreateAccount(id uint32) (*Account, error) {
	exists, err := c.has(id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAccountExists
	}
	account := NewAccount(id)
	c.journal = append(c.journal, journalEntry{id: id})
	c.dirty[id] = account
	return account, nil
}

func (c *Catalog) GetAccount(id uint32) (*Account, error) {
	if account, ok := c.dirty[id]; ok {
		return account.Copy(), nil
	}
	account, err := c.loadClean(id)
	if err != nil {
		return nil, err
	}
	return account.Copy(), nil
}

func (c *Catalog) GetMutAccount(id uint32) (*Account, error) {
	if account, ok := c.dirty[id]; ok {
		c.journal = append(c.journal, journalEntry{id: id, prev: account.Copy(), wasDirty: true})
		return account, nil
	}
	clean, err := c.loadClean(id)
	if err != nil {
		return nil, err
	}
	account := clean.Copy()
	c.journal = append(c.journal, journalEntry{id: id})
	c.dirty[id] = account
	return account, nil
}

func (c *Catalog) Accounts() ([]*Account, error) {
	seen := make(map[uint32]bool, len(c.dirty))
	var result []*Account
	err := c.storage.Iterate([]byte(KeyPrefixAccount), func(key, value []byte) error {
		id, ok := idFromKey(key)
		if !ok {
			return fmt.Errorf("malformed account key %x", key)
		}
		seen[id] = true
		if account, ok := c.dirty[id]; ok {
			result = append(result, account.Copy())
			return nil
		}
		account, err := DecodeAccount(value)
		if err != nil {
			return err
		}
		result = append(result, account)
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "iterate accounts")
	}
	for id, account := range c.dirty {
		if !seen[id] {
			result = append(result, account.Copy())
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID() < result[j].ID()
	})
	return result, nil
}

// Snapshot returns a revision to hand to RevertToSnapshot.
func (c *Catalog) Snapshot() int {
	return len(c.journal)
}

func (c *Catalog) RevertToSnapshot(revision int) {
	if revision < 0 || revision > len(c.journal) {
		panic(fmt.Errorf("revision id %v cannot be reverted", revision))
	}
	for i := len(c.journal) - 1; i >= revision; i-- {
		entry := c.journal[i]
		if entry.wasDirty {
			c.dirty[entry.id] = entry.prev
		} else {
			delete(c.dirty, entry.id)
		}
	}
	c.journal = c.journal[:revision]
}

func (c *Catalog) StateRoot() (common.Hash, error) {
	accounts, err := c.Accounts()
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return common.EmptyHash, nil
	}
	hasher := sha3.New256()
	for _, account := range accounts {
		enc, err := account.ToBytes()
		if err != nil {
			return nil, err
		}
		hasher.Write(enc)
	}
	return common.BytesToHash(hasher.Sum(nil)), nil
}

func (c *Catalog) Commit() (common.Hash, error) {
	batch := c.storage.NewBatch()
	root, err := c.CommitTo(batch)
	if err != nil {
		return nil, err
	}
	if err := batch.Write(); err != nil {
		return nil, pkgerrors.Wrap(err, "write accounts")
	}
	c.Committed()
	return root, nil
}

// CommitTo stages the dirty accounts into batch and returns the state root
// they will produce once written. The catalog is left untouched: the caller
// writes the batch and then calls Committed, or reverts on failure.
//
// batch must address the same key space as the catalog storage.
func (c *Catalog) CommitTo(batch persistent.Batch) (common.Hash, error) {
	for id, account := range c.dirty {
		enc, err := account.ToBytes()
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "encode account %d", id)
		}
		if err := batch.Put(keyAccount(id), enc); err != nil {
			return nil, err
		}
	}
	return c.StateRoot()
}

// Committed moves the dirty accounts into the clean cache and drops the
// journal. Call it only after the batch filled by CommitTo was written.
func (c *Catalog) Committed() {
	log.Debug("accounts committed", "count", len(c.dirty))
	for id, account := range c.dirty {
		// callers may still hold the live pointer
		c.cache.Add(id, account.Copy())
	}
	c.dirty = make(map[uint32]*Account)
	c.journal = nil
}

// Dirty returns the number of accounts changed since the last Commit.
func (c *Catalog) Dirty() int {
	return len(c.dirty)
}

func (c *Catalog) has(id uint32) (bool, error) {
	if _, ok := c.dirty[id]; ok {
		return true, nil
	}
	if c.cache.Contains(id) {
		return true, nil
	}
	return c.storage.Has(keyAccount(id))
}

// loadClean returns the committed account, the result is shared with the
// cache and must not be modified.
func (c *Catalog) loadClean(id uint32) (*Account, error) {
	if cached, ok := c.cache.Get(id); ok {
		return cached.(*Account), nil
	}
	enc, err := c.storage.Get(keyAccount(id))
	if err == persistent.ErrKeyNotFound {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "load account %d", id)
	}
	account, err := DecodeAccount(enc)
	if err != nil {
		log.Error("failed to decode account", "id", id, "err", err)
		return nil, err
	}
	c.cache.Add(id, account)
	return account, nil
}

func keyAccount(id uint32) []byte {
	buf := append([]byte(KeyPrefixAccount), make([]byte, 4)...)
	binary.BigEndian.PutUint32(buf[len(buf)-4:], id)
	return buf
}

func idFromKey(key []byte) (uint32, bool) {
	if len(key) != len(KeyPrefixAccount)+4 {
		return 0, false
	}
	return binary.BigEndian.Uint32(key[len(KeyPrefixAccount):]), true
}
