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

package persistent

import (
	"bytes"
	"sort"
	"sync"
)

// MemoryStorage is a Storage kept entirely in memory, used by tests and
// throwaway ledgers.
type MemoryStorage struct {
	data map[string][]byte
	lock sync.RWMutex
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		data: make(map[string][]byte),
	}
}

func (db *MemoryStorage) Has(key []byte) (bool, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()
	_, ok := db.data[string(key)]
	return ok, nil
}

func (db *MemoryStorage) Get(key []byte) ([]byte, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()
	if entry, ok := db.data[string(key)]; ok {
		return copyBytes(entry), nil
	}
	return nil, ErrKeyNotFound
}

func (db *MemoryStorage) Put(key []byte, value []byte) error {
	db.lock.Lock()
	defer db.lock.Unlock()
	db.data[string(key)] = copyBytes(value)
	return nil
}

func (db *MemoryStorage) Del(key []byte) error {
	db.lock.Lock()
	defer db.lock.Unlock()
	delete(db.data, string(key))
	return nil
}

func (db *MemoryStorage) Iterate(prefix []byte, fn func(key, value []byte) error) error {
	db.lock.RLock()
	keys := make([]string, 0, len(db.data))
	for k := range db.data {
		if bytes.HasPrefix([]byte(k), prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	values := make([][]byte, len(keys))
	for i, k := range keys {
		values[i] = copyBytes(db.data[k])
	}
	db.lock.RUnlock()

	for i, k := range keys {
		if err := fn([]byte(k), values[i]); err != nil {
			return err
		}
	}
	return nil
}

func (db *MemoryStorage) Close() error {
	return nil
}

func (db *MemoryStorage) Len() int {
	db.lock.RLock()
	defer db.lock.RUnlock()
	return len(db.data)
}

func (db *MemoryStorage) NewBatch() Batch {
	return &memoryBatch{db: db}
}

type kv struct {
	k, v []byte
	del  bool
}

type memoryBatch struct {
	db      *MemoryStorage
	entries []kv
	size    int
}

func (b *memoryBatch) Put(key, value []byte) error {
	b.entries = append(b.entries, kv{k: copyBytes(key), v: copyBytes(value)})
	b.size += len(value)
	return nil
}

func (b *memoryBatch) Del(key []byte) error {
	b.entries = append(b.entries, kv{k: copyBytes(key), del: true})
	b.size += 1
	return nil
}

func (b *memoryBatch) ValueSize() int {
	return b.size
}

func (b *memoryBatch) Write() error {
	b.db.lock.Lock()
	defer b.db.lock.Unlock()
	for _, e := range b.entries {
		if e.del {
			delete(b.db.data, string(e.k))
			continue
		}
		b.db.data[string(e.k)] = e.v
	}
	return nil
}

func (b *memoryBatch) Reset() {
	b.entries = b.entries[:0]
	b.size = 0
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	cpy := make([]byte, len(b))
	copy(cpy, b)
	return cpy
}
