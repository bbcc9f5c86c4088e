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
	"math/rand"
	"testing"
)

func TestNoncePool(t *testing.T) {
	pool := NewNoncePool()

	type check struct {
		nonce uint64
		used  bool
	}
	steps := []struct {
		mark   *uint64
		next   uint64
		checks []check
	}{
		{nil, 0, []check{{0, false}, {1, false}, {2, false}, {3, false},
			{BufLen - 1, false}, {BufLen, false}, {2 * BufLen, false}}},
		{u64(0), 1, []check{{0, true}, {1, false}, {2, false}, {3, false},
			{BufLen - 1, false}, {BufLen, false}, {BufLen + 1, false}, {2 * BufLen, false}}},
		{u64(2), 3, []check{{0, true}, {1, false}, {2, true}, {3, false},
			{BufLen - 1, false}, {BufLen, false}, {BufLen + 1, false}, {2 * BufLen, false}}},
		{u64(BufLen), BufLen + 1, []check{{0, true}, {1, false}, {2, true}, {3, false},
			{BufLen - 1, false}, {BufLen, true}, {BufLen + 1, false}, {2 * BufLen, false}}},
		{u64(BufLen + 1), BufLen + 2, []check{{0, true}, {1, true}, {2, true}, {3, false},
			{BufLen - 1, false}, {BufLen, true}, {BufLen + 1, true}, {2 * BufLen, false}}},
		{u64(2 * BufLen), 2*BufLen + 1, []check{{0, true}, {1, true}, {2, true}, {3, true},
			{BufLen - 1, true}, {BufLen, true}, {BufLen + 1, true}, {2 * BufLen, true}}},
	}

	for i, step := range steps {
		if step.mark != nil {
			pool.MarkUsed(*step.mark)
		}
		if next := pool.Next(); next != step.next {
			t.Errorf("step %d: Next() got %d want %d", i, next, step.next)
		}
		for _, c := range step.checks {
			if used := pool.IsMarkedUsed(c.nonce); used != c.used {
				t.Errorf("step %d: IsMarkedUsed(%d) got %v want %v", i, c.nonce, used, c.used)
			}
		}
	}
}

func u64(v uint64) *uint64 {
	return &v
}

func TestNoncePoolConsecutive(t *testing.T) {
	pool := NewNoncePool()
	for k := uint64(0); k < 5*BufLen; k++ {
		pool.MarkUsed(k)
		if next := pool.Next(); next != k+1 {
			t.Fatalf("after marking 0..%d Next() got %d", k, next)
		}
		for n := uint64(0); n <= k; n++ {
			if !pool.IsMarkedUsed(n) {
				t.Fatalf("after marking 0..%d nonce %d unused", k, n)
			}
		}
		if pool.IsMarkedUsed(k + 1) {
			t.Fatalf("after marking 0..%d nonce %d used", k, k+1)
		}
	}
}

func TestNoncePoolWrap(t *testing.T) {
	pool := NewNoncePool()
	pool.MarkUsed(BufLen - 1)
	if pool.Iter() != 1 || pool.BufEnd() != 0 {
		t.Fatalf("wrap got iter %d bufEnd %d", pool.Iter(), pool.BufEnd())
	}
	if pool.Next() != BufLen {
		t.Errorf("Next() got %d", pool.Next())
	}
	if !pool.IsMarkedUsed(BufLen - 1) {
		t.Errorf("wrapped nonce unused")
	}
	// skipped nonces of the previous generation stay usable
	for n := uint64(0); n < BufLen-1; n++ {
		if pool.IsMarkedUsed(n) {
			t.Errorf("skipped nonce %d used", n)
		}
	}
	pool.MarkUsed(5)
	if !pool.IsMarkedUsed(5) || pool.Next() != BufLen {
		t.Errorf("late nonce 5: used %v next %d", pool.IsMarkedUsed(5), pool.Next())
	}
}

func TestNoncePoolOutOfOrder(t *testing.T) {
	pool := NewNoncePool()
	for _, n := range []uint64{0, 1, 3} {
		pool.MarkUsed(n)
	}
	if pool.IsMarkedUsed(2) {
		t.Fatalf("gap nonce 2 reported used")
	}
	pool.MarkUsed(2)
	if !pool.IsMarkedUsed(2) {
		t.Errorf("late nonce 2 not recorded")
	}
	if pool.Next() != 4 {
		t.Errorf("Next() moved back to %d", pool.Next())
	}
}

func TestNoncePoolFarJump(t *testing.T) {
	pool := NewNoncePool()
	for n := uint64(0); n < 10; n++ {
		pool.MarkUsed(n)
	}
	jump := uint64(7*BufLen + 4)
	pool.MarkUsed(jump)

	if pool.Iter() != 7 || pool.BufEnd() != 5 {
		t.Fatalf("jump got iter %d bufEnd %d", pool.Iter(), pool.BufEnd())
	}
	for n := uint64(6 * BufLen); n < 8*BufLen; n++ {
		used := pool.IsMarkedUsed(n)
		prevOverwritten := n < 6*BufLen+5
		want := n == jump || prevOverwritten
		if used != want {
			t.Errorf("IsMarkedUsed(%d) got %v want %v", n, used, want)
		}
	}
	for n := uint64(0); n < 6*BufLen; n++ {
		if !pool.IsMarkedUsed(n) {
			t.Fatalf("stale nonce %d unused", n)
		}
	}
}

func TestNoncePoolRandom(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	pool := NewNoncePool()
	base := uint64(0)

	for i := 0; i < 20000; i++ {
		var n uint64
		switch rnd.Intn(10) {
		case 0:
			// far jump
			base += uint64(rnd.Intn(4 * BufLen))
			n = base
		case 1, 2:
			// late arrival
			back := uint64(rnd.Intn(3 * BufLen))
			if back > base {
				back = base
			}
			n = base - back
		default:
			base += uint64(rnd.Intn(3))
			n = base
		}

		iter := pool.Iter()
		tracked := iter == 0 || n/BufLen >= iter-1
		pool.MarkUsed(n)
		if tracked && !pool.IsMarkedUsed(n) {
			t.Fatalf("step %d: nonce %d unused right after marking", i, n)
		}

		if it := pool.Iter(); it > 1 {
			stale := (it-1)*BufLen - 1 - uint64(rnd.Intn(int(BufLen)))
			if !pool.IsMarkedUsed(stale) {
				t.Fatalf("step %d: stale nonce %d unused at iter %d", i, stale, it)
			}
		}
		if pool.BufEnd() >= BufLen {
			t.Fatalf("step %d: bufEnd %d out of range", i, pool.BufEnd())
		}
	}
}

func TestNoncePoolBitmap(t *testing.T) {
	pool := NewNoncePool()
	for _, n := range []uint64{0, 3, 31} {
		pool.buf[n] = true
	}
	bits := pool.bitmap()
	if bits != 1|1<<3|1<<31 {
		t.Fatalf("bitmap() got %b", bits)
	}
	var other NoncePool
	other.setBitmap(bits)
	if other.buf != pool.buf {
		t.Errorf("setBitmap() got %v", other.buf)
	}
}
