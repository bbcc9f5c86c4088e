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

// BufLen is the number of consecutive nonces one generation of a NoncePool
// tracks explicitly.
const BufLen = 32

// NoncePool is a circular buffer keeping track of the nonces used by an account.
//
// Only the nonces of the current generation (nonce / BufLen) and of the one
// immediately before it are tracked. Anything older is considered used,
// anything newer is considered unused.
//
// A plain "next nonce" counter would reject nonce 2 on a node that already
// accepted a block carrying nonces 0, 1 and 3 but missed the one carrying 2.
// The buffer tolerates such gaps for up to BufLen nonces with fixed memory.
type NoncePool struct {
	iter   uint64
	bufEnd uint64
	buf    [BufLen]bool
}

func NewNoncePool() NoncePool {
	return NoncePool{}
}

// Next returns a suggested nonce for the next transaction of the account.
// It is advisory only, nonces below it may still be unused.
func (np NoncePool) Next() uint64 {
	return np.iter*BufLen + np.bufEnd
}

// Iter returns the current generation.
func (np NoncePool) Iter() uint64 {
	return np.iter
}

// BufEnd returns the cursor within the current generation.
func (np NoncePool) BufEnd() uint64 {
	return np.bufEnd
}

func splitNonce(nonce uint64) (iter, index uint64) {
	return nonce / BufLen, nonce % BufLen
}

// nonce belongs to a generation older than the previous one
func (np NoncePool) stale(iter uint64) bool {
	return np.iter > 0 && iter < np.iter-1
}

func (np NoncePool) previous(iter uint64) bool {
	return np.iter > 0 && iter == np.iter-1
}

func (np NoncePool) IsMarkedUsed(nonce uint64) bool {
	iter, index := splitNonce(nonce)

	switch {
	case np.stale(iter):
		return true
	case np.previous(iter):
		// overwritten by the current generation, or explicitly marked
		return index < np.bufEnd || np.buf[index]
	case iter == np.iter:
		return index < np.bufEnd && np.buf[index]
	default:
		return false
	}
}

// MarkUsed records nonce as used. Callers are expected to check
// IsMarkedUsed first, marking never fails.
func (np *NoncePool) MarkUsed(nonce uint64) {
	iter, index := splitNonce(nonce)

	switch {
	case np.stale(iter):
		// used by default
		return

	case np.previous(iter):
		if index >= np.bufEnd {
			np.buf[index] = true
		}
		return

	case iter == np.iter:
		if index < np.bufEnd {
			np.buf[index] = true
			return
		}
		// extend the window, skipped places are still unused
		np.clear(np.bufEnd, index)
		np.advance(index)

	case iter == np.iter+1:
		// the unwritten tail of the old generation and the head of
		// the new one up to nonce are unknown, so unused
		np.clear(np.bufEnd, BufLen)
		np.clear(0, index)
		np.iter = iter
		np.advance(index)

	default:
		np.clear(0, BufLen)
		np.iter = iter
		np.advance(index)
	}
}

func (np *NoncePool) clear(from, to uint64) {
	for i := from; i < to; i++ {
		np.buf[i] = false
	}
}

// advance marks index and moves the cursor past it, rolling into the next
// generation when the cursor wraps.
func (np *NoncePool) advance(index uint64) {
	np.buf[index] = true
	np.bufEnd = (index + 1) % BufLen
	if np.bufEnd == 0 {
		np.iter++
	}
}

// bitmap packs the buffer, bit i standing for slot i.
func (np NoncePool) bitmap() uint32 {
	var bits uint32
	for i, used := range np.buf {
		if used {
			bits |= 1 << uint(i)
		}
	}
	return bits
}

func (np *NoncePool) setBitmap(bits uint32) {
	for i := range np.buf {
		np.buf[i] = bits&(1<<uint(i)) != 0
	}
}
