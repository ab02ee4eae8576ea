// Package uniquerand produces unique random integers within a range.
// It's used to visit a list of operations in an unbiased order, without
// allocating a full permutation up front for the common small lists.
package uniquerand

import "math/rand"

const wordSize = 64

// Int returns each integer in the range [0, Range()) exactly once, in a
// random order. Consumed integers can be re-offered through Put.
// The zero value has a range of 0 and produces nothing; call Reset first.
type Int struct {
	r    int      // range
	used []uint64 // bitset of consumed integers
}

// Reset sets the range of the generator to [0, r) and forgets all
// previously produced integers.
func (u *Int) Reset(r int) {
	if r < 0 {
		r = 0
	}
	u.r = r
	u.used = make([]uint64, (r+wordSize-1)/wordSize)
}

// Range returns the exclusive upper limit of the produced integers.
func (u *Int) Range() int {
	return u.r
}

// Get returns a random integer that hasn't been produced since the last
// Reset(or Put). It reports false once the range is exhausted.
func (u *Int) Get() (n int, ok bool) {
	if u.r == 0 {
		return 0, false
	}

	// try a random probe first; on collision, scan from it linearly.
	// the scan keeps Get O(r) in the worst case instead of retrying
	// random probes indefinitely.
	start := rand.Intn(u.r)
	for i := 0; i < u.r; i++ {
		n = start + i
		if n >= u.r {
			n -= u.r
		}
		w, b := n/wordSize, uint64(1)<<(n%wordSize)
		if u.used[w]&b == 0 {
			u.used[w] |= b
			return n, true
		}
	}
	return 0, false
}

// Put re-offers n, so a later Get call can produce it again.
// It reports false if n is out of range or wasn't consumed.
func (u *Int) Put(n int) bool {
	if n < 0 || n >= u.r {
		return false
	}
	w, b := n/wordSize, uint64(1)<<(n%wordSize)
	if u.used[w]&b == 0 {
		return false
	}
	u.used[w] &^= b
	return true
}
