// Copyright 2026 Alex Forencich <alex@alexforencich.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package bitvec implements fixed-length bit vectors over GF(2).
//
// Vectors have value semantics: no operation writes to an existing vector,
// so values can be shared and stored freely. XOR is the GF(2) sum, which
// makes a Vec a compact representation of a set of basis signals where
// adding an element twice cancels it.
package bitvec

import "math/bits"

const wordBits = 64

// A Vec is a fixed-length bit vector. The zero value is the empty vector
// of length 0.
//
type Vec struct {
	words []uint64
	n     int
}

// New returns the all-zero vector of length n.
//
func New(n int) Vec {
	if n < 0 {
		panic("bitvec: negative length")
	}
	return Vec{words: make([]uint64, (n+wordBits-1)/wordBits), n: n}
}

// Unit returns the length-n vector with only bit i set.
//
func Unit(n, i int) Vec {
	v := New(n)
	if i < 0 || i >= n {
		panic("bitvec: index out of range")
	}
	v.words[i/wordBits] = 1 << (uint(i) % wordBits)
	return v
}

// Len returns the length of v in bits.
//
func (v Vec) Len() int { return v.n }

// Bit reports whether bit i of v is set.
//
func (v Vec) Bit(i int) bool {
	if i < 0 || i >= v.n {
		panic("bitvec: index out of range")
	}
	return v.words[i/wordBits]>>(uint(i)%wordBits)&1 != 0
}

// Xor returns the bitwise XOR of v and o, which must have the same length.
// Neither operand is modified.
//
func (v Vec) Xor(o Vec) Vec {
	if v.n != o.n {
		panic("bitvec: length mismatch")
	}
	r := Vec{words: make([]uint64, len(v.words)), n: v.n}
	for i := range v.words {
		r.words[i] = v.words[i] ^ o.words[i]
	}
	return r
}

// Ones returns the positions of all set bits in ascending order.
//
func (v Vec) Ones() []int {
	var ones []int
	for wi, w := range v.words {
		for w != 0 {
			ones = append(ones, wi*wordBits+bits.TrailingZeros64(w))
			w &= w - 1
		}
	}
	return ones
}
