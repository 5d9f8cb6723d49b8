// Copyright 2026 Alex Forencich <alex@alexforencich.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package crcgen

import (
	"github.com/alexforencich/fpga-utils/internal/bitvec"
)

// A stateVector is one symbolic snapshot of the shift register: one packed
// term per register bit. A term packs state bits at positions 0..Width-1
// and input bits at positions Width..Width+DataWidth-1, so the GF(2) sum
// of two terms is a single vector XOR and scanning set bits in ascending
// position yields symbols already in canonical order.
type stateVector []bitvec.Vec

// identity returns the starting vector, where register bit i holds exactly
// the symbol state[i].
func identity(width, dataWidth int) stateVector {
	s := make(stateVector, width)
	for i := range s {
		s[i] = bitvec.Unit(width+dataWidth, i)
	}
	return s
}

// stepGalois advances the register by one input bit in the Galois
// configuration, where the feedback is XORed into the chain at every tap:
//
//	,-------------------+---------------------------------+------------,
//	|                   |                                 |            |
//	|  .----.  .----.   V   .----.  .----.       .----.   V   .----.   |
//	`->|  0 |->|  1 |->(+)->|  2 |->|  3 |->...->| 14 |->(+)->| 15 |->(+)<- in
//	   '----'  '----'       '----'  '----'       '----'       '----'
//
// (example for CRC-16, polynomial 0x8005). It returns the new vector and
// the term shifted out of the top of the register, before feedback.
func stepGalois(s stateVector, poly uint64, in bitvec.Vec) (stateVector, bitvec.Vec) {
	w := len(s)
	fb := s[w-1].Xor(in)
	next := make(stateVector, w)
	next[0] = fb
	for k := 1; k < w; k++ {
		next[k] = s[k-1]
		if poly>>uint(k)&1 != 0 {
			next[k] = next[k].Xor(fb)
		}
	}
	return next, s[w-1]
}

// stepFibonacci advances the register by one input bit in the Fibonacci
// configuration, where all taps feed a single XOR on the feedback path:
//
//	,-----------------------------(+)<------------------------------,
//	|                              ^                                |
//	|  .----.  .----.       .----. |  .----.       .----.  .----.   |
//	`->|  0 |->|  1 |->...->| 38 |-+->| 39 |->...->| 56 |->| 57 |->(+)<- in
//	   '----'  '----'       '----'    '----'       '----'  '----'
//
// (example for the 64b66b scrambler, polynomial 0x8000000001).
func stepFibonacci(s stateVector, poly uint64, in bitvec.Vec) (stateVector, bitvec.Vec) {
	w := len(s)
	fb := s[w-1].Xor(in)
	for k := 1; k < w; k++ {
		if poly>>uint(k)&1 != 0 {
			fb = fb.Xor(s[k-1])
		}
	}
	next := make(stateVector, w)
	next[0] = fb
	copy(next[1:], s[:w-1])
	return next, s[w-1]
}

// simulate runs DataWidth symbolic single-bit steps on the identity
// vector. It returns the final vector and the terms shifted out of the
// register top, oldest first. Input bits fold in most significant first,
// or least significant first under ReflectIn.
func simulate(c Config) (stateVector, []bitvec.Vec) {
	n := c.Width + c.DataWidth
	s := identity(c.Width, c.DataWidth)
	history := make([]bitvec.Vec, 0, c.DataWidth)
	for j := 0; j < c.DataWidth; j++ {
		bit := c.DataWidth - 1 - j
		if c.ReflectIn {
			bit = j
		}
		in := bitvec.Unit(n, c.Width+bit)
		var top bitvec.Vec
		if c.Topology == Fibonacci {
			s, top = stepFibonacci(s, c.Poly, in)
		} else {
			s, top = stepGalois(s, c.Poly, in)
		}
		history = append(history, top)
	}
	return s, history
}

// extendVector widens the final vector to the state width: register bits
// Width and up hold the last DataWidth-Width bits shifted out of the top,
// most recent first. Without extend mode the vector is returned as is.
func extendVector(c Config, final stateVector, history []bitvec.Vec) stateVector {
	sw := c.StateWidth()
	if sw == len(final) {
		return final
	}
	ext := make(stateVector, 0, sw)
	ext = append(ext, final...)
	for j := 0; j < sw-len(final); j++ {
		ext = append(ext, history[len(history)-1-j])
	}
	return ext
}

// an outTerm pairs a packed term with the constant inversion contributed
// by the output XOR mask.
type outTerm struct {
	vec    bitvec.Vec
	invert bool
}

// outputStage maps the next-state vector to the output bits: bit k of the
// output reads register bit k, or bit StateWidth-1-k under ReflectOut, and
// is inverted where XorOut has a bit set.
func outputStage(c Config, next stateVector) []outTerm {
	sw := len(next)
	out := make([]outTerm, sw)
	for k := range out {
		src := k
		if c.ReflectOut {
			src = sw - 1 - k
		}
		out[k] = outTerm{vec: next[src], invert: c.XorOut>>uint(k)&1 != 0}
	}
	return out
}

// Equations is the product of an unroll: one canonical XorTerm per bit of
// the next register state (Next) and per bit of the CRC output after the
// applied input word (Out). Both have Config.StateWidth() entries. Config
// is the resolved configuration the equations were derived from.
//
type Equations struct {
	Config Config
	Next   []XorTerm
	Out    []XorTerm
}

// Unroll derives the parallel CRC equations for cfg. The configuration is
// resolved first, so a zero Init/XorOut/Name need not be filled in by the
// caller; an invalid configuration returns a *ConfigError and no
// equations.
//
func Unroll(cfg Config) (*Equations, error) {
	rc, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	final, history := simulate(rc)
	if len(final) != rc.Width {
		return nil, &InternalInvariantError{Stage: "simulation", What: "state vector length", Want: rc.Width, Got: len(final)}
	}
	next := extendVector(rc, final, history)
	return canonicalize(rc, next, outputStage(rc, next))
}
