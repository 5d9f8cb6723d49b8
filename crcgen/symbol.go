// Copyright 2026 Alex Forencich <alex@alexforencich.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package crcgen

import (
	"strconv"
	"strings"
)

// SymbolKind distinguishes the two families of base signals that unrolled
// equations are built from.
//
type SymbolKind uint8

const (
	// StateBit designates a bit of the current CRC register.
	StateBit SymbolKind = iota
	// InputBit designates a bit of the input data word.
	InputBit
)

func (k SymbolKind) String() string {
	switch k {
	case StateBit:
		return "state"
	case InputBit:
		return "data"
	}
	return "symbol(" + strconv.Itoa(int(k)) + ")"
}

// A Symbol identifies one base signal: bit Index of either the current
// register state or the input word. Symbols order state bits before input
// bits and lower indices first; that order is the canonical order of an
// XorTerm.
//
type Symbol struct {
	Kind  SymbolKind
	Index int
}

func (s Symbol) String() string {
	return s.Kind.String() + "[" + strconv.Itoa(s.Index) + "]"
}

// Less reports whether s precedes o in canonical symbol order.
//
func (s Symbol) Less(o Symbol) bool {
	if s.Kind != o.Kind {
		return s.Kind < o.Kind
	}
	return s.Index < o.Index
}

// An XorTerm is the XOR of a set of base signals, optionally inverted. It
// denotes one bit of the next CRC state or of the CRC output. Symbols is
// in canonical order and free of duplicates: over GF(2) a pair of equal
// symbols cancels, so none survives canonicalization.
//
type XorTerm struct {
	Symbols []Symbol
	Invert  bool
}

// IsZero reports whether t is the constant 0.
//
func (t XorTerm) IsZero() bool { return len(t.Symbols) == 0 && !t.Invert }

// String renders t in a debugging form such as "state[2] ^ data[7] ^ 1".
//
func (t XorTerm) String() string {
	if t.IsZero() {
		return "0"
	}
	var b strings.Builder
	for i, s := range t.Symbols {
		if i > 0 {
			b.WriteString(" ^ ")
		}
		b.WriteString(s.String())
	}
	if t.Invert {
		if len(t.Symbols) > 0 {
			b.WriteString(" ^ ")
		}
		b.WriteByte('1')
	}
	return b.String()
}

// Equal reports whether t and o denote the same function.
//
func (t XorTerm) Equal(o XorTerm) bool {
	if t.Invert != o.Invert || len(t.Symbols) != len(o.Symbols) {
		return false
	}
	for i := range t.Symbols {
		if t.Symbols[i] != o.Symbols[i] {
			return false
		}
	}
	return true
}
