package crcgen

import (
	"fmt"

	"github.com/alexforencich/fpga-utils/internal/bitvec"
)

// An InternalInvariantError reports a violated invariant of the symbolic
// simulation. It indicates a defect in this package, never a caller
// mistake: no valid Config can produce one.
//
type InternalInvariantError struct {
	Stage string // pipeline stage that tripped the check
	What  string // quantity that came out wrong
	Want  int
	Got   int
}

func (e *InternalInvariantError) Error() string {
	return fmt.Sprintf("crcgen: internal invariant violated after %s: %s is %d, want %d",
		e.Stage, e.What, e.Got, e.Want)
}

// canonicalize decodes the packed simulation product into exported
// XorTerms and checks the state vector invariants. Terms come out sorted
// and duplicate-free by construction: a packed vector cannot hold a symbol
// twice, and ascending bit positions decode to canonical symbol order.
func canonicalize(c Config, next stateVector, out []outTerm) (*Equations, error) {
	sw := c.StateWidth()
	if len(next) != sw {
		return nil, &InternalInvariantError{Stage: "extension", What: "state vector length", Want: sw, Got: len(next)}
	}
	if len(out) != sw {
		return nil, &InternalInvariantError{Stage: "output staging", What: "output vector length", Want: sw, Got: len(out)}
	}
	tw := c.Width + c.DataWidth
	eq := &Equations{Config: c, Next: make([]XorTerm, sw), Out: make([]XorTerm, sw)}
	for i, v := range next {
		if v.Len() != tw {
			return nil, &InternalInvariantError{Stage: "next decode", What: "packed term width", Want: tw, Got: v.Len()}
		}
		eq.Next[i] = decodeTerm(c, v, false)
	}
	for i, t := range out {
		if t.vec.Len() != tw {
			return nil, &InternalInvariantError{Stage: "output decode", What: "packed term width", Want: tw, Got: t.vec.Len()}
		}
		eq.Out[i] = decodeTerm(c, t.vec, t.invert)
	}
	return eq, nil
}

// decodeTerm expands a packed term into its symbol list. Packed positions
// below Width are state bits, the rest input bits.
func decodeTerm(c Config, v bitvec.Vec, invert bool) XorTerm {
	ones := v.Ones()
	t := XorTerm{Invert: invert}
	if len(ones) == 0 {
		return t
	}
	t.Symbols = make([]Symbol, len(ones))
	for i, b := range ones {
		if b < c.Width {
			t.Symbols[i] = Symbol{Kind: StateBit, Index: b}
		} else {
			t.Symbols[i] = Symbol{Kind: InputBit, Index: b - c.Width}
		}
	}
	return t
}
