package crcgen

import (
	"math/bits"

	"github.com/pkg/errors"
)

// checkData is the conventional message for CRC self-test constants: the
// check value of a parameter set is the CRC of these nine ASCII bytes.
const checkData = "123456789"

// ErrWideData reports equations whose input word does not fit the
// evaluator. NextState and Output pack the data word into a uint64, so a
// Config with DataWidth above 64 still unrolls and generates but cannot
// be evaluated in software.
var ErrWideData = errors.New("crcgen: data wider than 64 bits")

// NextState evaluates the next-state equations on concrete values: bit k
// of the result is the XOR of the state and data bits named by Next[k].
// It returns ErrWideData when DataWidth exceeds 64, since data cannot
// carry the full input word then.
//
func (e *Equations) NextState(state, data uint64) (uint64, error) {
	if e.Config.DataWidth > 64 {
		return 0, ErrWideData
	}
	var next uint64
	for k, t := range e.Next {
		if evalTerm(t, state, data) {
			next |= 1 << uint(k)
		}
	}
	return next, nil
}

// Output evaluates the output equations on concrete values: the CRC
// presented after the register absorbs data, with reflection and XOR mask
// applied. Output(state, data) always equals Result applied to
// NextState(state, data). It returns ErrWideData when DataWidth exceeds
// 64.
//
func (e *Equations) Output(state, data uint64) (uint64, error) {
	if e.Config.DataWidth > 64 {
		return 0, ErrWideData
	}
	var out uint64
	for k, t := range e.Out {
		if evalTerm(t, state, data) {
			out |= 1 << uint(k)
		}
	}
	return out, nil
}

// Result applies the output stage to a concrete register value, mirroring
// the generated module's crc_out mapping.
//
func (e *Equations) Result(state uint64) uint64 {
	sw := e.Config.StateWidth()
	if e.Config.ReflectOut {
		state = reverseBits(state, sw)
	}
	return (state ^ e.Config.XorOut) & mask(sw)
}

func evalTerm(t XorTerm, state, data uint64) bool {
	v := t.Invert
	for _, s := range t.Symbols {
		var w uint64
		if s.Kind == StateBit {
			w = state
		} else {
			w = data
		}
		v = v != (w>>uint(s.Index)&1 != 0)
	}
	return v
}

// CheckValue computes the check value of cfg's CRC parameters: the CRC of
// the ASCII bytes "123456789", the self-test constant published for every
// cataloged parameter set. Module shape (DataWidth, Bare, Load, Extend,
// Name) does not influence the value; it is computed with a byte-wide
// unroll of the same parameters. Catalog check values assume the Galois
// topology; for Fibonacci configurations the result is the value the
// generated register would produce, which matches no published catalog.
//
func CheckValue(cfg Config) (uint64, error) {
	cfg.DataWidth = 8
	cfg.Bare = false
	cfg.Load = false
	cfg.Extend = false
	cfg.Name = ""
	eq, err := Unroll(cfg)
	if err != nil {
		return 0, err
	}
	state := eq.Config.Init
	for i := 0; i < len(checkData); i++ {
		if state, err = eq.NextState(state, uint64(checkData[i])); err != nil {
			return 0, err
		}
	}
	return eq.Result(state), nil
}

// reverseBits reverses the low n bits of v. n must be 1 to 64.
func reverseBits(v uint64, n int) uint64 {
	return bits.Reverse64(v) >> uint(64-n)
}
