package crcgen_test

import (
	"hash/crc32"
	"math/bits"
	"reflect"
	"sort"
	"testing"
	"testing/quick"

	"github.com/alexforencich/fpga-utils/crcgen"
)

// serialNext folds one input bit into a forward-domain register. It is the
// control model all equation checks compare against.
func serialNext(cfg crcgen.Config, state, bit uint64) uint64 {
	w := uint(cfg.Width)
	m := ^uint64(0) >> (64 - w)
	fb := state>>(w-1)&1 ^ bit
	if cfg.Topology == crcgen.Fibonacci {
		fb ^= uint64(bits.OnesCount64(state&(cfg.Poly>>1)) & 1)
		return (state<<1 | fb) & m
	}
	state = state << 1 & m
	if fb != 0 {
		state ^= cfg.Poly
	}
	return state
}

// serialWord folds a full input word bit by bit and also returns the register
// top bit observed before each fold, in fold order.
func serialWord(cfg crcgen.Config, state, data uint64) (uint64, []uint64) {
	tops := make([]uint64, cfg.DataWidth)
	for j := 0; j < cfg.DataWidth; j++ {
		bit := cfg.DataWidth - 1 - j
		if cfg.ReflectIn {
			bit = j
		}
		tops[j] = state >> uint(cfg.Width-1) & 1
		state = serialNext(cfg, state, data>>uint(bit)&1)
	}
	return state, tops
}

// refConfigs spans widths, topologies, reflection and extension. Kept small
// enough that quick.Check stays fast.
var refConfigs = []crcgen.Config{
	{Width: 1, Poly: 0x1, DataWidth: 1},
	{Width: 3, Poly: 0x3, DataWidth: 5},
	{Width: 5, Poly: 0x05, DataWidth: 4, ReflectIn: true},
	{Width: 7, Poly: 0x41, DataWidth: 16, Topology: crcgen.Fibonacci, ReflectIn: true},
	{Width: 8, Poly: 0x07, DataWidth: 8},
	{Width: 8, Poly: 0x31, DataWidth: 3, ReflectIn: true},
	{Width: 16, Poly: 0x8005, DataWidth: 13, ReflectIn: true},
	{Width: 16, Poly: 0x1021, DataWidth: 32},
	{Width: 32, Poly: 0x04c11db7, DataWidth: 8, ReflectIn: true, ReflectOut: true, Init: ^uint64(0), XorOut: ^uint64(0)},
	{Width: 32, Poly: 0x04c11db7, DataWidth: 64},
	{Width: 58, Poly: 0x8000000001, DataWidth: 64, Topology: crcgen.Fibonacci},
	{Width: 64, Poly: 0x42f0e1eba9ea3693, DataWidth: 8},
	{Width: 8, Poly: 0x07, DataWidth: 16, Extend: true},
	{Width: 3, Poly: 0x3, DataWidth: 11, Extend: true, ReflectIn: true},
}

func Test_unroll_matches_serial(t *testing.T) {
	for _, cfg := range refConfigs {
		eq, err := crcgen.Unroll(cfg)
		if err != nil {
			t.Fatal(err)
		}
		rc := eq.Config
		t.Run(rc.Name, func(t *testing.T) {
			sm := ^uint64(0) >> (64 - uint(rc.Width))
			dm := ^uint64(0) >> (64 - uint(rc.DataWidth))
			f := func(state, data uint64) bool {
				state &= sm
				data &= dm
				want, tops := serialWord(rc, state, data)
				for j := rc.Width; j < rc.StateWidth(); j++ {
					// bit w+i holds the i-th most recent shifted-out bit
					want |= tops[len(tops)-1-(j-rc.Width)] << uint(j)
				}
				got, err := eq.NextState(state, data)
				return err == nil && got == want
			}
			if err := quick.Check(f, nil); err != nil {
				t.Error(err)
			}
		})
	}
}

func Test_presets_match_serial(t *testing.T) {
	for name, p := range crcgen.Presets {
		t.Run(name, func(t *testing.T) {
			eq, err := crcgen.Unroll(p.Config())
			if err != nil {
				t.Fatal(err)
			}
			rc := eq.Config
			sm := ^uint64(0) >> (64 - uint(rc.Width))
			f := func(state uint64, data uint8) bool {
				state &= sm
				want, _ := serialWord(rc, state, uint64(data))
				got, err := eq.NextState(state, uint64(data))
				return err == nil && got == want
			}
			if err := quick.Check(f, nil); err != nil {
				t.Error(err)
			}
		})
	}
}

func Test_unroll_crc32_vector(t *testing.T) {
	p, ok := crcgen.LookupPreset("crc32")
	if !ok {
		t.Fatal("no crc32 preset")
	}
	eq, err := crcgen.Unroll(p.Config())
	if err != nil {
		t.Fatal(err)
	}
	state := eq.Config.Init
	for _, c := range []byte("123456789") {
		if state, err = eq.NextState(state, uint64(c)); err != nil {
			t.Fatal(err)
		}
	}
	if got := eq.Result(state); got != 0xcbf43926 {
		t.Errorf("Result = %#x, want 0xcbf43926", got)
	}
	if s := crc32.ChecksumIEEE([]byte("123456789")); s != 0xcbf43926 {
		t.Errorf("crc32.ChecksumIEEE = %#x, want 0xcbf43926", s)
	}
	chk, err := crcgen.CheckValue(p.Config())
	if err != nil {
		t.Fatal(err)
	}
	if chk != 0xcbf43926 {
		t.Errorf("CheckValue = %#x, want 0xcbf43926", chk)
	}
}

func Test_unroll_hand_derived(t *testing.T) {
	st := func(i int) crcgen.Symbol { return crcgen.Symbol{Kind: crcgen.StateBit, Index: i} }
	in := func(i int) crcgen.Symbol { return crcgen.Symbol{Kind: crcgen.InputBit, Index: i} }
	td := []struct {
		name string
		cfg  crcgen.Config
		next []crcgen.XorTerm
	}{
		{
			"galois_w3",
			crcgen.Config{Width: 3, Poly: 0x3, DataWidth: 1},
			[]crcgen.XorTerm{
				{Symbols: []crcgen.Symbol{st(2), in(0)}},
				{Symbols: []crcgen.Symbol{st(0), st(2), in(0)}},
				{Symbols: []crcgen.Symbol{st(1)}},
			},
		},
		{
			"fibonacci_w3",
			crcgen.Config{Width: 3, Poly: 0x3, DataWidth: 1, Topology: crcgen.Fibonacci},
			[]crcgen.XorTerm{
				{Symbols: []crcgen.Symbol{st(0), st(2), in(0)}},
				{Symbols: []crcgen.Symbol{st(0)}},
				{Symbols: []crcgen.Symbol{st(1)}},
			},
		},
		{
			// x+1 over two bits degenerates to a running parity
			"parity_w1",
			crcgen.Config{Width: 1, Poly: 0x1, DataWidth: 2},
			[]crcgen.XorTerm{
				{Symbols: []crcgen.Symbol{st(0), in(0), in(1)}},
			},
		},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			eq, err := crcgen.Unroll(d.cfg)
			if err != nil {
				t.Fatal(err)
			}
			if len(eq.Next) != len(d.next) {
				t.Fatalf("got %d equations, want %d", len(eq.Next), len(d.next))
			}
			for k := range d.next {
				if !eq.Next[k].Equal(d.next[k]) {
					t.Errorf("next[%d] = %v, want %v", k, eq.Next[k], d.next[k])
				}
			}
		})
	}
}

// Test_unroll_composability derives the wide-word equations a second way, by
// symbolically substituting the single-bit equations into themselves once per
// input bit, and checks that both derivations agree term for term.
func Test_unroll_composability(t *testing.T) {
	td := []crcgen.Config{
		{Width: 8, Poly: 0x07, DataWidth: 8},
		{Width: 16, Poly: 0x8005, DataWidth: 11, ReflectIn: true},
		{Width: 7, Poly: 0x41, DataWidth: 9, Topology: crcgen.Fibonacci},
	}
	for _, cfg := range td {
		eq, err := crcgen.Unroll(cfg)
		if err != nil {
			t.Fatal(err)
		}
		t.Run(eq.Config.Name, func(t *testing.T) {
			scfg := cfg
			scfg.DataWidth = 1
			scfg.ReflectIn = false // one bit, order is moot
			step, err := crcgen.Unroll(scfg)
			if err != nil {
				t.Fatal(err)
			}
			cur := make([]map[crcgen.Symbol]bool, cfg.Width)
			for i := range cur {
				cur[i] = map[crcgen.Symbol]bool{{Kind: crcgen.StateBit, Index: i}: true}
			}
			for j := 0; j < cfg.DataWidth; j++ {
				bit := cfg.DataWidth - 1 - j
				if cfg.ReflectIn {
					bit = j
				}
				nxt := make([]map[crcgen.Symbol]bool, cfg.Width)
				for k := range nxt {
					m := make(map[crcgen.Symbol]bool)
					for _, s := range step.Next[k].Symbols {
						if s.Kind == crcgen.StateBit {
							for sym := range cur[s.Index] {
								toggle(m, sym)
							}
						} else {
							toggle(m, crcgen.Symbol{Kind: crcgen.InputBit, Index: bit})
						}
					}
					nxt[k] = m
				}
				cur = nxt
			}
			for k := range cur {
				want := termOf(cur[k])
				if !want.Equal(eq.Next[k]) {
					t.Errorf("bit %d: composed %v, unrolled %v", k, want, eq.Next[k])
				}
			}
		})
	}
}

func toggle(m map[crcgen.Symbol]bool, s crcgen.Symbol) {
	if m[s] {
		delete(m, s)
	} else {
		m[s] = true
	}
}

func termOf(m map[crcgen.Symbol]bool) crcgen.XorTerm {
	var t crcgen.XorTerm
	for s := range m {
		t.Symbols = append(t.Symbols, s)
	}
	sort.Slice(t.Symbols, func(i, j int) bool { return t.Symbols[i].Less(t.Symbols[j]) })
	return t
}

// Test_unroll_canonical_form checks the structural guarantees every
// generated equation set carries.
func Test_unroll_canonical_form(t *testing.T) {
	for _, cfg := range refConfigs {
		eq, err := crcgen.Unroll(cfg)
		if err != nil {
			t.Fatal(err)
		}
		rc := eq.Config
		t.Run(rc.Name, func(t *testing.T) {
			sw := rc.StateWidth()
			if len(eq.Next) != sw || len(eq.Out) != sw {
				t.Fatalf("got %d next / %d out equations, want %d", len(eq.Next), len(eq.Out), sw)
			}
			checkTerm := func(what string, k int, xt crcgen.XorTerm) {
				t.Helper()
				for i, s := range xt.Symbols {
					if i > 0 && !xt.Symbols[i-1].Less(s) {
						t.Errorf("%s[%d]: symbols not strictly ascending: %v", what, k, xt)
					}
					switch s.Kind {
					case crcgen.StateBit:
						if s.Index < 0 || s.Index >= rc.Width {
							t.Errorf("%s[%d]: state index %d out of range", what, k, s.Index)
						}
					case crcgen.InputBit:
						if s.Index < 0 || s.Index >= rc.DataWidth {
							t.Errorf("%s[%d]: input index %d out of range", what, k, s.Index)
						}
					default:
						t.Errorf("%s[%d]: bad symbol kind %v", what, k, s.Kind)
					}
				}
			}
			for k, xt := range eq.Next {
				if xt.Invert {
					t.Errorf("next[%d] inverted", k)
				}
				checkTerm("next", k, xt)
			}
			for k, xt := range eq.Out {
				if xt.Invert != (rc.XorOut>>uint(k)&1 != 0) {
					t.Errorf("out[%d]: Invert = %v, want XorOut bit", k, xt.Invert)
				}
				checkTerm("out", k, xt)
			}
		})
	}
}

func Test_unroll_deterministic(t *testing.T) {
	cfg := crcgen.Config{Width: 32, Poly: 0x04c11db7, DataWidth: 32, ReflectIn: true, ReflectOut: true, Init: ^uint64(0), XorOut: ^uint64(0)}
	a, err := crcgen.Unroll(cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := crcgen.Unroll(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("two runs over the same config disagree")
	}
}

func Test_unroll_rejects_bad_config(t *testing.T) {
	_, err := crcgen.Unroll(crcgen.Config{Width: 8, Poly: 0x107, DataWidth: 8})
	if err == nil {
		t.Fatal("no error for out of range polynomial")
	}
	if ce, ok := err.(*crcgen.ConfigError); !ok || ce.Field != "Poly" {
		t.Fatalf("Unroll() error = %v, want *ConfigError on Poly", err)
	}
}
