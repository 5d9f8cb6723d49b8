// Copyright 2026 Alex Forencich <alex@alexforencich.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package crcgen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexforencich/fpga-utils/internal/vlog"
)

// MaxWidth is the largest supported CRC width. Polynomial, initial value
// and XOR mask are uint64, which covers every cataloged CRC.
const MaxWidth = 64

// Topology selects the feedback structure of the shift register.
//
type Topology int

const (
	// Galois feeds the feedback bit into XOR taps spread along the shift
	// chain. This is the usual CRC structure; all catalog check values
	// assume it.
	Galois Topology = iota
	// Fibonacci XORs all tap outputs into the single feedback bit at the
	// bottom of the chain, as in a classic scrambler/PRBS generator.
	Fibonacci
)

func (t Topology) String() string {
	switch t {
	case Galois:
		return "galois"
	case Fibonacci:
		return "fibonacci"
	}
	return fmt.Sprintf("topology(%d)", int(t))
}

// ParseTopology maps the names "galois" and "fibonacci" (any case) to the
// corresponding Topology.
//
func ParseTopology(s string) (Topology, error) {
	switch strings.ToLower(s) {
	case "galois":
		return Galois, nil
	case "fibonacci":
		return Fibonacci, nil
	}
	return 0, &ConfigError{Field: "Topology", Reason: fmt.Sprintf("is %q, must be galois or fibonacci", s)}
}

// ParseWord parses a polynomial, initial value or XOR mask given as text.
// It accepts the 0x/0o/0b prefixed and decimal forms of strconv base 0,
// an empty string as 0, and negative decimal values in two's complement,
// so "-1" is shorthand for all ones at any width.
//
func ParseWord(s string) (uint64, error) {
	if s == "" {
		return 0, nil
	}
	if strings.HasPrefix(s, "-") {
		v, err := strconv.ParseInt(s, 0, 64)
		return uint64(v), err
	}
	return strconv.ParseUint(s, 0, 64)
}

// Config carries every generation parameter: the CRC parametrization
// (Width, Poly, Init, XorOut, ReflectIn, ReflectOut), the register
// structure (Topology), and the shape of the generated module (DataWidth,
// Bare, Load, Extend, Name).
//
// Poly holds the feedback tap mask without the implied x^Width term; bit 0
// (the x^0 term) must be set. Init is the register load value on reset and
// on crc_init, in the same bit order as Poly. XorOut is XORed onto the
// final output. ReflectIn makes each input word enter the register least
// significant bit first; ReflectOut bit-reverses the register on output.
//
type Config struct {
	Width     int    // CRC width in bits, 1 to MaxWidth
	Poly      uint64 // feedback polynomial, x^Width term implied
	DataWidth int    // input word width in bits
	Init      uint64 // initial register contents
	XorOut    uint64 // final output XOR mask

	ReflectIn  bool
	ReflectOut bool
	Topology   Topology

	Bare   bool   // emit only the combinatorial assigns, no module sequencing
	Load   bool   // include a crc_load port to set the register directly
	Extend bool   // widen the register to DataWidth, keeping shifted-out bits
	Name   string // module name; derived from the parameters when empty
}

// A ConfigError reports an invalid or inconsistent Config. Field names the
// offending parameter and Reason states the accepted values.
//
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "crcgen: invalid " + e.Field + ": " + e.Reason
}

// StateWidth returns the width of the generated state register: Width, or
// DataWidth when extend mode widens the register.
//
func (c Config) StateWidth() int {
	if c.Extend && c.DataWidth > c.Width {
		return c.DataWidth
	}
	return c.Width
}

// Resolve validates c and returns a normalized copy: Init and XorOut
// masked to the state width, Load dropped when Bare is set, and an empty
// Name replaced by the derived module name. c itself is not modified;
// generation always operates on the resolved value. A non-nil error is
// always a *ConfigError.
//
func (c Config) Resolve() (Config, error) {
	if c.Width < 1 || c.Width > MaxWidth {
		return Config{}, &ConfigError{Field: "Width",
			Reason: fmt.Sprintf("is %d, must be between 1 and %d", c.Width, MaxWidth)}
	}
	if c.DataWidth < 1 {
		return Config{}, &ConfigError{Field: "DataWidth",
			Reason: fmt.Sprintf("is %d, must be at least 1", c.DataWidth)}
	}
	if c.Topology != Galois && c.Topology != Fibonacci {
		return Config{}, &ConfigError{Field: "Topology",
			Reason: fmt.Sprintf("is %d, must be Galois or Fibonacci", int(c.Topology))}
	}
	if c.Poly>>uint(c.Width) != 0 {
		return Config{}, &ConfigError{Field: "Poly",
			Reason: fmt.Sprintf("%#x has taps at or above bit %d; the x^%d term is implied",
				c.Poly, c.Width, c.Width)}
	}
	if c.Poly&1 == 0 {
		return Config{}, &ConfigError{Field: "Poly",
			Reason: fmt.Sprintf("%#x must include the zeroth order term", c.Poly)}
	}
	if c.Extend && c.DataWidth > MaxWidth {
		return Config{}, &ConfigError{Field: "DataWidth",
			Reason: fmt.Sprintf("is %d; extend mode grows the state register to DataWidth, which must not exceed %d",
				c.DataWidth, MaxWidth)}
	}
	if c.Name != "" && !vlog.IsIdent(c.Name) {
		return Config{}, &ConfigError{Field: "Name",
			Reason: fmt.Sprintf("%q is not a valid Verilog identifier", c.Name)}
	}

	r := c
	if r.Bare {
		// a bare module has no register to load
		r.Load = false
	}
	m := mask(r.StateWidth())
	r.Init &= m
	r.XorOut &= m
	if r.Name == "" {
		r.Name = r.moduleName()
	}
	return r, nil
}

// moduleName derives the default module name from the parameters, e.g.
// "crc_32_8_0x4c11db7_rev".
func (c Config) moduleName() string {
	name := fmt.Sprintf("crc_%d_%d_0x%x", c.Width, c.DataWidth, c.Poly)
	if c.Topology == Fibonacci {
		name += "_fib"
	}
	if c.Load {
		name += "_load"
	}
	if c.Bare {
		name += "_bare"
	}
	switch {
	case c.ReflectIn && c.ReflectOut:
		name += "_rev"
	case c.ReflectIn:
		name += "_refin"
	case c.ReflectOut:
		name += "_refout"
	}
	return name
}

// mask returns a uint64 with the low n bits set. n must be 1 to 64.
func mask(n int) uint64 {
	return ^uint64(0) >> uint(64-n)
}
