// Copyright 2026 Alex Forencich <alex@alexforencich.com>
// Licensed under the MIT license. See license text in the LICENSE file.

/*
Package crcgen derives the unrolled parallel equations of a CRC shift
register and renders them as synthesizable Verilog.

A serial CRC circuit absorbs one input bit per clock. To absorb a whole
data word per clock instead, each bit of the next register state must be
expressed directly as a function of the current state and of the input
word. Over GF(2) that function is always a plain XOR of some subset of
those bits, so the package computes, for every state bit, exactly which
state and input bits belong to its XOR.

It does so by simulating the serial register symbolically: the register
starts out holding the symbols state[0..w-1] rather than values, each
simulation step folds in one symbolic input bit, and XOR cancellation
keeps every register slot reduced to a minimal set of symbols. After
DataWidth steps the register contents are the wanted equations.

The usual CRC parametrization is supported: width, polynomial, initial
value, output XOR mask and input/output bit reflection, plus a catalog of
standard parameter sets. Equations can be rendered as a complete Verilog
module or evaluated directly in Go, which is how the package verifies
itself against known CRC check values.

Basic usage:

	cfg := crcgen.Config{Width: 32, Poly: 0x04c11db7, DataWidth: 8,
		Init: 0xffffffff, XorOut: 0xffffffff,
		ReflectIn: true, ReflectOut: true}
	err := crcgen.Generate(os.Stdout, cfg)
*/
package crcgen
