// Package vlog provides small helpers for emitting Verilog-2001 text.
package vlog

import "strconv"

// Literal renders v as a sized hexadecimal Verilog literal, e.g.
// Literal(32, 0xffffffff) is "32'hffffffff".
//
func Literal(width int, v uint64) string {
	return strconv.Itoa(width) + "'h" + strconv.FormatUint(v, 16)
}

// Verilog-2001 keywords that are likely to collide with a user-supplied
// module name. The full reserved list is much longer; these cover the
// plausible collisions.
var keywords = map[string]bool{
	"always": true, "assign": true, "begin": true, "buf": true,
	"case": true, "default": true, "defparam": true, "else": true,
	"end": true, "endcase": true, "endfunction": true, "endgenerate": true,
	"endmodule": true, "endtask": true, "for": true, "function": true,
	"generate": true, "genvar": true, "if": true, "initial": true,
	"inout": true, "input": true, "integer": true, "localparam": true,
	"module": true, "negedge": true, "output": true, "parameter": true,
	"posedge": true, "reg": true, "signed": true, "task": true,
	"wire": true, "while": true, "xor": true, "xnor": true,
}

// IsIdent reports whether s is usable as a simple Verilog-2001 identifier:
// a letter or underscore followed by letters, digits, underscores or
// dollar signs, and not a keyword.
//
func IsIdent(s string) bool {
	if s == "" || keywords[s] {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z':
		case i > 0 && ('0' <= r && r <= '9' || r == '$'):
		default:
			return false
		}
	}
	return true
}
