// Copyright 2026 Alex Forencich <alex@alexforencich.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package crcgen

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/pkg/errors"

	"github.com/alexforencich/fpga-utils/internal/vlog"
)

// Generate is the one-call front end: resolve cfg, derive the equations
// and write the complete Verilog module to w. Nothing is written on error.
//
func Generate(w io.Writer, cfg Config) error {
	eq, err := Unroll(cfg)
	if err != nil {
		return err
	}
	return eq.WriteVerilog(w)
}

// WriteVerilog renders the equations as a Verilog-2001 module on w. The
// module is rendered completely before the first byte is written, so a
// failed render emits nothing. Output depends only on the configuration,
// never on the environment, so repeated runs are byte identical.
//
func (e *Equations) WriteVerilog(w io.Writer) error {
	v, err := newModuleView(e)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := moduleTmpl.Execute(&buf, v); err != nil {
		return errors.Wrap(err, "render module")
	}
	_, err = w.Write(buf.Bytes())
	return errors.Wrap(err, "write module")
}

// moduleView carries everything the Verilog template interpolates. All
// values are prerendered strings or plain ints; the template is layout
// only.
type moduleView struct {
	Name       string
	Width      int
	StateWidth int
	DataWidth  int
	WidthHi    int
	StateHi    int
	DataHi     int

	ShowState  bool // state register wider than the CRC
	Bare       bool
	Load       bool
	Extend     bool
	ReflectIn  bool
	ReflectOut bool
	HasXorOut  bool
	Topology   string

	PolyLit   string
	InitLit   string
	XorOutLit string
	PolyStr   string
	CheckLit  string // empty when no catalog check value applies
	CmdLine   string

	Next []string // one assign expression per next-state bit
	Out  []string // one assign expression per output bit
}

func newModuleView(e *Equations) (*moduleView, error) {
	c := e.Config
	sw := c.StateWidth()
	v := &moduleView{
		Name:       c.Name,
		Width:      c.Width,
		StateWidth: sw,
		DataWidth:  c.DataWidth,
		WidthHi:    c.Width - 1,
		StateHi:    sw - 1,
		DataHi:     c.DataWidth - 1,
		ShowState:  sw != c.Width,
		Bare:       c.Bare,
		Load:       c.Load,
		Extend:     c.Extend,
		ReflectIn:  c.ReflectIn,
		ReflectOut: c.ReflectOut,
		HasXorOut:  c.XorOut != 0,
		Topology:   c.Topology.String(),
		PolyLit:    vlog.Literal(c.Width, c.Poly),
		InitLit:    vlog.Literal(sw, c.Init),
		XorOutLit:  vlog.Literal(sw, c.XorOut),
		PolyStr:    polyString(c.Width, c.Poly),
		CmdLine:    c.cmdLine(),
	}
	if c.Topology == Galois {
		chk, err := CheckValue(c)
		if err != nil {
			return nil, err
		}
		v.CheckLit = vlog.Literal(c.Width, chk)
	}
	v.Next = make([]string, len(e.Next))
	for i, t := range e.Next {
		v.Next[i] = exprString(t, "crc_state", "data_in")
	}
	v.Out = make([]string, len(e.Out))
	if c.Bare {
		// look-ahead output over the input state and data word
		for i, t := range e.Out {
			v.Out[i] = exprString(t, "crc_state", "data_in")
		}
	} else {
		// registered output: remap and invert bits of crc_state
		for i := range v.Out {
			src := i
			if c.ReflectOut {
				src = sw - 1 - i
			}
			inv := ""
			if c.XorOut>>uint(i)&1 != 0 {
				inv = "~"
			}
			v.Out[i] = fmt.Sprintf("%scrc_state[%d]", inv, src)
		}
	}
	return v, nil
}

// exprString renders t as a Verilog expression over the given state and
// data signal names. Constants render as sized 1-bit literals.
func exprString(t XorTerm, stateSig, dataSig string) string {
	if len(t.Symbols) == 0 {
		if t.Invert {
			return "1'b1"
		}
		return "1'b0"
	}
	var b strings.Builder
	if t.Invert {
		if len(t.Symbols) == 1 {
			b.WriteByte('~')
		} else {
			b.WriteString("~(")
		}
	}
	for i, s := range t.Symbols {
		if i > 0 {
			b.WriteString(" ^ ")
		}
		if s.Kind == StateBit {
			b.WriteString(stateSig)
		} else {
			b.WriteString(dataSig)
		}
		fmt.Fprintf(&b, "[%d]", s.Index)
	}
	if t.Invert && len(t.Symbols) > 1 {
		b.WriteByte(')')
	}
	return b.String()
}

// polyString renders the polynomial in algebraic form with the implied
// x^Width and x^0 terms, e.g. "x^16 + x^15 + x^2 + 1" for 0x8005.
func polyString(width int, poly uint64) string {
	s := "1"
	for i := 1; i < width; i++ {
		if poly>>uint(i)&1 != 0 {
			if i > 1 {
				s = fmt.Sprintf("x^%d + %s", i, s)
			} else {
				s = "x + " + s
			}
		}
	}
	return fmt.Sprintf("x^%d + %s", width, s)
}

// cmdLine reconstructs the canonical crcgen invocation for the header
// comment. It is derived from the resolved configuration rather than the
// actual command line, so that library use and CLI use emit identical
// files.
func (c Config) cmdLine() string {
	var b strings.Builder
	fmt.Fprintf(&b, "crcgen -w %d -d %d -p 0x%x -i 0x%x", c.Width, c.DataWidth, c.Poly, c.Init)
	if c.XorOut != 0 {
		fmt.Fprintf(&b, " -x 0x%x", c.XorOut)
	}
	if c.Topology == Fibonacci {
		b.WriteString(" -c fibonacci")
	}
	switch {
	case c.ReflectIn && c.ReflectOut:
		b.WriteString(" -r")
	case c.ReflectIn:
		b.WriteString(" --reflect-in")
	case c.ReflectOut:
		b.WriteString(" --reflect-out")
	}
	if c.Load {
		b.WriteString(" -l")
	}
	if c.Bare {
		b.WriteString(" -b")
	}
	if c.Extend {
		b.WriteString(" -e")
	}
	if c.Name != c.moduleName() {
		b.WriteString(" -n " + c.Name)
	}
	return b.String()
}

var moduleTmpl = template.Must(template.New("module").Parse(moduleText))

const moduleText = `/*

Copyright (c) 2014-2026 Alex Forencich

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.

*/

// Language: Verilog 2001

` + "`timescale 1ns / 1ps" + `

/*
 * CRC module {{.Name}}
 *
 * CRC width:      {{.Width}}
{{- if .ShowState}}
 * State width:    {{.StateWidth}}
{{- end}}
 * Data width:     {{.DataWidth}}
{{- if not .Bare}}
 * Initial value:  {{.InitLit}}
{{- end}}
{{- if .HasXorOut}}
 * Output XOR:     {{.XorOutLit}}
{{- end}}
 * CRC polynomial: {{.PolyLit}}
 * Configuration:  {{.Topology}}
{{- if .Extend}}
 * Extend state:   yes
{{- end}}
{{- if .ReflectIn}}
 * Reflect input:  yes
{{- end}}
{{- if .ReflectOut}}
 * Reflect output: yes
{{- end}}
{{- if .CheckLit}}
 * Check value:    {{.CheckLit}}
{{- end}}
 *
 * {{.PolyStr}}
 *
 * Generated by crcgen
 *
 * {{.CmdLine}}
 *
 */
module {{.Name}}
(
{{- if .Bare}}
    input  wire [{{.DataHi}}:0] data_in,
    input  wire [{{.WidthHi}}:0] crc_state,
    output wire [{{.StateHi}}:0] crc_next,
    output wire [{{.StateHi}}:0] crc_out
{{- else}}
    input  wire clk,
    input  wire rst,

    input  wire [{{.DataHi}}:0] data_in,
    input  wire data_in_valid,
    input  wire crc_init,
{{- if .Load}}
    input  wire crc_load,
    input  wire [{{.WidthHi}}:0] crc_in,
{{- end}}
    output wire [{{.StateHi}}:0] crc_out
{{- end}}
);
{{if not .Bare}}
reg [{{.StateHi}}:0] crc_state;
wire [{{.StateHi}}:0] crc_next;
{{end}}
{{- range $i, $e := .Next}}
assign crc_next[{{$i}}] = {{$e}};
{{- end}}
{{range $i, $e := .Out}}
assign crc_out[{{$i}}] = {{$e}};
{{- end}}

{{if not .Bare -}}
always @(posedge clk) begin
    if (rst) begin
        crc_state <= {{.InitLit}};
    end else if (crc_init) begin
        crc_state <= {{.InitLit}};
{{- if .Load}}
    end else if (crc_load) begin
        crc_state <= crc_in;
{{- end}}
    end else if (data_in_valid) begin
        crc_state <= crc_next;
    end
end

{{end -}}
endmodule
`
