// Copyright 2026 Alex Forencich <alex@alexforencich.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package ucf annotates Xilinx UCF constraint files with pin information
// taken from package pinout tables.
//
// Pinout tables ship with the vendor tools in two shapes: comma separated
// and whitespace separated. Neither names its columns consistently across
// device families, so the reader detects the pin, bank and IO_ columns
// from the shape of the cells instead of from the header.
package ucf

import (
	"bufio"
	"encoding/csv"
	"io"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// A Pin is one entry of a package pinout table.
//
type Pin struct {
	Name string // package pin, e.g. "AB14"
	Bank string // bank number, as spelled in the table
	IO   string // IO designation, e.g. "IO_L24P_T3_34"
}

// A Pinout is a package pinout table indexed by pin name.
//
type Pinout struct {
	pins map[string]Pin
}

// Len returns the number of pins in the table.
//
func (p *Pinout) Len() int { return len(p.pins) }

// Lookup finds a pin by name, ignoring case.
//
func (p *Pinout) Lookup(name string) (Pin, bool) {
	pin, ok := p.pins[strings.ToLower(name)]
	return pin, ok
}

// cell shapes used for column detection. Both are prefix matches: pins on
// large packages run to three digits ("AB101") and still start like "AB10".
var (
	pinShape  = regexp.MustCompile(`^[a-zA-Z]{1,2}[0-9]{1,2}`)
	bankShape = regexp.MustCompile(`^[0-9]{1,2}`)
)

// ReadPackageFile parses a package pinout table from r. The first line is
// a header and decides the format: comma separated when it contains a
// comma, whitespace separated otherwise.
//
// Columns are detected from the first data row that carries an IO_
// designation: the IO_ cell fixes the IO column, and the last cell on that
// row shaped like a pin name ("A8") respectively like a bank number fixes
// the pin and bank columns. ioCol, when positive, restricts the IO column
// to that 1-based index, for tables that list IO designations of several
// dies. Rows whose cell count differs from the detected row are dropped;
// when a pin appears twice, the first row wins.
//
func ReadPackageFile(r io.Reader, ioCol int) (*Pinout, error) {
	br := bufio.NewReader(r)
	header, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "read header")
	}

	var rows [][]string
	if strings.Contains(header, ",") {
		rows, err = readCommaRows(br)
	} else {
		rows, err = readSpaceRows(br)
	}
	if err != nil {
		return nil, err
	}

	pin, bank, io, rowLen := detectColumns(rows, ioCol)
	if pin < 0 {
		return nil, errors.New("cannot determine pin column")
	}
	if bank < 0 {
		return nil, errors.New("cannot determine bank column")
	}
	if io < 0 {
		return nil, errors.New("cannot determine IO column")
	}

	p := &Pinout{pins: make(map[string]Pin)}
	for _, row := range rows {
		if len(row) != rowLen {
			continue
		}
		name := strings.ToLower(row[pin])
		if _, dup := p.pins[name]; dup {
			continue
		}
		p.pins[name] = Pin{Name: row[pin], Bank: row[bank], IO: row[io]}
	}
	return p, nil
}

// detectColumns scans rows in order until one contains an IO_ cell that
// passes the ioCol restriction. Pin and bank columns are detected on every
// row carrying an IO_ cell, so a row whose IO_ cell is filtered out still
// contributes them.
func detectColumns(rows [][]string, ioCol int) (pin, bank, io, rowLen int) {
	pin, bank, io = -1, -1, -1
	for _, row := range rows {
		hasIO := false
		for i, cell := range row {
			if !strings.Contains(cell, "IO_") {
				continue
			}
			hasIO = true
			if ioCol < 1 || ioCol-1 == i {
				io = i
			}
		}
		if !hasIO {
			continue
		}
		rowLen = len(row)
		for k, cell := range row {
			if pinShape.MatchString(cell) {
				pin = k
			}
			if bankShape.MatchString(cell) {
				bank = k
			}
		}
		if io >= 0 {
			return pin, bank, io, rowLen
		}
	}
	return pin, bank, io, rowLen
}

// readCommaRows reads the remaining CSV rows, trimming cells and dropping
// rows of fewer than two cells.
func readCommaRows(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, "read package file")
		}
		if len(rec) < 2 {
			continue
		}
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		rows = append(rows, rec)
	}
}

// readSpaceRows reads the remaining lines as whitespace separated rows,
// dropping rows of fewer than two cells.
func readSpaceRows(r io.Reader) ([][]string, error) {
	sc := bufio.NewScanner(r)
	var rows [][]string
	for sc.Scan() {
		row := strings.Fields(sc.Text())
		if len(row) < 2 {
			continue
		}
		rows = append(rows, row)
	}
	return rows, errors.Wrap(sc.Err(), "read package file")
}
