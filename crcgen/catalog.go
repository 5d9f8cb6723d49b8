// Copyright 2026 Alex Forencich <alex@alexforencich.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package crcgen

import (
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// A Preset names a standard CRC parameter set: everything that defines the
// CRC algorithm, none of the module shape options.
//
type Preset struct {
	Width      int
	Poly       uint64
	Init       uint64
	XorOut     uint64
	ReflectIn  bool
	ReflectOut bool
}

// Config returns a full-module, byte-wide Config for p. Callers adjust
// DataWidth and the module shape flags afterwards.
//
func (p Preset) Config() Config {
	return Config{
		Width:      p.Width,
		Poly:       p.Poly,
		DataWidth:  8,
		Init:       p.Init,
		XorOut:     p.XorOut,
		ReflectIn:  p.ReflectIn,
		ReflectOut: p.ReflectOut,
	}
}

// Presets is the built-in catalog of common CRC parameter sets. Keys are
// the canonical names accepted by LookupPreset.
//
var Presets = map[string]Preset{
	"crc5-usb":     {Width: 5, Poly: 0x05, Init: 0x1f, XorOut: 0x1f, ReflectIn: true, ReflectOut: true},
	"crc7-mmc":     {Width: 7, Poly: 0x09},
	"crc8":         {Width: 8, Poly: 0x07},
	"crc8-maxim":   {Width: 8, Poly: 0x31, ReflectIn: true, ReflectOut: true},
	"crc16-arc":    {Width: 16, Poly: 0x8005, ReflectIn: true, ReflectOut: true},
	"crc16-usb":    {Width: 16, Poly: 0x8005, Init: 0xffff, XorOut: 0xffff, ReflectIn: true, ReflectOut: true},
	"crc16-ccitt":  {Width: 16, Poly: 0x1021, Init: 0xffff},
	"crc16-kermit": {Width: 16, Poly: 0x1021, ReflectIn: true, ReflectOut: true},
	"crc16-xmodem": {Width: 16, Poly: 0x1021},
	"crc32":        {Width: 32, Poly: 0x04c11db7, Init: 0xffffffff, XorOut: 0xffffffff, ReflectIn: true, ReflectOut: true},
	"crc32-bzip2":  {Width: 32, Poly: 0x04c11db7, Init: 0xffffffff, XorOut: 0xffffffff},
	"crc32-mpeg2":  {Width: 32, Poly: 0x04c11db7, Init: 0xffffffff},
	"crc32c":       {Width: 32, Poly: 0x1edc6f41, Init: 0xffffffff, XorOut: 0xffffffff, ReflectIn: true, ReflectOut: true},
	"crc64-ecma":   {Width: 64, Poly: 0x42f0e1eba9ea3693},
	"crc64-xz":     {Width: 64, Poly: 0x42f0e1eba9ea3693, Init: 0xffffffffffffffff, XorOut: 0xffffffffffffffff, ReflectIn: true, ReflectOut: true},
	"crc64-iso":    {Width: 64, Poly: 0x1b, Init: 0xffffffffffffffff, XorOut: 0xffffffffffffffff, ReflectIn: true, ReflectOut: true},
}

// LookupPreset finds a built-in preset by name. Matching ignores case and
// the separators '-', '_', '/' and ' ', so "CRC-16/CCITT" finds
// "crc16-ccitt".
//
func LookupPreset(name string) (Preset, bool) {
	return FindPreset(Presets, name)
}

// FindPreset finds a preset by name in an arbitrary catalog, typically
// the built-in Presets merged with a loaded preset file. Name matching is
// that of LookupPreset.
//
func FindPreset(presets map[string]Preset, name string) (Preset, bool) {
	want := foldPresetName(name)
	for k, p := range presets {
		if foldPresetName(k) == want {
			return p, true
		}
	}
	return Preset{}, false
}

func foldPresetName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch r {
		case '-', '_', '/', ' ':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// presetSpec is the TOML schema of one preset in a preset file. The
// numeric fields are strings so that 64-bit masks remain expressible
// beyond TOML's int64 range; they take any form ParseWord accepts.
//
//	[crc32-custom]
//	width = 32
//	poly = "0x04c11db7"
//	init = "-1"
//	xorout = "0xffffffff"
//	reflect-in = true
//	reflect-out = true
type presetSpec struct {
	Width      int    `toml:"width"`
	Poly       string `toml:"poly"`
	Init       string `toml:"init"`
	XorOut     string `toml:"xorout"`
	ReflectIn  bool   `toml:"reflect-in"`
	ReflectOut bool   `toml:"reflect-out"`
}

func (ps presetSpec) preset() (Preset, error) {
	p := Preset{Width: ps.Width, ReflectIn: ps.ReflectIn, ReflectOut: ps.ReflectOut}
	var err error
	if p.Poly, err = ParseWord(ps.Poly); err != nil {
		return Preset{}, errors.Wrap(err, "poly")
	}
	if p.Init, err = ParseWord(ps.Init); err != nil {
		return Preset{}, errors.Wrap(err, "init")
	}
	if p.XorOut, err = ParseWord(ps.XorOut); err != nil {
		return Preset{}, errors.Wrap(err, "xorout")
	}
	return p, nil
}

// LoadPresets reads additional presets from a TOML file holding one table
// per preset. Keys that match no presetSpec field are rejected, so typos
// in a preset file fail loudly instead of silently dropping a parameter.
//
func LoadPresets(path string) (map[string]Preset, error) {
	var raw map[string]presetSpec
	md, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, errors.Wrap(err, "read preset file")
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return nil, errors.Errorf("preset file %s: unknown key %q", path, undec[0].String())
	}
	out := make(map[string]Preset, len(raw))
	for name, ps := range raw {
		p, err := ps.preset()
		if err != nil {
			return nil, errors.Wrapf(err, "preset %q", name)
		}
		out[name] = p
	}
	return out, nil
}
