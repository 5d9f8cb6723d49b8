// Copyright 2026 Alex Forencich <alex@alexforencich.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command crcgen generates combinatorial LFSR/CRC logic in Verilog.
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/alexforencich/fpga-utils/crcgen"
)

var opts struct {
	width      int
	dataWidth  int
	poly       string
	init       string
	xorOut     string
	topology   string
	reflectIn  bool
	reflectOut bool
	reverse    bool
	load       bool
	bare       bool
	extend     bool
	name       string
	output     string
	preset     string
	presetFile string
	list       bool
}

var rootCmd = &cobra.Command{
	Use:           "crcgen",
	Short:         "Generate combinatorial LFSR/CRC logic in Verilog",
	Args:          cobra.NoArgs,
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	f := rootCmd.Flags()
	f.IntVarP(&opts.width, "width", "w", 32, "width of CRC")
	f.IntVarP(&opts.dataWidth, "datawidth", "d", 8, "width of input data bus")
	f.StringVarP(&opts.poly, "poly", "p", "0x04c11db7", "CRC polynomial")
	f.StringVarP(&opts.init, "init", "i", "-1", "CRC initial state")
	f.StringVarP(&opts.xorOut, "xorout", "x", "0", "CRC output XOR mask")
	f.StringVarP(&opts.topology, "config", "c", "galois", "LFSR configuration (galois or fibonacci)")
	f.BoolVar(&opts.reflectIn, "reflect-in", false, "bit-reverse the data input")
	f.BoolVar(&opts.reflectOut, "reflect-out", false, "bit-reverse the CRC output")
	f.BoolVarP(&opts.reverse, "reverse", "r", false, "bit-reverse input and output")
	f.BoolVarP(&opts.load, "load", "l", false, "include load logic")
	f.BoolVarP(&opts.bare, "bare", "b", false, "only generate combinatorial logic")
	f.BoolVarP(&opts.extend, "extend", "e", false, "extend state width to data width")
	f.StringVarP(&opts.name, "name", "n", "", "module name")
	f.StringVarP(&opts.output, "output", "o", "", "output file name, - for stdout")
	f.StringVar(&opts.preset, "preset", "", "start from a named CRC parameter set")
	f.StringVar(&opts.presetFile, "preset-file", "", "TOML file with extra parameter sets")
	f.BoolVar(&opts.list, "list-presets", false, "list known parameter sets and exit")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	presets := crcgen.Presets
	if opts.presetFile != "" {
		extra, err := crcgen.LoadPresets(opts.presetFile)
		if err != nil {
			return err
		}
		merged := make(map[string]crcgen.Preset, len(presets)+len(extra))
		for k, p := range presets {
			merged[k] = p
		}
		for k, p := range extra {
			merged[k] = p
		}
		presets = merged
	}

	if opts.list {
		listPresets(presets)
		return nil
	}

	cfg, err := buildConfig(cmd, presets)
	if err != nil {
		return err
	}
	eq, err := crcgen.Unroll(cfg)
	if err != nil {
		return err
	}

	out := opts.output
	if out == "" {
		out = eq.Config.Name + ".v"
	}

	log.Infof("Generating CRC module %s", eq.Config.Name)

	if out == "-" {
		if err := eq.WriteVerilog(os.Stdout); err != nil {
			return err
		}
		log.Info("Done")
		return nil
	}
	log.Infof("Opening file '%s'", out)
	fh, err := os.Create(out)
	if err != nil {
		return errors.Wrap(err, "open output")
	}
	if err := eq.WriteVerilog(fh); err != nil {
		fh.Close()
		return err
	}
	if err := fh.Close(); err != nil {
		return errors.Wrap(err, "close output")
	}
	log.Info("Done")
	return nil
}

// buildConfig assembles the generation parameters: a preset when named,
// the plain flag values otherwise, with explicitly set flags overriding
// preset values either way.
func buildConfig(cmd *cobra.Command, presets map[string]crcgen.Preset) (crcgen.Config, error) {
	f := cmd.Flags()
	fromPreset := opts.preset != ""

	var cfg crcgen.Config
	if fromPreset {
		p, ok := crcgen.FindPreset(presets, opts.preset)
		if !ok {
			return crcgen.Config{}, errors.Errorf("unknown preset %q", opts.preset)
		}
		cfg = p.Config()
		if f.Changed("width") {
			cfg.Width = opts.width
		}
	} else {
		cfg.Width = opts.width
	}
	if !fromPreset || f.Changed("datawidth") {
		cfg.DataWidth = opts.dataWidth
	}

	var err error
	if !fromPreset || f.Changed("poly") {
		if cfg.Poly, err = crcgen.ParseWord(opts.poly); err != nil {
			return crcgen.Config{}, errors.Wrap(err, "invalid poly")
		}
	}
	if !fromPreset || f.Changed("init") {
		if cfg.Init, err = crcgen.ParseWord(opts.init); err != nil {
			return crcgen.Config{}, errors.Wrap(err, "invalid init")
		}
	}
	if !fromPreset || f.Changed("xorout") {
		if cfg.XorOut, err = crcgen.ParseWord(opts.xorOut); err != nil {
			return crcgen.Config{}, errors.Wrap(err, "invalid xorout")
		}
	}
	if cfg.Topology, err = crcgen.ParseTopology(opts.topology); err != nil {
		return crcgen.Config{}, err
	}

	if f.Changed("reflect-in") {
		cfg.ReflectIn = opts.reflectIn
	}
	if f.Changed("reflect-out") {
		cfg.ReflectOut = opts.reflectOut
	}
	if opts.reverse {
		cfg.ReflectIn = true
		cfg.ReflectOut = true
	}
	cfg.Load = opts.load
	cfg.Bare = opts.bare
	cfg.Extend = opts.extend
	cfg.Name = opts.name
	return cfg, nil
}

func listPresets(presets map[string]crcgen.Preset) {
	names := make([]string, 0, len(presets))
	for k := range presets {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, n := range names {
		p := presets[n]
		fmt.Printf("%-13s -w %-2d -p 0x%x -i 0x%x -x 0x%x", n, p.Width, p.Poly, p.Init, p.XorOut)
		switch {
		case p.ReflectIn && p.ReflectOut:
			fmt.Print(" -r")
		case p.ReflectIn:
			fmt.Print(" --reflect-in")
		case p.ReflectOut:
			fmt.Print(" --reflect-out")
		}
		fmt.Println()
	}
}
