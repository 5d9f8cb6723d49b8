// Copyright 2026 Alex Forencich <alex@alexforencich.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command ucf-insert-io inserts IO pin information into UCF files.
package main

import (
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/alexforencich/fpga-utils/ucf"
)

var opts struct {
	pkg    string
	ioCol  int
	output string
}

var rootCmd = &cobra.Command{
	Use:           "ucf-insert-io [flags] input.ucf",
	Short:         "Insert IO pin information into UCF files",
	Args:          cobra.ExactArgs(1),
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&opts.pkg, "pkg", "p", "", "Xilinx package file")
	f.IntVar(&opts.ioCol, "ioc", 0, "IO name column (for multi-part CSV)")
	f.StringVarP(&opts.output, "output", "o", "", "output file name")
	rootCmd.MarkFlagRequired("pkg")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	input := args[0]
	output := opts.output
	if output == "" {
		output = input + ".out"
	}

	log.Info("Reading package file")
	pf, err := os.Open(opts.pkg)
	if err != nil {
		return errors.Wrap(err, "open package file")
	}
	pins, err := ucf.ReadPackageFile(pf, opts.ioCol)
	pf.Close()
	if err != nil {
		return err
	}
	log.Infof("Loaded %d pins", pins.Len())

	log.Info("Processing UCF file")
	in, err := os.Open(input)
	if err != nil {
		return errors.Wrap(err, "open input")
	}
	defer in.Close()
	out, err := os.Create(output)
	if err != nil {
		return errors.Wrap(err, "open output")
	}
	if err := pins.Annotate(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return errors.Wrap(err, "close output")
	}
	log.Infof("Wrote output file %s", output)
	log.Info("Done")
	return nil
}
