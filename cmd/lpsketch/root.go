// Package main is the lpsketch CLI: a thin cobra front end wiring
// streamgen/streamfile/streamlog around the countsketch, fpnorm, and
// lpsample packages, standing in for the original's per-algorithm demo
// executables (execs/countsketch.cpp, execs/fpestimate.cpp,
// execs/stream_generator.cpp).
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var verbose bool

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lpsketch",
		Short:         "Sublinear-space sketches over a turnstile stream",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "human-readable console logging instead of JSON")

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newEstimateCmd())
	root.AddCommand(newSampleCmd())
	return root
}

func newLogWriter() zerolog.Logger {
	if verbose {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
