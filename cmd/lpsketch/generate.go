package main

import (
	"math/rand"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/lpsketch/lpsketch-go/streamfile"
	"github.com/lpsketch/lpsketch-go/streamgen"
)

func newGenerateCmd() *cobra.Command {
	var (
		n          uint64
		numUpdates uint64
		zipfS      float64
		label      string
		out        string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic turnstile stream file",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogWriter()

			seed := int64(0)
			if label != "" {
				seed = int64(streamgen.SeedFromLabel(label))
			}
			rng := rand.New(rand.NewSource(seed))

			var updates []streamfile.Update
			if zipfS > 0 {
				freq, err := streamgen.GenerateZipfian(rng, n, zipfS, numUpdates)
				if err != nil {
					return err
				}
				for i, f := range freq {
					if f == 0 {
						continue
					}
					updates = append(updates, streamfile.Update{Index: uint64(i), Value: f})
				}
			} else {
				for _, u := range streamgen.GenerateUniform(rng, n, numUpdates) {
					updates = append(updates, streamfile.Update{Index: u.Index, Value: u.Delta})
				}
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()

			if err := streamfile.WriteHeader(f, n, uint64(len(updates))); err != nil {
				return err
			}
			if err := streamfile.WriteUpdates(f, updates); err != nil {
				return err
			}

			logger.Info().
				Str("file", out).
				Str("updates", humanize.Comma(int64(len(updates)))).
				Msg("generated stream")
			return nil
		},
	}

	cmd.Flags().Uint64Var(&n, "n", 1000, "length of the implicit frequency vector")
	cmd.Flags().Uint64Var(&numUpdates, "updates", 10000, "number of stream updates to generate")
	cmd.Flags().Float64Var(&zipfS, "zipf-s", 0, "Zipf exponent; 0 selects the uniform generator")
	cmd.Flags().StringVar(&label, "label", "", "label hashed into the PRNG seed for reproducibility")
	cmd.Flags().StringVar(&out, "out", "stream.txt", "output stream file path")
	return cmd
}
