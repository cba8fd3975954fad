package main

import (
	"context"
	"iter"
	"os"

	"github.com/spf13/cobra"

	"github.com/lpsketch/lpsketch-go/lpsample/boost"
	"github.com/lpsketch/lpsketch-go/streamfile"
	"github.com/lpsketch/lpsketch-go/streamlog"
)

func newSampleCmd() *cobra.Command {
	var (
		in      string
		p       int
		eps     float64
		delta   float64
		n       uint64
		seed    uint64
		logPath string
	)

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Draw one L_p sample from a stream file via the boosting harness",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogWriter()

			f, err := os.Open(in)
			if err != nil {
				return err
			}
			updates, err := streamfile.ReadAll(f)
			f.Close()
			if err != nil {
				return err
			}

			stream := func() iter.Seq[boost.Update] {
				return func(yield func(boost.Update) bool) {
					for _, u := range updates {
						if !yield(boost.Update{Index: u.Index, Delta: float64(u.Value)}) {
							return
						}
					}
				}
			}

			cfg := boost.Config{P: p, Eps: eps, Delta: delta, N: n, Seed: seed}
			out := os.Stdout
			if logPath != "" {
				lf, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
				if err != nil {
					return err
				}
				defer lf.Close()
				out = lf
			}
			slog := streamlog.New(out)

			idx, ok, err := boost.Run(context.Background(), cfg, stream)
			if err != nil {
				return err
			}
			if !ok {
				slog.Failed(cfg.NumSamplers())
				logger.Warn().Int("attempts", cfg.NumSamplers()).Msg("every sampler attempt failed")
				return nil
			}

			slog.Sampled(idx, cfg.NumSamplers())
			logger.Info().Uint64("index", idx).Msg("sampled coordinate")
			return nil
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "stream file to read (required)")
	cmd.Flags().IntVar(&p, "p", 2, "norm to sample by: 1 or 2")
	cmd.Flags().Float64Var(&eps, "eps", 0.1, "relative error")
	cmd.Flags().Float64Var(&delta, "delta", 0.05, "overall failure probability, drives the boosting harness's attempt count")
	cmd.Flags().Uint64Var(&n, "n", 1000, "length of the implicit frequency vector")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "base seed; each boosted attempt offsets from this")
	cmd.Flags().StringVar(&logPath, "log", "", "append the sample outcome to this file instead of writing it to stdout")
	cmd.MarkFlagRequired("in")
	return cmd
}
