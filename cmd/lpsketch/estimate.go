package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/lpsketch/lpsketch-go/countsketch"
	"github.com/lpsketch/lpsketch-go/fpnorm"
	"github.com/lpsketch/lpsketch-go/streamfile"
	"github.com/lpsketch/lpsketch-go/streamlog"
)

func newEstimateCmd() *cobra.Command {
	var (
		in        string
		p         int
		eps       float64
		delta     float64
		width     int
		depth     int
		seed      uint64
		useMurmur bool
		key       int64
	)

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate a p-norm, or a single coordinate, from a stream file",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogWriter()

			f, err := os.Open(in)
			if err != nil {
				return err
			}
			defer f.Close()

			updates, err := streamfile.ReadAll(f)
			if err != nil {
				return err
			}

			slog := streamlog.New(os.Stdout)

			if key >= 0 {
				cs, err := countsketch.New[float64](countsketch.Config{W: width, D: depth, Seed: seed, UseMurmur: useMurmur})
				if err != nil {
					return err
				}
				for _, u := range updates {
					cs.Update(u.Index, float64(u.Value))
				}
				est := cs.Estimate(uint64(key))
				slog.Estimate(fmt.Sprintf("coordinate[%d]", key), est)
				logger.Info().Float64("estimate", est).Msg("coordinate estimate")
				return nil
			}

			var estimator fpnorm.Estimator
			switch p {
			case 1:
				estimator, err = fpnorm.NewF1(eps, delta, seed)
			case 2:
				estimator, err = fpnorm.NewF2(eps, delta, seed, useMurmur)
			default:
				return fmt.Errorf("lpsketch: p must be 1 or 2, got %d", p)
			}
			if err != nil {
				return err
			}

			for _, u := range updates {
				estimator.Update(u.Index, float64(u.Value))
			}
			norm := estimator.EstimateNorm()

			slog.Estimate(fmt.Sprintf("f%d", p), norm)
			logger.Info().
				Str("updates", humanize.Comma(int64(len(updates)))).
				Float64("norm", norm).
				Msg("norm estimate")
			return nil
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "stream file to read (required)")
	cmd.Flags().IntVar(&p, "p", 2, "norm to estimate: 1 or 2")
	cmd.Flags().Float64Var(&eps, "eps", 0.1, "relative error")
	cmd.Flags().Float64Var(&delta, "delta", 0.05, "failure probability")
	cmd.Flags().IntVar(&width, "width", 256, "Count-Sketch width, used only with --key")
	cmd.Flags().IntVar(&depth, "depth", 7, "Count-Sketch depth, used only with --key")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "hash family seed")
	cmd.Flags().BoolVar(&useMurmur, "use-murmur", false, "use the murmur3 fast-path hash instead of k-wise independent hashing")
	cmd.Flags().Int64Var(&key, "key", -1, "estimate a single coordinate's frequency via Count-Sketch instead of a p-norm")
	cmd.MarkFlagRequired("in")
	return cmd
}
