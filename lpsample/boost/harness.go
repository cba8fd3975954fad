// Package boost implements the parallel boosting harness of spec.md
// §4.6: it races N = Theta(eps^-1 * ln(delta^-1)) independent LpSampler
// instances across a bounded worker pool and reports the first
// coordinate any of them produces.
package boost

import (
	"context"
	"iter"
	"math"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/lpsketch/lpsketch-go/lpsample"
)

// Update is one turnstile stream entry (index, delta).
type Update struct {
	Index uint64
	Delta float64
}

// Stream is a replayable source of updates: every call must yield the
// same full update sequence, since each independent sampler attempt
// needs to see the complete stream from the start.
type Stream func() iter.Seq[Update]

// Config carries the LpSampler construction parameters plus the
// boosting constant.
type Config struct {
	P     int
	Eps   float64
	Delta float64
	N     uint64
	Seed  uint64
	// Const is the constant c in N = ceil(c/eps * ln(1/delta)). Zero
	// defaults to 4, matching spec.md §8 scenario 4's
	// N ~= 4 * 16 * ln(10) ~= 148.
	Const float64
}

// NumSamplers returns N, the number of independent sampler attempts
// the harness will race.
func (c Config) NumSamplers() int {
	cst := c.Const
	if cst == 0 {
		cst = 4
	}
	n := math.Ceil(cst / c.Eps * math.Log(1/c.Delta))
	if n < 1 {
		n = 1
	}
	return int(n)
}

// Run races NumSamplers() independent LpSampler instances, each fed
// the full stream, across W = min(N, GOMAXPROCS(0)) worker
// goroutines. Cancellation is cooperative: workers only check for a
// published result between sampler attempts, never mid-sampler, so an
// in-flight sampler always finishes its current instance. The first
// worker to obtain a coordinate publishes it via a CAS on an atomic
// flag; all others discard their own result if they finish after.
//
// Run returns the published coordinate and true on success, or
// (0, false, nil) if every attempt failed -- an expected outcome, not
// an error. A non-nil error means a sampler failed to construct, which
// only happens if cfg carries invalid parameters.
func Run(ctx context.Context, cfg Config, stream Stream) (uint64, bool, error) {
	n := cfg.NumSamplers()
	w := runtime.GOMAXPROCS(0)
	if w > n {
		w = n
	}
	if w < 1 {
		w = 1
	}

	var found atomic.Bool
	var result atomic.Uint64

	g, gctx := errgroup.WithContext(ctx)
	for worker := 0; worker < w; worker++ {
		worker := worker
		g.Go(func() error {
			// Round-robin partition: worker picks up attempt indices
			// worker, worker+w, worker+2w, ... This balances load across
			// workers better than a contiguous block when some attempts
			// (e.g. ones that fail fast) are cheaper than others.
			for s := worker; s < n; s += w {
				select {
				case <-gctx.Done():
					return nil
				default:
				}
				if found.Load() {
					return nil
				}

				sampler, err := lpsample.New(lpsample.Config{
					P:     cfg.P,
					Eps:   cfg.Eps,
					Delta: cfg.Delta,
					N:     cfg.N,
					Seed:  cfg.Seed + uint64(s),
				})
				if err != nil {
					return err
				}
				for u := range stream() {
					sampler.Update(u.Index, u.Delta)
				}

				idx, ok := sampler.Sample()
				if !ok {
					continue
				}
				if found.CompareAndSwap(false, true) {
					result.Store(idx)
				}
				return nil
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, false, err
	}
	if !found.Load() {
		return 0, false, nil
	}
	return result.Load(), true, nil
}
