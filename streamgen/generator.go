// Package streamgen is the external stream-generation collaborator
// named in spec.md §6: synthetic uniform turnstile updates and
// Zipfian-distributed frequency vectors, feeding the core sketches
// but not part of them.
package streamgen

import (
	"math/rand"

	"github.com/cespare/xxhash/v2"
)

// StreamMin and StreamMax bound the uniform turnstile update values,
// matching original_source's stream_generator.cpp.
const (
	StreamMin = -100
	StreamMax = 100
)

// Update is one (index, delta) turnstile stream entry.
type Update struct {
	Index uint64
	Delta int64
}

// SeedFromLabel derives a deterministic PRNG seed from a human-readable
// run label, so two invocations of the CLI tagged with the same label
// reproduce the same synthetic stream. Hashed with xxhash rather than
// used as a raw string seed so short, similar labels ("run-1", "run-2")
// don't produce correlated seeds.
func SeedFromLabel(label string) uint64 {
	return xxhash.Sum64String(label)
}

// GenerateUniform produces numUpdates uniform-random turnstile updates
// over indices in [0, n), with delta values in [StreamMin, StreamMax].
func GenerateUniform(rng *rand.Rand, n uint64, numUpdates uint64) []Update {
	updates := make([]Update, numUpdates)
	for i := range updates {
		updates[i] = Update{
			Index: uint64(rng.Int63n(int64(n))),
			Delta: int64(rng.Intn(StreamMax-StreamMin+1) + StreamMin),
		}
	}
	return updates
}

// GenerateZipfian draws numUpdates items from {0, ..., n-1} according
// to Zipf's law with exponent s, and returns the resulting frequency
// vector of length n.
func GenerateZipfian(rng *rand.Rand, n uint64, s float64, numUpdates uint64) ([]int64, error) {
	z, err := NewZipfian(int64(n), s)
	if err != nil {
		return nil, err
	}

	freq := make([]int64, n)
	for i := uint64(0); i < numUpdates; i++ {
		// Zipfian draws values in [1, n]; shift to the 0-indexed
		// coordinate space the rest of this repository uses.
		k := z.Sample(rng) - 1
		freq[k]++
	}
	return freq, nil
}
