// Package countsketch implements the Count-Sketch data structure: a
// d x w signed-count table decoded by median, giving unbiased
// per-coordinate frequency estimates over a turnstile stream.
package countsketch

import (
	"errors"

	"github.com/lpsketch/lpsketch-go/internal/quickselect"
	"github.com/lpsketch/lpsketch-go/kwisehash"
)

// ErrInvalidParameter is returned when w or d is non-positive.
var ErrInvalidParameter = errors.New("countsketch: invalid parameter")

// Number is the set of value types a Sketch's table can hold: integer
// counts for the classical Count-Sketch, or float64 for the
// real-valued variant LpSampler drives internally.
type Number interface {
	~int64 | ~float64
}

// Config carries the construction-time parameters named in the spec:
// width, depth, seed, and the use_murmur fast-path switch.
type Config struct {
	// W is the width of each row. Must be positive.
	W int
	// D is the depth (number of rows). Must be positive; an odd D
	// gives a well-defined median, an even D resolves to the lower
	// median.
	D int
	// Seed seeds both the index and sign hash families.
	Seed uint64
	// UseMurmur swaps the k-wise hash family for a murmur3 fast path,
	// trading the independence guarantee for throughput.
	UseMurmur bool
}

// Sketch is a d x w Count-Sketch table over values of type T.
//
// A Sketch is single-threaded: Update and Estimate on the same Sketch
// must not be called concurrently. Sketches are not safe to share or
// clone across goroutines in their mutating form.
type Sketch[T Number] struct {
	w, d      int
	useMurmur bool
	seed      uint64
	table     [][]T
	idxHash   []*kwisehash.Hash
	signHash  []*kwisehash.Hash
}

// New constructs a Count-Sketch with the given width, depth, and seed.
//
// Hashing uses two sequences of d independent 2-wise-independent hash
// functions, seeded from seed+2*i (index hashes) and seed+2*i+1 (sign
// hashes): an even/odd partition of the offsets, so the two sequences
// never intersect for any d.
func New[T Number](cfg Config) (*Sketch[T], error) {
	if cfg.W <= 0 || cfg.D <= 0 {
		return nil, ErrInvalidParameter
	}

	s := &Sketch[T]{
		w:         cfg.W,
		d:         cfg.D,
		useMurmur: cfg.UseMurmur,
		seed:      cfg.Seed,
		table:     make([][]T, cfg.D),
	}
	for i := range s.table {
		s.table[i] = make([]T, cfg.W)
	}

	if !cfg.UseMurmur {
		s.idxHash = make([]*kwisehash.Hash, cfg.D)
		s.signHash = make([]*kwisehash.Hash, cfg.D)
		for i := 0; i < cfg.D; i++ {
			idx, err := kwisehash.New(2, cfg.Seed+2*uint64(i))
			if err != nil {
				return nil, err
			}
			sign, err := kwisehash.New(2, cfg.Seed+2*uint64(i)+1)
			if err != nil {
				return nil, err
			}
			s.idxHash[i] = idx
			s.signHash[i] = sign
		}
	}
	return s, nil
}

// Width returns w, the number of columns per row.
func (s *Sketch[T]) Width() int { return s.w }

// Depth returns d, the number of rows.
func (s *Sketch[T]) Depth() int { return s.d }

func (s *Sketch[T]) bucket(row int, key uint64) int {
	if s.useMurmur {
		return int(kwisehash.MurmurHash64(key, s.seed+uint64(row)) % uint64(s.w))
	}
	return int(s.idxHash[row].Eval(key) % uint64(s.w))
}

func (s *Sketch[T]) sign(row int, key uint64) T {
	var h uint64
	if s.useMurmur {
		h = kwisehash.MurmurHash64(key, s.seed+uint64(row)+20)
	} else {
		h = s.signHash[row].Eval(key)
	}
	if h&1 == 1 {
		return -1
	}
	return 1
}

// Update applies delta to key: for each row i, table[i][h_i(key)] +=
// sign_i(key) * delta.
func (s *Sketch[T]) Update(key uint64, delta T) {
	for i := 0; i < s.d; i++ {
		c := s.bucket(i, key)
		s.table[i][c] += s.sign(i, key) * delta
	}
}

// Estimate returns the median of sign_i(key) * table[i][h_i(key)]
// across all rows. For even depth this is the lower median.
func (s *Sketch[T]) Estimate(key uint64) T {
	estimates := make([]T, s.d)
	for i := 0; i < s.d; i++ {
		c := s.bucket(i, key)
		estimates[i] = s.sign(i, key) * s.table[i][c]
	}
	pivot := (s.d - 1) / 2
	return quickselect.QuickSelect(estimates, 0, s.d-1, pivot)
}
