package fpnorm

import (
	"math"

	"github.com/lpsketch/lpsketch-go/kwisehash"
)

// F2 is a single-row AMS sketch estimating ||f||_2. It is additive:
// two F2 sketches built with identical width and seed can be
// subtracted entrywise with Subtract.
type F2 struct {
	w         int
	seed      uint64
	useMurmur bool
	table     []float64
	idxHash   *kwisehash.Hash
	signHash  *kwisehash.Hash
}

// NewF2 constructs an F2 sketch of width ceil(6 / (eps^2 * delta)).
func NewF2(eps, delta float64, seed uint64, useMurmur bool) (*F2, error) {
	if eps <= 0 || eps >= 1 || delta <= 0 || delta >= 1 {
		return nil, ErrInvalidParameter
	}
	w := int(math.Ceil(6 / (eps * eps * delta)))
	if w < 1 {
		w = 1
	}

	f := &F2{
		w:         w,
		seed:      seed,
		useMurmur: useMurmur,
		table:     make([]float64, w),
	}
	if !useMurmur {
		idx, err := kwisehash.New(2, seed)
		if err != nil {
			return nil, err
		}
		sign, err := kwisehash.New(2, seed+20)
		if err != nil {
			return nil, err
		}
		f.idxHash = idx
		f.signHash = sign
	}
	return f, nil
}

// Width returns the row width w_2.
func (f *F2) Width() int { return f.w }

// Seed returns the seed F2 was constructed with, used by Subtract to
// check compatibility.
func (f *F2) Seed() uint64 { return f.seed }

func (f *F2) bucket(key uint64) int {
	if f.useMurmur {
		return int(kwisehash.MurmurHash64(key, f.seed) % uint64(f.w))
	}
	return int(f.idxHash.Eval(key) % uint64(f.w))
}

func (f *F2) sign(key uint64) float64 {
	var h uint64
	if f.useMurmur {
		h = kwisehash.MurmurHash64(key, f.seed+20)
	} else {
		h = f.signHash.Eval(key)
	}
	if h&1 == 1 {
		return -1
	}
	return 1
}

// Update applies delta to key: table[h(key)] += sign(key) * delta.
func (f *F2) Update(key uint64, delta float64) {
	idx := f.bucket(key)
	f.table[idx] += f.sign(key) * delta
}

// EstimateNorm returns sqrt(sum(table[j]^2)), the F2 sketch's estimate
// of ||f||_2.
func (f *F2) EstimateNorm() float64 {
	var sumSq float64
	for _, v := range f.table {
		sumSq += v * v
	}
	return math.Sqrt(sumSq)
}

// Subtract performs table -= other.table entrywise. Both sketches must
// share width and seed; callers are responsible for seed compatibility
// in the broader sense (this only checks the structural precondition).
func (f *F2) Subtract(other *F2) error {
	if f.w != other.w || f.seed != other.seed {
		return ErrContractViolation
	}
	for i := range f.table {
		f.table[i] -= other.table[i]
	}
	return nil
}
