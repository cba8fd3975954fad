package fpnorm

import (
	"cmp"
	"math"

	"github.com/lpsketch/lpsketch-go/internal/quickselect"
	"github.com/lpsketch/lpsketch-go/kwisehash"
)

// F1 is an Indyk-style median-of-Cauchy sketch estimating ||f||_1.
// Each column j holds a dense linear projection of the frequency
// vector against a pseudo-Cauchy sequence C_j, keyed off a
// deterministic per-column seed so C_j(key) is a pure function of
// (column, key) and can be reevaluated identically at update and
// estimate time.
type F1 struct {
	w      int
	kc     int
	column []*kwisehash.Hash
	table  []float64
}

// NewF1 constructs an F1 sketch of width next-odd(ceil(3 * eps^-2 *
// ln(1/delta))), with per-column Cauchy generators of degree
// ceil(eps^-1 * (-ln eps)^3), all seeded deterministically off seed.
func NewF1(eps, delta float64, seed uint64) (*F1, error) {
	if eps <= 0 || eps >= 1 || delta <= 0 || delta >= 1 {
		return nil, ErrInvalidParameter
	}

	w := int(math.Ceil(3 / (eps * eps) * math.Log(1/delta)))
	if w < 1 {
		w = 1
	}
	if w%2 == 0 {
		w++
	}

	negLnEps := -math.Log(eps)
	kc := int(math.Ceil((1 / eps) * negLnEps * negLnEps * negLnEps))
	if kc < 1 {
		kc = 1
	}

	meta, err := kwisehash.New(2, seed)
	if err != nil {
		return nil, err
	}

	f := &F1{
		w:      w,
		kc:     kc,
		column: make([]*kwisehash.Hash, w),
		table:  make([]float64, w),
	}
	for j := 0; j < w; j++ {
		nonce := meta.Eval(uint64(j))
		col, err := kwisehash.New(kc, nonce)
		if err != nil {
			return nil, err
		}
		f.column[j] = col
	}
	return f, nil
}

// Width returns w_1, the number of Cauchy columns.
func (f *F1) Width() int { return f.w }

// cauchy evaluates C_j(key): map key to u in [0,1) via the column's
// k-wise hash, then tan((u - 0.5) * pi), the inverse CDF of the
// standard Cauchy distribution at a pseudo-uniform point.
func (f *F1) cauchy(j int, key uint64) float64 {
	h := f.column[j]
	u := float64(h.Eval(key)) / float64(h.Modulus())
	theta := (u - 0.5) * math.Pi
	return math.Tan(theta)
}

// Update applies delta to key across every column: table[j] += delta *
// C_j(key).
func (f *F1) Update(key uint64, delta float64) {
	for j := 0; j < f.w; j++ {
		f.table[j] += delta * f.cauchy(j, key)
	}
}

// EstimateNorm returns the median of |table[j]| across all columns,
// the F1 sketch's estimate of ||f||_1. Selection partitions by
// absolute value directly via QuickSelectFunc rather than building a
// separate abs-mapped slice first.
func (f *F1) EstimateNorm() float64 {
	cols := make([]float64, f.w)
	copy(cols, f.table)
	pivot := (f.w - 1) / 2
	median := quickselect.QuickSelectFunc(cols, 0, f.w-1, pivot, func(a, b float64) int {
		return cmp.Compare(math.Abs(a), math.Abs(b))
	})
	return math.Abs(median)
}
