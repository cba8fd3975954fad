// Package lpsample implements the L_p sampler (p in {1, 2}): a
// one-pass randomized procedure that draws coordinate i from a
// turnstile-updated frequency vector with probability approximately
// |f_i|^p / ||f||_p^p, or reports failure.
package lpsample

import (
	"errors"
	"math"

	"github.com/lpsketch/lpsketch-go/countsketch"
	"github.com/lpsketch/lpsketch-go/fpnorm"
	"github.com/lpsketch/lpsketch-go/kwisehash"
)

// ErrInvalidParameter is returned at construction when p is outside
// {1, 2}, n is zero, or eps/delta fall outside (0, 1).
var ErrInvalidParameter = errors.New("lpsample: invalid parameter")

// ErrContractViolation is the panic value used when a caller violates
// the sampler's single-shot or index-range contract. It is not meant
// to be recovered in normal control flow; it signals a programming
// error in the caller, matching spec.md's "fatal, must never corrupt
// sketch state" description of runtime contract violations.
var ErrContractViolation = errors.New("lpsample: contract violation")

// Config carries the per-construction parameters of a Sampler.
type Config struct {
	// P selects the norm: 1 or 2.
	P int
	// Eps is the target relative error, in (0, 1).
	Eps float64
	// Delta is the target failure probability, in (0, 1).
	Delta float64
	// N is the length of the implicit frequency vector.
	N uint64
	// Seed seeds every hash and sub-sketch this sampler owns.
	Seed uint64
}

// Sampler is a single-shot L_p sampler. It exclusively owns an inner
// CountSketch, a p-norm Estimator, and an auxiliary F2 error
// estimator; none of them are shared or reachable once constructed.
//
// A Sampler is single-threaded: Update and Sample must not overlap in
// time, and Sample may be called at most once.
type Sampler struct {
	p     int
	eps   float64
	delta float64
	n     uint64

	m       uint64
	cs      *countsketch.Sketch[float64]
	fp      fpnorm.Estimator
	f2err   *fpnorm.F2
	scalars *kwisehash.Hash
	seed    uint64
	sampled bool
}

// New constructs an L_p sampler. Invalid parameters fail here rather
// than at Update or Sample time.
func New(cfg Config) (*Sampler, error) {
	if cfg.P != 1 && cfg.P != 2 {
		return nil, ErrInvalidParameter
	}
	if cfg.Eps <= 0 || cfg.Eps >= 1 || cfg.Delta <= 0 || cfg.Delta >= 1 {
		return nil, ErrInvalidParameter
	}
	if cfg.N == 0 {
		return nil, ErrInvalidParameter
	}

	const normEps = 0.1 // matches the original implementation's fixed inner norm-estimator accuracy

	var m uint64
	var fp fpnorm.Estimator
	if cfg.P == 1 {
		m = uint64(8 * math.Ceil(-math.Log(cfg.Eps)))
		f1, err := fpnorm.NewF1(normEps, cfg.Delta/2, cfg.Seed)
		if err != nil {
			return nil, err
		}
		fp = f1
	} else {
		m = uint64(8 / cfg.Eps * math.Log(float64(cfg.N)))
		f2, err := fpnorm.NewF2(normEps, cfg.Delta/2, cfg.Seed, false)
		if err != nil {
			return nil, err
		}
		fp = f2
	}
	if m < 1 {
		m = 1
	}

	depth := int(4 * math.Ceil(math.Log(float64(cfg.N))))
	if depth%2 == 0 {
		depth++
	}
	if depth < 1 {
		depth = 1
	}

	cs, err := countsketch.New[float64](countsketch.Config{
		W:    int(6 * m),
		D:    depth,
		Seed: cfg.Seed,
	})
	if err != nil {
		return nil, err
	}

	f2err, err := fpnorm.NewF2(normEps, cfg.Delta/2, cfg.Seed, false)
	if err != nil {
		return nil, err
	}

	scalarDegree := int(math.Ceil(2 * math.Max(1, 1-math.Log2(cfg.Eps))))
	scalars, err := kwisehash.New(scalarDegree, cfg.Seed)
	if err != nil {
		return nil, err
	}

	return &Sampler{
		p:       cfg.P,
		eps:     cfg.Eps,
		delta:   cfg.Delta,
		n:       cfg.N,
		m:       m,
		cs:      cs,
		fp:      fp,
		f2err:   f2err,
		scalars: scalars,
		seed:    cfg.Seed,
	}, nil
}

// Update applies delta at coordinate i: the unscaled delta feeds the
// p-norm estimator, and a scaled version (by the inverse-p-th-root of
// a deterministic per-coordinate u_i in (0,1)) feeds the inner
// CountSketch and the auxiliary F2 error estimator.
//
// Update panics with ErrContractViolation if i >= n, the configured
// vector length.
func (s *Sampler) Update(i uint64, delta float64) {
	if i >= s.n {
		panic(ErrContractViolation)
	}

	u := float64(s.scalars.Eval(i)) / float64(s.scalars.Modulus())
	z := delta / math.Pow(u, 1/float64(s.p))

	s.cs.Update(i, z)
	s.fp.Update(i, delta)
	s.f2err.Update(i, z)
}

// Sample runs the one-shot L_p sampling algorithm of spec.md §4.5 and
// returns (coordinate, true) on success, or (0, false) if the
// sampler's internal consistency checks reject the candidate -- an
// expected outcome, not an error.
//
// Sample panics with ErrContractViolation if called a second time on
// the same Sampler.
func (s *Sampler) Sample() (uint64, bool) {
	if s.sampled {
		panic(ErrContractViolation)
	}
	s.sampled = true

	r := 1.5 * s.fp.EstimateNorm()

	var argmax uint64
	var argmaxVal float64
	top := newTopM(int(s.m))

	for i := uint64(0); i < s.n; i++ {
		zStar := s.cs.Estimate(i)
		if math.Abs(zStar) > math.Abs(argmaxVal) {
			argmax, argmaxVal = i, zStar
		}
		top.consider(i, zStar)
	}

	mSparse, err := fpnorm.NewF2(0.1, s.delta/2, s.seed, false)
	if err != nil {
		// Construction parameters mirror f2err's, already validated.
		panic(err)
	}
	for _, e := range top.entries() {
		mSparse.Update(e.key, e.val)
	}

	if err := s.f2err.Subtract(mSparse); err != nil {
		panic(err)
	}
	sErr := 1.5 * s.f2err.EstimateNorm()

	invP := 1 / float64(s.p)
	threshold1 := math.Pow(s.eps, 1-invP) * r * math.Sqrt(float64(s.m))
	threshold2 := r / math.Pow(s.eps, invP)

	if sErr > threshold1 || math.Abs(argmaxVal) < threshold2 {
		return 0, false
	}
	return argmax, true
}

type topEntry struct {
	key uint64
	val float64
}

// topM tracks the m largest-|val| (key, val) pairs seen via a simple
// linear-scan min-tracking structure. m is small relative to n in the
// parameter regimes this sampler is used at, so a heap is not worth
// the complexity here.
type topM struct {
	m      int
	items  []topEntry
	minIdx int
}

func newTopM(m int) *topM {
	if m < 1 {
		m = 1
	}
	return &topM{m: m, items: make([]topEntry, 0, m)}
}

func (t *topM) consider(key uint64, val float64) {
	if len(t.items) < t.m {
		t.items = append(t.items, topEntry{key, val})
		if len(t.items) == t.m {
			t.recomputeMin()
		}
		return
	}
	if math.Abs(val) > math.Abs(t.items[t.minIdx].val) {
		t.items[t.minIdx] = topEntry{key, val}
		t.recomputeMin()
	}
}

func (t *topM) recomputeMin() {
	minIdx := 0
	for i := 1; i < len(t.items); i++ {
		if math.Abs(t.items[i].val) < math.Abs(t.items[minIdx].val) {
			minIdx = i
		}
	}
	t.minIdx = minIdx
}

func (t *topM) entries() []topEntry {
	return t.items
}
