// Package kwisehash implements a k-wise independent hash family over the
// Mersenne field GF(2^61 - 1), plus a non-independent murmur3 fast path
// for callers that trade the independence guarantee for throughput.
package kwisehash

import (
	"encoding/binary"
	"errors"
	"math/bits"
	"math/rand"

	"github.com/twmb/murmur3"
)

// P is the Mersenne prime 2^61 - 1. Reduction modulo P on 64-bit operands
// is branch-free because 61 = 64 - 3: a 128-bit product splits cleanly
// into a low 61-bit part and a high part that folds back in with shifts.
const P uint64 = (1 << 61) - 1

// ErrInvalidParameter is returned when a Hash is constructed with a
// non-positive degree.
var ErrInvalidParameter = errors.New("kwisehash: invalid parameter")

// Hash is a member of a k-wise independent hash family
//
//	h_a(x) = (a_0 + a_1*x + ... + a_{k-1}*x^{k-1}) mod P
//
// with coefficients drawn uniformly from [0, P) by a seeded PRNG at
// construction. A Hash is immutable after construction and safe for
// concurrent read-only use.
type Hash struct {
	a []uint64
}

// New builds a degree-k hash with coefficients drawn from a PRNG seeded
// by seed. k must be at least 1; degree k=2 gives pairwise independence.
func New(k int, seed uint64) (*Hash, error) {
	if k <= 0 {
		return nil, ErrInvalidParameter
	}
	rng := rand.New(rand.NewSource(int64(seed)))
	coeffs := make([]uint64, k)
	for i := range coeffs {
		coeffs[i] = randFieldElement(rng)
	}
	return &Hash{a: coeffs}, nil
}

// randFieldElement draws a uniform value in [0, P) by rejection sampling
// 61-bit chunks off the PRNG; the rejection probability is on the order
// of 2^-61, so in practice this loop runs once.
func randFieldElement(rng *rand.Rand) uint64 {
	for {
		x := rng.Uint64() & P
		if x < P {
			return x
		}
	}
}

// Degree returns k, the number of coefficients (and hence the
// independence order) of the hash.
func (h *Hash) Degree() int {
	return len(h.a)
}

// Modulus returns P, the field modulus.
func (h *Hash) Modulus() uint64 {
	return P
}

// Eval evaluates the hash at x via Horner's rule over GF(P). x is first
// reduced mod P, since mulMod's reduction is only valid for operands < P.
func (h *Hash) Eval(x uint64) uint64 {
	x %= P
	var res uint64
	for j := len(h.a) - 1; j >= 0; j-- {
		res = mulMod(res, x)
		res = addMod(res, h.a[j])
	}
	return res
}

func addMod(a, b uint64) uint64 {
	s := a + b
	if s >= P {
		s -= P
	}
	return s
}

// mulMod computes a*b mod P using a branchless reduction: split the
// 128-bit product into (hi, lo), fold hi back into the low 61 bits via
// shifts, then subtract P once if the candidate still exceeds it.
func mulMod(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	lo61 := lo & P
	folded := (lo >> 61) + (hi << 3) + (hi >> 58)
	sum := lo61 + folded
	if sum >= P {
		sum -= P
	}
	return sum
}

// MurmurHash64 is the use_murmur fast path: a 64-bit murmur3 digest of
// key keyed by seed. It is not k-wise independent, but it is cheaper
// than evaluating a Hash of any nontrivial degree.
func MurmurHash64(key uint64, seed uint64) uint64 {
	h := murmur3.SeedNew64(seed)
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], key)
	_, _ = h.Write(buf[:])
	return h.Sum64()
}
