package kwisehash

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_InvalidDegree(t *testing.T) {
	_, err := New(0, 1)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = New(-1, 1)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestEval_Range(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		k := 1 + rng.Intn(6)
		h, err := New(k, rng.Uint64())
		require.NoError(t, err)
		for i := 0; i < 200; i++ {
			x := rng.Uint64()
			assert.Less(t, h.Eval(x), P)
		}
	}
}

func TestEval_Deterministic(t *testing.T) {
	h, err := New(4, 42)
	require.NoError(t, err)

	x := uint64(12345)
	first := h.Eval(x)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, h.Eval(x))
	}
}

// Scenario 6: two independent constructions from the same seed must
// agree on the same digest for the same input.
func TestNew_SameSeedSameDigest(t *testing.T) {
	h1, err := New(4, 42)
	require.NoError(t, err)
	h2, err := New(4, 42)
	require.NoError(t, err)

	assert.Equal(t, h1.Eval(12345), h2.Eval(12345))
}

func TestNew_DifferentSeedsDiffer(t *testing.T) {
	h1, err := New(4, 1)
	require.NoError(t, err)
	h2, err := New(4, 2)
	require.NoError(t, err)

	// Not a correctness requirement, but seeds should almost never
	// collide on a nontrivial input.
	assert.NotEqual(t, h1.Eval(999), h2.Eval(999))
}

// TestPairwiseIndependence is a coarse statistical check: for k=2, the
// joint distribution of (hash(x), hash(y)) across random seeds should
// look uniform on a small bucket grid, checked with a chi-square
// goodness-of-fit statistic against a generous tolerance.
func TestPairwiseIndependence(t *testing.T) {
	const buckets = 8
	const trials = 4000

	var counts [buckets][buckets]int
	rng := rand.New(rand.NewSource(99))
	x, y := uint64(11), uint64(97)

	for i := 0; i < trials; i++ {
		h, err := New(2, rng.Uint64())
		require.NoError(t, err)
		bx := int(h.Eval(x) % buckets)
		by := int(h.Eval(y) % buckets)
		counts[bx][by]++
	}

	expected := float64(trials) / float64(buckets*buckets)
	chiSq := 0.0
	for i := 0; i < buckets; i++ {
		for j := 0; j < buckets; j++ {
			diff := float64(counts[i][j]) - expected
			chiSq += diff * diff / expected
		}
	}

	// 63 degrees of freedom; a generous cutoff well above the 99.9th
	// percentile (~103) catches gross non-uniformity without being a
	// flaky test on exact quantiles.
	assert.Less(t, chiSq, 160.0)
}

func TestMurmurHash64_Deterministic(t *testing.T) {
	a := MurmurHash64(123, 7)
	b := MurmurHash64(123, 7)
	assert.Equal(t, a, b)

	c := MurmurHash64(123, 8)
	assert.NotEqual(t, a, c)
}
