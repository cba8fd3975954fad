package countsketch

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_InvalidParameter(t *testing.T) {
	_, err := New[int64](Config{W: 0, D: 5, Seed: 1})
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = New[int64](Config{W: 5, D: 0, Seed: 1})
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

// Scenario 1 from spec.md §8.
func TestScenario1(t *testing.T) {
	cs, err := New[int64](Config{W: 20, D: 5, Seed: 42})
	require.NoError(t, err)

	cs.Update(42, 10)
	cs.Update(42, 5)
	cs.Update(7, 3)
	cs.Update(123, -2)

	assert.Equal(t, int64(15), cs.Estimate(42))
	assert.Equal(t, int64(3), cs.Estimate(7))
	assert.Equal(t, int64(-2), cs.Estimate(123))
	// An unseen key can only pick up noise from hash collisions with the
	// three inserted keys; with w=20 and only 3 busy buckets per row the
	// median is overwhelmingly likely to stay small.
	assert.LessOrEqual(t, int64(math.Abs(float64(cs.Estimate(99)))), int64(10))
}

func TestEstimate_UnseenKeyIsZeroCentered(t *testing.T) {
	cs, err := New[int64](Config{W: 50, D: 9, Seed: 1})
	require.NoError(t, err)

	cs.Update(1, 100)
	// An unseen key should not be wildly biased by one heavy key across
	// a reasonably wide, deep sketch.
	assert.Less(t, int64(math.Abs(float64(cs.Estimate(999999)))), int64(100))
}

// CountSketch linearity: update(k,a) then update(k,b) == update(k,a+b).
func TestLinearity(t *testing.T) {
	cs1, err := New[int64](Config{W: 30, D: 5, Seed: 7})
	require.NoError(t, err)
	cs2, err := New[int64](Config{W: 30, D: 5, Seed: 7})
	require.NoError(t, err)

	cs1.Update(10, 4)
	cs1.Update(10, 6)
	cs2.Update(10, 10)

	assert.Equal(t, cs1.Estimate(10), cs2.Estimate(10))
	for i := range cs1.table {
		assert.Equal(t, cs1.table[i], cs2.table[i])
	}
}

// Distinct keys: with distinct keys and a sufficiently large width, the
// estimate for each key should equal its true frequency with high
// probability.
func TestDistinctKeys(t *testing.T) {
	cs, err := New[int64](Config{W: 2048, D: 7, Seed: 123})
	require.NoError(t, err)

	freq := map[uint64]int64{}
	rng := rand.New(rand.NewSource(5))
	for i := uint64(0); i < 200; i++ {
		f := int64(rng.Intn(50) + 1)
		freq[i] = f
		cs.Update(i, f)
	}

	mismatches := 0
	for k, f := range freq {
		if cs.Estimate(k) != f {
			mismatches++
		}
	}
	assert.LessOrEqual(t, mismatches, 5)
}

// CountSketch error bound: w=100, d=11, n=1000 random keys, unit
// deltas; mean absolute error should stay within the spec's bound on
// the large majority of seeds.
func TestErrorBound(t *testing.T) {
	const w, d, n = 100, 11, 1000
	passed := 0
	const seeds = 20

	for s := 0; s < seeds; s++ {
		cs, err := New[int64](Config{W: w, D: d, Seed: uint64(1000 + s)})
		require.NoError(t, err)

		rng := rand.New(rand.NewSource(int64(s)))
		freq := map[uint64]int64{}
		for i := 0; i < n; i++ {
			k := uint64(rng.Intn(n))
			freq[k]++
			cs.Update(k, 1)
		}

		var sumSq float64
		for _, f := range freq {
			sumSq += float64(f) * float64(f)
		}
		l2 := math.Sqrt(sumSq)

		var totalErr float64
		for k, f := range freq {
			totalErr += math.Abs(float64(cs.Estimate(k) - f))
		}
		meanErr := totalErr / float64(len(freq))

		if meanErr <= 3*l2/math.Sqrt(float64(w)) {
			passed++
		}
	}

	assert.GreaterOrEqual(t, passed, int(0.95*seeds)-1)
}

func TestUseMurmurFastPath(t *testing.T) {
	cs, err := New[int64](Config{W: 16, D: 5, Seed: 3, UseMurmur: true})
	require.NoError(t, err)

	cs.Update(9, 4)
	cs.Update(9, 6)
	assert.Equal(t, int64(10), cs.Estimate(9))
}

func TestFloatTable(t *testing.T) {
	cs, err := New[float64](Config{W: 16, D: 5, Seed: 11})
	require.NoError(t, err)

	cs.Update(3, 1.5)
	cs.Update(3, 2.5)
	assert.InDelta(t, 4.0, cs.Estimate(3), 1e-9)
}
