package lottery

import (
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformWeights(r NumberRange, w float64) WeightMap {
	out := make(WeightMap, r.Size())
	for _, n := range r.Numbers() {
		out[n] = w
	}
	return out
}

func assertValidSelection(t *testing.T, got []int, k int, r NumberRange) {
	t.Helper()
	require.Len(t, got, k)
	assert.True(t, sort.IntsAreSorted(got), "selection not ascending: %v", got)
	seen := make(map[int]bool, k)
	for _, n := range got {
		assert.True(t, r.Contains(n), "number %d outside %s", n, r)
		assert.False(t, seen[n], "duplicate %d in %v", n, got)
		seen[n] = true
	}
}

func TestSample_InvalidSampleSize(t *testing.T) {
	weights := uniformWeights(NumberRange{Min: 1, Max: 5}, 1)

	_, err := Sample(NewRand(1), weights, DrawSize)
	assert.True(t, errors.Is(err, ErrInvalidSampleSize))

	_, err = Sample(NewRand(1), weights, 0)
	assert.True(t, errors.Is(err, ErrInvalidSampleSize))

	_, err = SampleUniform(NewRand(1), NumberRange{Min: 1, Max: 5}, DrawSize)
	assert.True(t, errors.Is(err, ErrInvalidSampleSize))
}

func TestSample_NoReplacement(t *testing.T) {
	r := NumberRange{Min: 1, Max: 49}
	b := exampleBuilder()
	rnd := NewRand(7)

	for i := 0; i < 2000; i++ {
		weights := b.Build(rnd, ParamsFromSettings(DefaultSettings()))
		got, err := Sample(rnd, weights, DrawSize)
		require.NoError(t, err)
		assertValidSelection(t, got, DrawSize, r)
	}
}

func TestSample_WholePool(t *testing.T) {
	r := NumberRange{Min: 1, Max: 6}
	got, err := Sample(NewRand(2), uniformWeights(r, 0.25), 6)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, got)
}

func TestSample_PrefersHeavyNumbers(t *testing.T) {
	weights := exampleBuilder().Build(NewRand(1), WeightParams{
		FreqWeight: 1,
		Noise:      NoiseRange{Lo: 1, Hi: 1},
	})
	rnd := NewRand(11)

	// Single picks: 1 and 2 carry weight 1.0 each, 3..10 carry 0.5 each.
	const trials = 6000
	counts := make(map[int]int)
	for i := 0; i < trials; i++ {
		got, err := Sample(rnd, weights, 1)
		require.NoError(t, err)
		counts[got[0]]++
	}
	for heavy := 1; heavy <= 2; heavy++ {
		for light := 3; light <= 10; light++ {
			assert.Greater(t, counts[heavy], counts[light], "%d vs %d", heavy, light)
		}
	}

	// Full selections almost never leave the drawn set.
	outside := 0
	for i := 0; i < 2000; i++ {
		got, err := Sample(rnd, weights, DrawSize)
		require.NoError(t, err)
		for _, n := range got {
			if n > 10 {
				outside++
			}
		}
	}
	assert.LessOrEqual(t, outside, 5)
}

func TestSample_ZeroWeightsFallBackToUniform(t *testing.T) {
	r := NumberRange{Min: 1, Max: 49}
	weights := uniformWeights(r, 0)
	rnd := NewRand(5)

	const trials = 20000
	counts := make(map[int]int)
	for i := 0; i < trials; i++ {
		got, err := Sample(rnd, weights, DrawSize)
		require.NoError(t, err)
		assertValidSelection(t, got, DrawSize, r)
		for _, n := range got {
			counts[n]++
		}
	}

	expected := float64(trials*DrawSize) / float64(r.Size())
	for _, n := range r.Numbers() {
		assert.InEpsilon(t, expected, float64(counts[n]), 0.15, "number %d", n)
	}
}

func TestSample_ZeroWeightsRemainAfterPositives(t *testing.T) {
	weights := WeightMap{1: 3, 2: 0, 3: 0, 4: -2}
	for seed := uint64(0); seed < 50; seed++ {
		got, err := Sample(NewRand(seed), weights, 3)
		require.NoError(t, err)
		assertValidSelection(t, got, 3, NumberRange{Min: 1, Max: 4})
		assert.Contains(t, got, 1)
	}
}

func TestSample_NegativeTotalFallsBackToUniform(t *testing.T) {
	weights := WeightMap{1: 1, 2: -5, 3: -5, 4: -5}
	require.Less(t, weights.Total(), 0.0)

	counts := make(map[int]int)
	for seed := uint64(0); seed < 400; seed++ {
		got, err := Sample(NewRand(seed), weights, 1)
		require.NoError(t, err)
		counts[got[0]]++
	}
	for n := 1; n <= 4; n++ {
		assert.Greater(t, counts[n], 50, "number %d picked %d times", n, counts[n])
	}
}

func TestSample_Deterministic(t *testing.T) {
	weights := exampleBuilder().Build(NewRand(3), ParamsFromSettings(DefaultSettings()))
	a, err := Sample(NewRand(99), weights, DrawSize)
	require.NoError(t, err)
	b, err := Sample(NewRand(99), weights, DrawSize)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSampleUniform(t *testing.T) {
	r := NumberRange{Min: 1, Max: 38}
	rnd := NewRand(8)
	for i := 0; i < 500; i++ {
		got, err := SampleUniform(rnd, r, DrawSize)
		require.NoError(t, err)
		assertValidSelection(t, got, DrawSize, r)
	}
}
