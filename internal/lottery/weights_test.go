package lottery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exampleBuilder() WeightBuilder {
	r := NumberRange{Min: 1, Max: 49}
	draws := exampleDraws()
	return WeightBuilder{
		Frequency:    NewFrequencyModel(draws),
		CoOccurrence: NewCoOccurrenceModel(draws, r),
		Range:        r,
	}
}

func TestWeightBuilder_NoiseDisabled(t *testing.T) {
	weights := exampleBuilder().Build(NewRand(1), WeightParams{
		FreqWeight: 1,
		CoWeight:   0,
		Noise:      NoiseRange{Lo: 1, Hi: 1},
	})

	require.Len(t, weights, 49)
	assert.InDelta(t, 1.0, weights[1], 1e-12)
	assert.InDelta(t, 1.0, weights[2], 1e-12)
	for n := 3; n <= 10; n++ {
		assert.InDelta(t, 0.5, weights[n], 1e-12, "number %d", n)
	}
	for n := 11; n <= 49; n++ {
		assert.Equal(t, MinWeight, weights[n], "number %d", n)
	}
}

func TestWeightBuilder_Positivity(t *testing.T) {
	cases := []struct {
		name   string
		params WeightParams
	}{
		{"ZeroWeights", WeightParams{Noise: NoiseRange{Lo: 0.7, Hi: 1.3}}},
		{"NegativeWeights", WeightParams{FreqWeight: -1, CoWeight: -0.5, Noise: NoiseRange{Lo: 1, Hi: 1}}},
		{"ZeroNoise", WeightParams{FreqWeight: 1, CoWeight: 1, Noise: NoiseRange{}}},
		{"FullNoise", ParamsFromSettings(Settings{FreqWeight: 1, CoWeight: 1, NoiseStrength: 1})},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for seed := uint64(0); seed < 20; seed++ {
				weights := exampleBuilder().Build(NewRand(seed), tc.params)
				for n, w := range weights {
					assert.GreaterOrEqual(t, w, MinWeight, "number %d", n)
				}
			}
		})
	}
}

func TestWeightBuilder_EmptyDataset(t *testing.T) {
	r := NumberRange{Min: 1, Max: 38}
	b := WeightBuilder{
		Frequency:    NewFrequencyModel(nil),
		CoOccurrence: NewCoOccurrenceModel(nil, r),
		Range:        r,
	}
	weights := b.Build(NewRand(3), ParamsFromSettings(DefaultSettings()))
	require.Len(t, weights, 38)
	for _, w := range weights {
		assert.Equal(t, MinWeight, w)
	}
}

func TestWeightBuilder_NoiseWithinRange(t *testing.T) {
	b := exampleBuilder()
	settings := Settings{FreqWeight: 1, NoiseStrength: 0.5}
	weights := b.Build(NewRand(9), ParamsFromSettings(settings))

	// Number 1 has frequency score 1, so its weight is the noise itself.
	assert.GreaterOrEqual(t, weights[1], 0.5)
	assert.LessOrEqual(t, weights[1], 1.5)
}

func TestWeightBuilder_Deterministic(t *testing.T) {
	b := exampleBuilder()
	params := ParamsFromSettings(DefaultSettings())

	assert.Equal(t, b.Build(NewRand(42), params), b.Build(NewRand(42), params))
	assert.NotEqual(t, b.Build(NewRand(42), params), b.Build(NewRand(43), params))
}
