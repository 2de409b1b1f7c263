package lottery

import (
	"math/rand/v2"
	"sort"
)

// MinWeight keeps every number reachable by the sampler.
const MinWeight = 1e-6

// WeightMap maps a number to its sampling weight. It is built per request
// and never shared.
type WeightMap map[int]float64

// Numbers returns the keys in ascending order.
func (w WeightMap) Numbers() []int {
	out := make([]int, 0, len(w))
	for n := range w {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// Total sums every weight, negatives included.
func (w WeightMap) Total() float64 {
	total := 0.0
	for _, v := range w {
		total += v
	}
	return total
}

// Scorer returns a normalized score for a number.
type Scorer interface {
	Score(n int) float64
}

// WeightParams are the inputs of one Build call.
type WeightParams struct {
	FreqWeight float64
	CoWeight   float64
	Noise      NoiseRange
}

// ParamsFromSettings derives WeightParams, including the noise range.
func ParamsFromSettings(s Settings) WeightParams {
	return WeightParams{
		FreqWeight: s.FreqWeight,
		CoWeight:   s.CoWeight,
		Noise:      s.NoiseRange(),
	}
}

// WeightBuilder blends frequency and co-occurrence scores into weights.
type WeightBuilder struct {
	Frequency    Scorer
	CoOccurrence Scorer
	Range        NumberRange
}

// Build returns a fresh WeightMap. Noise is drawn independently for every
// number, in ascending order, so a seeded rnd reproduces the map exactly.
func (b WeightBuilder) Build(rnd *rand.Rand, p WeightParams) WeightMap {
	weights := make(WeightMap, b.Range.Size())
	for n := b.Range.Min; n <= b.Range.Max; n++ {
		freqScore := b.Frequency.Score(n)
		coScore := b.CoOccurrence.Score(n)
		noise := uniform(rnd, p.Noise.Lo, p.Noise.Hi)

		raw := p.FreqWeight*freqScore + p.CoWeight*coScore
		w := raw * noise
		// Written negated so NaN also takes the floor.
		if !(w >= MinWeight) {
			w = MinWeight
		}
		weights[n] = w
	}
	return weights
}

func uniform(rnd *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rnd.Float64()
}
