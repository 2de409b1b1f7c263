package lottery

import (
	"fmt"
	"math/rand/v2"
	"sort"
)

// Sample draws k distinct numbers from weights, each pick proportional to
// its weight among the numbers not yet chosen. Chosen numbers leave the pool
// entirely. When the weights sum to zero or less, negatives included, the
// pick is uniform. Otherwise negative weights count as zero. The result is
// ascending.
func Sample(rnd *rand.Rand, weights WeightMap, k int) ([]int, error) {
	if k < 1 || k > len(weights) {
		return nil, fmt.Errorf("%w: cannot select %d distinct numbers from %d candidates",
			ErrInvalidSampleSize, k, len(weights))
	}

	pool := weights.Numbers()
	if weights.Total() <= 0 {
		return sampleUniform(rnd, pool, k), nil
	}

	poolWeights := make([]float64, len(pool))
	for i, n := range pool {
		if w := weights[n]; w > 0 {
			poolWeights[i] = w
		}
	}

	selected := make([]int, 0, k)
	for len(selected) < k {
		total := 0.0
		for _, w := range poolWeights {
			total += w
		}
		// Only zero-weight numbers remain.
		if total <= 0 {
			selected = append(selected, sampleUniform(rnd, pool, k-len(selected))...)
			break
		}

		idx := pickIndex(rnd, poolWeights, total)
		selected = append(selected, pool[idx])

		pool = append(pool[:idx], pool[idx+1:]...)
		poolWeights = append(poolWeights[:idx], poolWeights[idx+1:]...)
	}

	sort.Ints(selected)
	return selected, nil
}

// SampleUniform draws k distinct numbers from r with equal probability.
func SampleUniform(rnd *rand.Rand, r NumberRange, k int) ([]int, error) {
	if k < 1 || k > r.Size() {
		return nil, fmt.Errorf("%w: cannot select %d distinct numbers from range %s",
			ErrInvalidSampleSize, k, r)
	}
	return sampleUniform(rnd, r.Numbers(), k), nil
}

// sampleUniform runs a partial Fisher-Yates shuffle over a copy of pool.
func sampleUniform(rnd *rand.Rand, pool []int, k int) []int {
	items := append([]int(nil), pool...)
	for i := 0; i < k; i++ {
		j := i + rnd.IntN(len(items)-i)
		items[i], items[j] = items[j], items[i]
	}
	out := items[:k]
	sort.Ints(out)
	return out
}

func pickIndex(rnd *rand.Rand, weights []float64, total float64) int {
	target := rnd.Float64() * total
	cumulative := 0.0
	last := -1
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		cumulative += w
		last = i
		if target < cumulative {
			return i
		}
	}
	// Rounding can leave target just past the final bucket.
	return last
}
