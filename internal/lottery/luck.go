package lottery

import (
	"math/rand/v2"
	"sort"
)

// Luck score bounds and shape.
const (
	MinLuck         = 1
	MaxLuck         = 99
	preferredShare  = 0.3
	luckJitterRange = 5.0
)

// LuckScore is a cosmetic percentage. With weights it measures how many
// selected numbers fall in the model's top 30% plus a small jitter; without
// weights it is uniform in [1,99]. It is never a probability of winning.
func LuckScore(rnd *rand.Rand, selected []int, weights WeightMap) int {
	if weights == nil {
		return MinLuck + rnd.IntN(MaxLuck-MinLuck+1)
	}

	preferred := PreferredSet(weights)
	score := 0.0
	if len(selected) > 0 {
		hits := 0
		for _, n := range selected {
			if preferred[n] {
				hits++
			}
		}
		score = float64(hits) / float64(len(selected)) * 100
	}
	score += uniform(rnd, -luckJitterRange, luckJitterRange)

	if score < MinLuck {
		score = MinLuck
	}
	if score > MaxLuck {
		score = MaxLuck
	}
	return int(score)
}

// PreferredSet returns the floor(30%) highest-weighted numbers. Ties rank the
// smaller number first.
func PreferredSet(weights WeightMap) map[int]bool {
	ranked := weights.Numbers()
	sort.SliceStable(ranked, func(i, j int) bool {
		return weights[ranked[i]] > weights[ranked[j]]
	})

	top := int(float64(len(ranked)) * preferredShare)
	out := make(map[int]bool, top)
	for _, n := range ranked[:top] {
		out[n] = true
	}
	return out
}
