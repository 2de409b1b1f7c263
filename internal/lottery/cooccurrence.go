package lottery

import "sort"

// Pair is an unordered number pair stored with A < B.
type Pair struct {
	A int `json:"a"`
	B int `json:"b"`
}

// MakePair orders a and b.
func MakePair(a, b int) Pair {
	if a > b {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// PairCount is a pair with its co-occurrence count.
type PairCount struct {
	Pair
	Count int `json:"count"`
}

// CoOccurrenceModel counts how often two numbers were drawn together and
// aggregates that into a per-number affinity over a NumberRange.
type CoOccurrenceModel struct {
	pairs    map[Pair]int
	maxPair  int
	affinity map[int]float64
}

// NewCoOccurrenceModel builds the pair table for draws and precomputes the
// affinity score of every number in r.
func NewCoOccurrenceModel(draws []Draw, r NumberRange) *CoOccurrenceModel {
	m := &CoOccurrenceModel{
		pairs:    make(map[Pair]int),
		affinity: make(map[int]float64, r.Size()),
	}

	for _, d := range draws {
		sorted := d.Sorted()
		for i := 0; i < len(sorted); i++ {
			for j := i + 1; j < len(sorted); j++ {
				if sorted[i] == sorted[j] {
					continue
				}
				m.pairs[Pair{A: sorted[i], B: sorted[j]}]++
			}
		}
	}

	for _, c := range m.pairs {
		if c > m.maxPair {
			m.maxPair = c
		}
	}
	if m.maxPair == 0 {
		m.maxPair = 1
	}

	for n := r.Min; n <= r.Max; n++ {
		sum := 0
		for o := r.Min; o <= r.Max; o++ {
			sum += m.pairs[MakePair(n, o)]
		}
		m.affinity[n] = float64(sum) / float64(m.maxPair)
	}
	return m
}

// PairCount returns how many draws contained both a and b.
func (m *CoOccurrenceModel) PairCount(a, b int) int {
	return m.pairs[MakePair(a, b)]
}

// MaxPair is the normalizer, at least 1.
func (m *CoOccurrenceModel) MaxPair() int {
	return m.maxPair
}

// Score returns the aggregate affinity of n: the sum of its pair counts with
// every other number in range, divided by MaxPair. Numbers outside the range
// the model was built for score 0.
func (m *CoOccurrenceModel) Score(n int) float64 {
	return m.affinity[n]
}

// TopPairs returns up to limit pairs ordered by count descending, then by
// pair ascending.
func (m *CoOccurrenceModel) TopPairs(limit int) []PairCount {
	out := make([]PairCount, 0, len(m.pairs))
	for p, c := range m.pairs {
		out = append(out, PairCount{Pair: p, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
