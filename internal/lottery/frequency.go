package lottery

// FrequencyModel counts how often each number appeared across all draws.
// It is immutable once built.
type FrequencyModel struct {
	counts  map[int]int
	maxFreq int
	total   int
}

// NewFrequencyModel builds the frequency table for draws.
func NewFrequencyModel(draws []Draw) *FrequencyModel {
	m := &FrequencyModel{counts: make(map[int]int)}
	for _, d := range draws {
		for _, n := range d {
			m.counts[n]++
			m.total++
		}
	}
	for _, c := range m.counts {
		if c > m.maxFreq {
			m.maxFreq = c
		}
	}
	// Empty history: normalize by 1 so every score is 0.
	if m.maxFreq == 0 {
		m.maxFreq = 1
	}
	return m
}

// Count returns the number of draws n appeared in.
func (m *FrequencyModel) Count(n int) int {
	return m.counts[n]
}

// MaxFrequency is the normalizer, at least 1.
func (m *FrequencyModel) MaxFrequency() int {
	return m.maxFreq
}

// Total is the sum of all counts.
func (m *FrequencyModel) Total() int {
	return m.total
}

// Score returns count(n)/maxFreq in [0,1].
func (m *FrequencyModel) Score(n int) float64 {
	return float64(m.counts[n]) / float64(m.maxFreq)
}
