package lottery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exampleDraws() []Draw {
	return []Draw{
		{1, 2, 3, 4, 5, 6},
		{1, 2, 7, 8, 9, 10},
	}
}

func TestFrequencyModel(t *testing.T) {
	t.Run("Counts", func(t *testing.T) {
		m := NewFrequencyModel(exampleDraws())
		assert.Equal(t, 2, m.Count(1))
		assert.Equal(t, 2, m.Count(2))
		assert.Equal(t, 1, m.Count(3))
		assert.Equal(t, 0, m.Count(49))
		assert.Equal(t, 2, m.MaxFrequency())
		assert.Equal(t, DrawSize*2, m.Total())
	})

	t.Run("Scores", func(t *testing.T) {
		m := NewFrequencyModel(exampleDraws())
		assert.InDelta(t, 1.0, m.Score(1), 1e-12)
		assert.InDelta(t, 1.0, m.Score(2), 1e-12)
		for n := 3; n <= 10; n++ {
			assert.InDelta(t, 0.5, m.Score(n), 1e-12, "number %d", n)
		}
		assert.Zero(t, m.Score(11))
	})

	t.Run("EmptyDataset", func(t *testing.T) {
		m := NewFrequencyModel(nil)
		assert.Equal(t, 1, m.MaxFrequency())
		for n := 1; n <= 49; n++ {
			assert.Zero(t, m.Score(n))
		}
	})
}

func TestCoOccurrenceModel(t *testing.T) {
	r := NumberRange{Min: 1, Max: 49}

	t.Run("PairTable", func(t *testing.T) {
		m := NewCoOccurrenceModel(exampleDraws(), r)
		assert.Equal(t, 2, m.PairCount(1, 2))
		assert.Equal(t, 2, m.PairCount(2, 1))
		assert.Equal(t, 1, m.PairCount(3, 6))
		assert.Equal(t, 0, m.PairCount(3, 7))
		assert.Equal(t, 2, m.MaxPair())

		total := 0
		for _, pc := range m.TopPairs(0) {
			total += pc.Count
		}
		assert.Equal(t, 15*2, total)
	})

	t.Run("AggregateAffinity", func(t *testing.T) {
		m := NewCoOccurrenceModel(exampleDraws(), r)
		// 1 pairs with 2 twice and with 3..10 once: 10 / maxPair 2.
		assert.InDelta(t, 5.0, m.Score(1), 1e-12)
		// 3 pairs once with each of 1, 2, 4, 5, 6.
		assert.InDelta(t, 2.5, m.Score(3), 1e-12)
		assert.Zero(t, m.Score(49))
	})

	t.Run("TopPairs", func(t *testing.T) {
		m := NewCoOccurrenceModel(exampleDraws(), r)
		top := m.TopPairs(3)
		require.Len(t, top, 3)
		assert.Equal(t, Pair{A: 1, B: 2}, top[0].Pair)
		assert.Equal(t, 2, top[0].Count)
		assert.Equal(t, Pair{A: 1, B: 3}, top[1].Pair)
	})

	t.Run("EmptyDataset", func(t *testing.T) {
		m := NewCoOccurrenceModel(nil, r)
		assert.Equal(t, 1, m.MaxPair())
		for n := r.Min; n <= r.Max; n++ {
			assert.Zero(t, m.Score(n))
		}
	})
}

func TestSnapshotStats(t *testing.T) {
	v, err := LookupVariant(VariantBig)
	require.NoError(t, err)

	stats := NewSnapshot(v, exampleDraws()).Stats(2)
	assert.Equal(t, 2, stats.DrawCount)
	require.Len(t, stats.TopNumbers, 2)
	assert.Equal(t, 1, stats.TopNumbers[0].Number)
	assert.Equal(t, 2, stats.TopNumbers[1].Number)
	require.Len(t, stats.TopPairs, 2)
	assert.Equal(t, 2, stats.MaxPair)
}
