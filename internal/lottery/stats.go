package lottery

import (
	"sort"
	"time"
)

// NumberCount is a number with its historical frequency.
type NumberCount struct {
	Number int     `json:"number"`
	Count  int     `json:"count"`
	Score  float64 `json:"score"`
}

// VariantStats summarizes a snapshot for display.
type VariantStats struct {
	Variant      VariantID     `json:"variant"`
	Range        NumberRange   `json:"range"`
	DrawCount    int           `json:"draw_count"`
	MaxFrequency int           `json:"max_frequency"`
	MaxPair      int           `json:"max_pair"`
	TopNumbers   []NumberCount `json:"top_numbers"`
	TopPairs     []PairCount   `json:"top_pairs"`
	LoadedAt     time.Time     `json:"loaded_at"`
}

// Stats returns the limit most frequent numbers and pairs.
func (s *Snapshot) Stats(limit int) VariantStats {
	numbers := make([]NumberCount, 0, s.Variant.Main.Size())
	for n := s.Variant.Main.Min; n <= s.Variant.Main.Max; n++ {
		numbers = append(numbers, NumberCount{
			Number: n,
			Count:  s.Frequency.Count(n),
			Score:  s.Frequency.Score(n),
		})
	}
	sort.SliceStable(numbers, func(i, j int) bool {
		return numbers[i].Count > numbers[j].Count
	})
	if limit > 0 && len(numbers) > limit {
		numbers = numbers[:limit]
	}

	return VariantStats{
		Variant:      s.Variant.ID,
		Range:        s.Variant.Main,
		DrawCount:    len(s.Draws),
		MaxFrequency: s.Frequency.MaxFrequency(),
		MaxPair:      s.CoOccurrence.MaxPair(),
		TopNumbers:   numbers,
		TopPairs:     s.CoOccurrence.TopPairs(limit),
		LoadedAt:     s.LoadedAt,
	}
}
