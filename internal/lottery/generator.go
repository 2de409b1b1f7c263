package lottery

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Snapshot is the immutable model for one variant: the loaded draws and the
// statistics derived from them. It is safe for concurrent readers.
type Snapshot struct {
	Variant      Variant
	Draws        []Draw
	Frequency    *FrequencyModel
	CoOccurrence *CoOccurrenceModel
	LoadedAt     time.Time
}

// NewSnapshot builds both models for draws. draws is not copied and must not
// be modified afterwards.
func NewSnapshot(v Variant, draws []Draw) *Snapshot {
	return &Snapshot{
		Variant:      v,
		Draws:        draws,
		Frequency:    NewFrequencyModel(draws),
		CoOccurrence: NewCoOccurrenceModel(draws, v.Main),
		LoadedAt:     time.Now().UTC(),
	}
}

// WeightBuilder returns a builder over this snapshot's models.
func (s *Snapshot) WeightBuilder() WeightBuilder {
	return WeightBuilder{
		Frequency:    s.Frequency,
		CoOccurrence: s.CoOccurrence,
		Range:        s.Variant.Main,
	}
}

// Request is one generation request.
type Request struct {
	Mode     Mode
	Settings Settings
}

// Generate runs the pipeline for req using rnd. All randomness comes from
// rnd, so a seeded source gives a reproducible Selection.
func (s *Snapshot) Generate(rnd *rand.Rand, req Request) (Selection, error) {
	if s.Variant.Main.Size() < DrawSize {
		return Selection{}, fmt.Errorf("%w: variant %q has %d numbers, need %d",
			ErrInvalidSampleSize, s.Variant.ID, s.Variant.Main.Size(), DrawSize)
	}

	sel := Selection{Variant: s.Variant.ID, Mode: req.Mode}

	switch req.Mode {
	case ModeStatistical:
		settings := req.Settings
		weights := s.WeightBuilder().Build(rnd, ParamsFromSettings(settings))
		numbers, err := Sample(rnd, weights, DrawSize)
		if err != nil {
			return Selection{}, err
		}
		sel.Numbers = numbers
		sel.LuckScore = LuckScore(rnd, numbers, weights)
		sel.Settings = &settings

	case ModePureChance:
		numbers, err := SampleUniform(rnd, s.Variant.Main, DrawSize)
		if err != nil {
			return Selection{}, err
		}
		sel.Numbers = numbers
		sel.LuckScore = LuckScore(rnd, numbers, nil)

	default:
		return Selection{}, fmt.Errorf("%w: %q", ErrUnknownMode, req.Mode)
	}

	// The second zone is independent of the model in both modes.
	if sec := s.Variant.Secondary; sec != nil && sec.Size() > 0 {
		n := sec.Min + rnd.IntN(sec.Size())
		sel.Secondary = &n
	}
	return sel, nil
}
