// Package lottery implements the number-suggestion model: historical
// frequency and co-occurrence statistics, per-request weighting, weighted
// sampling without replacement and the cosmetic luck score.
//
// Nothing in this package predicts draw outcomes. The luck score in
// particular reflects agreement with the model's preferences only and is
// never a winning probability.
package lottery

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// DrawSize is the number of main numbers in every draw and selection.
const DrawSize = 6

// Errors
var (
	ErrInvalidSampleSize = errors.New("invalid sample size")
	ErrInvalidDraw       = errors.New("invalid draw")
	ErrUnknownVariant    = errors.New("unknown game variant")
	ErrUnknownMode       = errors.New("unknown selection mode")
)

// NumberRange is the closed interval [Min, Max] of candidate numbers.
type NumberRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Size returns the count of numbers in the range.
func (r NumberRange) Size() int {
	if r.Max < r.Min {
		return 0
	}
	return r.Max - r.Min + 1
}

// Contains reports whether n lies in the range.
func (r NumberRange) Contains(n int) bool {
	return n >= r.Min && n <= r.Max
}

// Numbers lists the range in ascending order.
func (r NumberRange) Numbers() []int {
	out := make([]int, 0, r.Size())
	for n := r.Min; n <= r.Max; n++ {
		out = append(out, n)
	}
	return out
}

func (r NumberRange) String() string {
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

// Draw is one historical result: DrawSize distinct numbers.
type Draw [DrawSize]int

// Sorted returns the draw members in ascending order.
func (d Draw) Sorted() Draw {
	out := d
	sort.Ints(out[:])
	return out
}

// NewDraw validates numbers against r and returns them as a Draw.
func NewDraw(numbers []int, r NumberRange) (Draw, error) {
	var d Draw
	if len(numbers) != DrawSize {
		return d, fmt.Errorf("%w: expected %d numbers, got %d", ErrInvalidDraw, DrawSize, len(numbers))
	}
	seen := make(map[int]bool, DrawSize)
	for i, n := range numbers {
		if !r.Contains(n) {
			return d, fmt.Errorf("%w: %d outside %s", ErrInvalidDraw, n, r)
		}
		if seen[n] {
			return d, fmt.Errorf("%w: duplicate number %d", ErrInvalidDraw, n)
		}
		seen[n] = true
		d[i] = n
	}
	return d, nil
}

// VariantID names a game variant.
type VariantID string

const (
	VariantBig   VariantID = "big"
	VariantPower VariantID = "power"
)

// Variant describes a game: its main range and optional secondary range.
type Variant struct {
	ID        VariantID    `json:"id"`
	Name      string       `json:"name"`
	Main      NumberRange  `json:"main"`
	Secondary *NumberRange `json:"secondary,omitempty"`
}

// HasSecondary reports whether the variant draws a second-zone number.
func (v Variant) HasSecondary() bool {
	return v.Secondary != nil
}

var variants = map[VariantID]Variant{
	VariantBig: {
		ID:   VariantBig,
		Name: "大樂透",
		Main: NumberRange{Min: 1, Max: 49},
	},
	VariantPower: {
		ID:        VariantPower,
		Name:      "威力彩",
		Main:      NumberRange{Min: 1, Max: 38},
		Secondary: &NumberRange{Min: 1, Max: 8},
	},
}

// LookupVariant returns the variant registered under id.
func LookupVariant(id VariantID) (Variant, error) {
	v, ok := variants[VariantID(strings.ToLower(strings.TrimSpace(string(id))))]
	if !ok {
		return Variant{}, fmt.Errorf("%w: %q", ErrUnknownVariant, id)
	}
	return v, nil
}

// Variants lists the known variants ordered by id.
func Variants() []Variant {
	out := make([]Variant, 0, len(variants))
	for _, v := range variants {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Mode selects between the statistical and pure-chance pipelines.
type Mode string

const (
	ModeStatistical Mode = "statistical"
	ModePureChance  Mode = "pure_chance"
)

// ParseMode validates a mode string. Empty means statistical.
func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ModeStatistical:
		return ModeStatistical, nil
	case ModePureChance:
		return ModePureChance, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, raw)
	}
}

// Recommended model parameters.
const (
	DefaultFreqWeight    = 0.6
	DefaultCoWeight      = 0.2
	DefaultNoiseStrength = 0.3
)

// Settings are the caller-owned model parameters for one request.
type Settings struct {
	FreqWeight    float64 `json:"freq_weight" yaml:"freq_weight" env:"LOTTO_FREQ_WEIGHT"`
	CoWeight      float64 `json:"co_weight" yaml:"co_weight" env:"LOTTO_CO_WEIGHT"`
	NoiseStrength float64 `json:"noise_strength" yaml:"noise_strength" env:"LOTTO_NOISE_STRENGTH"`
}

// DefaultSettings returns the recommended parameters.
func DefaultSettings() Settings {
	return Settings{
		FreqWeight:    DefaultFreqWeight,
		CoWeight:      DefaultCoWeight,
		NoiseStrength: DefaultNoiseStrength,
	}
}

// IsDefault reports whether s equals the recommended parameters.
func (s Settings) IsDefault() bool {
	return s == DefaultSettings()
}

// NoiseRange derives the multiplicative noise interval.
func (s Settings) NoiseRange() NoiseRange {
	return NoiseRange{Lo: 1 - s.NoiseStrength, Hi: 1 + s.NoiseStrength}
}

// Clamped returns s with every field limited to [0,1].
func (s Settings) Clamped() Settings {
	return Settings{
		FreqWeight:    clamp01(s.FreqWeight),
		CoWeight:      clamp01(s.CoWeight),
		NoiseStrength: clamp01(s.NoiseStrength),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// NoiseRange is the interval the per-number perturbation is drawn from.
type NoiseRange struct {
	Lo float64 `json:"lo"`
	Hi float64 `json:"hi"`
}

// Selection is the result of one generation request. LuckScore is cosmetic
// and is not a probability of winning.
type Selection struct {
	Variant   VariantID `json:"variant"`
	Mode      Mode      `json:"mode"`
	Numbers   []int     `json:"numbers"`
	Secondary *int      `json:"secondary,omitempty"`
	LuckScore int       `json:"luck_score"`
	Settings  *Settings `json:"settings,omitempty"`
}

// Format renders the main numbers zero-padded and joined with 、.
func (s Selection) Format() string {
	parts := make([]string, len(s.Numbers))
	for i, n := range s.Numbers {
		parts[i] = fmt.Sprintf("%02d", n)
	}
	return strings.Join(parts, "、")
}
