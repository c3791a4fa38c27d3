package srs

import (
	"github.com/Adams-ibr/anatomia-study-api/internal/domain"
)

// Params defines all configurable parameters for the scheduling algorithm.
type Params struct {
	// MasteryDelta is applied to the mastery level per review quality.
	// The result is always clamped to [0, domain.MaxMasteryLevel].
	MasteryDelta map[domain.ReviewQuality]int

	// SeedIntervals are the intervals, in days, granted by the first
	// successful repetition after a lapse or on a brand-new card.
	SeedIntervals map[domain.ReviewQuality]int

	// GrowthFactor multiplies the previous interval on subsequent
	// successful repetitions. The easy factor must exceed the good factor
	// so that easier recalls push cards further out.
	GrowthFactor map[domain.ReviewQuality]float64

	// RelearnIntervalDays is the short fixed re-learning step applied on a
	// lapse. It never grows.
	RelearnIntervalDays int

	// MaxIntervalDays caps interval growth to keep cards on a periodic
	// re-exposure schedule.
	MaxIntervalDays int
}

// ParamsConfig allows overriding the default parameters when creating a new
// Params instance. Zero values keep the defaults.
type ParamsConfig struct {
	GoodSeedIntervalDays int
	EasySeedIntervalDays int
	GoodGrowthFactor     float64
	EasyGrowthFactor     float64
	RelearnIntervalDays  int
	MaxIntervalDays      int
}

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		MasteryDelta: map[domain.ReviewQuality]int{
			domain.ReviewQualityAgain: -1,
			domain.ReviewQualityGood:  1,
			domain.ReviewQualityEasy:  2,
		},
		SeedIntervals: map[domain.ReviewQuality]int{
			domain.ReviewQualityGood: 1,
			domain.ReviewQualityEasy: 2,
		},
		GrowthFactor: map[domain.ReviewQuality]float64{
			domain.ReviewQualityGood: 2.5,
			domain.ReviewQualityEasy: 3.5,
		},
		RelearnIntervalDays: 1,
		MaxIntervalDays:     365,
	}
}

// NewParams creates a new Params instance with custom configuration.
// Only fields explicitly set in the config override the defaults.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.GoodSeedIntervalDays > 0 {
		params.SeedIntervals[domain.ReviewQualityGood] = config.GoodSeedIntervalDays
	}
	if config.EasySeedIntervalDays > 0 {
		params.SeedIntervals[domain.ReviewQualityEasy] = config.EasySeedIntervalDays
	}
	if config.GoodGrowthFactor > 1 {
		params.GrowthFactor[domain.ReviewQualityGood] = config.GoodGrowthFactor
	}
	if config.EasyGrowthFactor > 1 {
		params.GrowthFactor[domain.ReviewQualityEasy] = config.EasyGrowthFactor
	}
	if config.RelearnIntervalDays > 0 {
		params.RelearnIntervalDays = config.RelearnIntervalDays
	}
	if config.MaxIntervalDays > 0 {
		params.MaxIntervalDays = config.MaxIntervalDays
	}

	return params
}
