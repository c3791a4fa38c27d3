package srs

import (
	"math"
	"time"

	"github.com/Adams-ibr/anatomia-study-api/internal/domain"
)

// calculateNewMasteryLevel applies the quality's mastery delta and clamps the
// result to [0, domain.MaxMasteryLevel].
func calculateNewMasteryLevel(
	currentLevel int,
	quality domain.ReviewQuality,
	params *Params,
) int {
	newLevel := currentLevel + params.MasteryDelta[quality]

	if newLevel < 0 {
		newLevel = 0
	}
	if newLevel > domain.MaxMasteryLevel {
		newLevel = domain.MaxMasteryLevel
	}

	return newLevel
}

// calculateNewInterval determines the new interval in days after a review.
//
// A lapse always resets to the short re-learning step. The first successful
// repetition after a lapse (or on a brand-new card) seeds the interval from
// params; later repetitions multiply the previous interval by the quality's
// growth factor, rounded up, and never shrink. Growth is capped at
// params.MaxIntervalDays.
//
// newRepetitionCount is the repetition count AFTER the review being applied,
// so a value of 1 means the seeding step.
func calculateNewInterval(
	currentInterval int,
	newRepetitionCount int,
	quality domain.ReviewQuality,
	params *Params,
) int {
	if quality == domain.ReviewQualityAgain {
		return params.RelearnIntervalDays
	}

	if newRepetitionCount <= 1 || currentInterval <= 0 {
		return params.SeedIntervals[quality]
	}

	newInterval := int(math.Ceil(float64(currentInterval) * params.GrowthFactor[quality]))
	if newInterval <= currentInterval {
		// Rounding must never stall the schedule
		newInterval = currentInterval + 1
	}

	if newInterval > params.MaxIntervalDays {
		newInterval = params.MaxIntervalDays
	}

	return newInterval
}

// calculateNextAdvance builds the successor scheduling state for a review.
//
// The input state is never mutated; a new ReviewProgress is returned with the
// review applied. NextReviewAt is always LastReviewedAt plus the new interval.
func calculateNextAdvance(
	progress *domain.ReviewProgress,
	quality domain.ReviewQuality,
	now time.Time,
	params *Params,
) *domain.ReviewProgress {
	next := &domain.ReviewProgress{
		LearnerID:       progress.LearnerID,
		CardID:          progress.CardID,
		MasteryLevel:    progress.MasteryLevel,
		IntervalDays:    progress.IntervalDays,
		RepetitionCount: progress.RepetitionCount,
		LastReviewedAt:  progress.LastReviewedAt,
		NextReviewAt:    progress.NextReviewAt,
		CreatedAt:       progress.CreatedAt,
		UpdatedAt:       progress.UpdatedAt,
	}

	if quality.Successful() {
		next.RepetitionCount = progress.RepetitionCount + 1
	} else {
		next.RepetitionCount = 0
	}

	next.MasteryLevel = calculateNewMasteryLevel(progress.MasteryLevel, quality, params)
	next.IntervalDays = calculateNewInterval(
		progress.IntervalDays,
		next.RepetitionCount,
		quality,
		params,
	)

	reviewedAt := now
	nextReviewAt := now.AddDate(0, 0, next.IntervalDays)
	next.LastReviewedAt = &reviewedAt
	next.NextReviewAt = &nextReviewAt
	next.UpdatedAt = now

	return next
}
