package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ReviewQuality represents the learner's self-reported recall outcome for a
// single review.
type ReviewQuality string

// Possible review quality values
const (
	ReviewQualityAgain ReviewQuality = "again"
	ReviewQualityGood  ReviewQuality = "good"
	ReviewQualityEasy  ReviewQuality = "easy"
)

// MaxMasteryLevel is the upper bound for ReviewProgress.MasteryLevel.
const MaxMasteryLevel = 5

// Common validation errors for ReviewProgress
var (
	ErrEmptyProgressLearnerID = errors.New("review progress learner ID cannot be empty")
	ErrEmptyProgressCardID    = errors.New("review progress card ID cannot be empty")
	ErrInvalidMasteryLevel    = errors.New("mastery level must be between 0 and 5")
	ErrInvalidIntervalDays    = errors.New("interval days must be greater than or equal to 0")
	ErrInvalidRepetitionCount = errors.New("repetition count must be greater than or equal to 0")
	ErrInconsistentReviewTime = errors.New("next review time requires a last reviewed time")
	ErrInvalidReviewQuality   = errors.New("invalid review quality")
)

// Valid reports whether the quality is one of the three recognized values.
func (q ReviewQuality) Valid() bool {
	switch q {
	case ReviewQualityAgain, ReviewQualityGood, ReviewQualityEasy:
		return true
	default:
		return false
	}
}

// Successful reports whether the quality counts as a successful recall.
func (q ReviewQuality) Successful() bool {
	return q == ReviewQualityGood || q == ReviewQualityEasy
}

// ReviewProgress tracks a learner's spaced repetition scheduling state for a
// specific card. Exactly one row exists per (learner, card) pair that has ever
// been reviewed; it is created lazily on the first review. Only the scheduling
// engine may derive new values for it.
type ReviewProgress struct {
	LearnerID       uuid.UUID  `json:"learner_id"`
	CardID          uuid.UUID  `json:"card_id"`
	MasteryLevel    int        `json:"mastery_level"`    // Bounded recall strength, 0-5
	IntervalDays    int        `json:"interval_days"`    // Gap until the next scheduled review
	RepetitionCount int        `json:"repetition_count"` // Consecutive successful reviews since the last lapse
	LastReviewedAt  *time.Time `json:"last_reviewed_at"` // Nil if never reviewed
	NextReviewAt    *time.Time `json:"next_review_at"`   // Nil if never reviewed (due immediately)
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// NewReviewProgress creates the zero scheduling state for a learner and card.
// A fresh state has no review history and is due immediately.
func NewReviewProgress(learnerID, cardID uuid.UUID) (*ReviewProgress, error) {
	now := time.Now().UTC()
	progress := &ReviewProgress{
		LearnerID:       learnerID,
		CardID:          cardID,
		MasteryLevel:    0,
		IntervalDays:    0,
		RepetitionCount: 0,
		LastReviewedAt:  nil,
		NextReviewAt:    nil,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := progress.Validate(); err != nil {
		return nil, err
	}

	return progress, nil
}

// Validate checks if the ReviewProgress has valid data.
// Returns an error if any field fails validation.
func (p *ReviewProgress) Validate() error {
	if p.LearnerID == uuid.Nil {
		return ErrEmptyProgressLearnerID
	}

	if p.CardID == uuid.Nil {
		return ErrEmptyProgressCardID
	}

	if p.MasteryLevel < 0 || p.MasteryLevel > MaxMasteryLevel {
		return ErrInvalidMasteryLevel
	}

	if p.IntervalDays < 0 {
		return ErrInvalidIntervalDays
	}

	if p.RepetitionCount < 0 {
		return ErrInvalidRepetitionCount
	}

	if p.NextReviewAt != nil && p.LastReviewedAt == nil {
		return ErrInconsistentReviewTime
	}

	return nil
}

// Reviewed reports whether the card has ever been reviewed by the learner.
func (p *ReviewProgress) Reviewed() bool {
	return p.LastReviewedAt != nil
}

// Due reports whether the card is due for review at the given time.
// A card that has never been reviewed is always due.
func (p *ReviewProgress) Due(now time.Time) bool {
	if p.NextReviewAt == nil {
		return true
	}
	return !p.NextReviewAt.After(now)
}
