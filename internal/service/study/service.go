// Package study orchestrates flashcard review submissions and due-set
// queries on top of the scheduling engine and the persistence contracts.
package study

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Adams-ibr/anatomia-study-api/internal/domain"
	"github.com/Adams-ibr/anatomia-study-api/internal/store"
)

// Common error types for StudyService
var (
	// ErrCardNotFound indicates that the card does not exist.
	ErrCardNotFound = errors.New("card not found")

	// ErrDeckNotFound indicates that the deck does not exist.
	ErrDeckNotFound = errors.New("deck not found")

	// ErrDeckAccessDenied indicates that the learner's membership tier does
	// not grant access to the deck. Callers recover by redirecting to an
	// upgrade flow, not by retrying.
	ErrDeckAccessDenied = errors.New("deck access denied")

	// ErrInvalidQuality indicates a review quality outside again/good/easy.
	ErrInvalidQuality = errors.New("invalid review quality")

	// ErrReviewConflict indicates a concurrent-write conflict on the same
	// progress row. Safe to retry immediately: the retry re-reads the
	// now-current state and recomputes.
	ErrReviewConflict = errors.New("concurrent review conflict")
)

// StudyService exposes the scheduler's two public operations plus the
// per-deck study summary read-model.
type StudyService interface {
	// SubmitReview processes a single review submission for a learner and
	// card and returns the freshly persisted scheduling state.
	//
	// The pipeline is: validate quality, verify the card exists, check the
	// access gate, then within one transaction load the current progress
	// under a row lock (or start from the zero state on a first review),
	// advance it through the scheduling engine with the server clock, and
	// persist the result. Exactly one row is written per call.
	//
	// Returns ErrInvalidQuality, ErrCardNotFound, ErrDeckAccessDenied, or
	// ErrReviewConflict for the recoverable conditions; any other error is
	// a storage failure.
	SubmitReview(
		ctx context.Context,
		learnerID, cardID uuid.UUID,
		quality domain.ReviewQuality,
	) (*domain.ReviewProgress, error)

	// GetDueCards returns the cards in the deck due for the learner right
	// now, never-studied cards first (authoring order), then overdue cards
	// by earliest next review. The result is a snapshot: re-querying later
	// may differ as time passes and reviews land, but one call's result is
	// stable.
	//
	// Returns ErrDeckNotFound or ErrDeckAccessDenied for the recoverable
	// conditions.
	GetDueCards(ctx context.Context, learnerID, deckID uuid.UUID) ([]*domain.Card, error)

	// GetDeckSummary returns the learner's aggregate standing in the deck
	// (total, studied, due, mastered card counts). Read-only.
	GetDeckSummary(ctx context.Context, learnerID, deckID uuid.UUID) (*store.DeckStudySummary, error)
}
