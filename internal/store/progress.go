package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/Adams-ibr/anatomia-study-api/internal/domain"
)

// ProgressStore defines the persistence contract for per-(learner, card)
// review progress. The review service is the sole writer; rows are created
// lazily on first review and mutated exactly once per subsequent review.
// Version: 1.0
type ProgressStore interface {
	// Get retrieves review progress for the (learner, card) pair.
	// Returns ErrProgressNotFound if the pair has never been reviewed.
	// This method takes no row lock; do not use it on the write path.
	Get(ctx context.Context, learnerID, cardID uuid.UUID) (*domain.ReviewProgress, error)

	// GetForUpdate retrieves review progress with a row-level lock
	// (SELECT ... FOR UPDATE). It must be called inside a transaction; the
	// lock serializes concurrent reviews of the same (learner, card) pair
	// so each one reads the state committed by the previous one.
	// Returns ErrProgressNotFound if the pair has never been reviewed.
	GetForUpdate(ctx context.Context, learnerID, cardID uuid.UUID) (*domain.ReviewProgress, error)

	// Create inserts the first progress row for a (learner, card) pair.
	// Returns ErrConflict when the row already exists: two first reviews
	// raced, neither held a row lock (FOR UPDATE on a missing row locks
	// nothing), and this insert lost. The caller maps that to a retryable
	// conflict rather than silently overwriting the winner's state.
	Create(ctx context.Context, progress *domain.ReviewProgress) error

	// Upsert replaces the progress row with the engine's computed state;
	// nothing is merged. Only valid after GetForUpdate returned the row,
	// so the replace happens under a row lock.
	Upsert(ctx context.Context, progress *domain.ReviewProgress) error

	// WithTx returns a ProgressStore bound to the given transaction.
	WithTx(tx *sql.Tx) ProgressStore
}

// DeckStudySummary aggregates a learner's standing in one deck. It is a pure
// read-model derived from cards and progress rows; nothing persists it.
type DeckStudySummary struct {
	DeckID       uuid.UUID `json:"deck_id"`
	TotalCards   int       `json:"total_cards"`
	StudiedCards int       `json:"studied_cards"`
	DueCards     int       `json:"due_cards"`
	Mastered     int       `json:"mastered"`
}

// SummaryStore computes read-only study summaries.
// Version: 1.0
type SummaryStore interface {
	// GetDeckSummary returns the learner's study summary for the deck.
	// Cards never studied count as due. Mastered means mastery at the cap.
	GetDeckSummary(ctx context.Context, learnerID, deckID uuid.UUID) (*DeckStudySummary, error)
}
