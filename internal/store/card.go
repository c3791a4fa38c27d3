package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/Adams-ibr/anatomia-study-api/internal/domain"
)

// CardStore defines the read-only view the scheduler has onto authored decks
// and cards. Authoring lives elsewhere on the platform; nothing here writes.
// Version: 1.0
type CardStore interface {
	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// DeckExists reports whether the deck exists.
	DeckExists(ctx context.Context, deckID uuid.UUID) (bool, error)

	// ListDue returns the cards in the deck that are due for the learner at
	// the given time: cards with no progress row (never studied) and cards
	// whose next review time has passed. Never-studied cards come first in
	// authoring order; overdue cards follow, earliest next review first.
	// The result is a snapshot; it is not re-evaluated as time passes.
	ListDue(ctx context.Context, learnerID, deckID uuid.UUID, now time.Time) ([]*domain.Card, error)

	// WithTx returns a CardStore bound to the given transaction.
	WithTx(tx *sql.Tx) CardStore
}
