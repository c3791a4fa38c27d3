package store

import (
	"context"

	"github.com/google/uuid"
)

// AccessGate is the shape required of the platform's membership-tier gate.
// The scheduler consumes it strictly as a precondition: a false answer maps
// to Forbidden before any scheduling logic runs. The gate's decision logic
// (tier ordering, subscriptions, grace periods) belongs to the platform, not
// to this service.
type AccessGate interface {
	// CanAccessDeck reports whether the learner is entitled to study the
	// deck. Returns ErrDeckNotFound or ErrLearnerNotFound when either side
	// of the check does not exist.
	CanAccessDeck(ctx context.Context, learnerID, deckID uuid.UUID) (bool, error)
}
