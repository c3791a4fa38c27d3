package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Adams-ibr/anatomia-study-api/internal/platform/logger"
	"github.com/Adams-ibr/anatomia-study-api/internal/redact"
	"github.com/Adams-ibr/anatomia-study-api/internal/store"
)

// PostgresAccessGate implements the store.AccessGate interface against the
// platform's membership table. The decision itself is the ordinal comparison
// the platform defines for tiers; everything richer (billing state, grace
// periods) lives upstream of this table.
type PostgresAccessGate struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAccessGate creates a new PostgreSQL implementation of the
// AccessGate interface.
func NewPostgresAccessGate(db store.DBTX, log *slog.Logger) *PostgresAccessGate {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresAccessGate{
		db:     db,
		logger: log.With(slog.String("component", "access_gate")),
	}
}

// Ensure PostgresAccessGate implements store.AccessGate interface
var _ store.AccessGate = (*PostgresAccessGate)(nil)

// CanAccessDeck implements store.AccessGate.CanAccessDeck
func (g *PostgresAccessGate) CanAccessDeck(
	ctx context.Context,
	learnerID, deckID uuid.UUID,
) (bool, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)

	var deckTier int
	err := g.db.QueryRowContext(ctx,
		`SELECT tier_level FROM decks WHERE id = $1`, deckID,
	).Scan(&deckTier)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, store.ErrDeckNotFound
		}
		log.Error("failed to look up deck tier",
			slog.String("deck_id", deckID.String()),
			slog.String("error", redact.Error(err)))
		return false, fmt.Errorf("failed to look up deck tier: %w", err)
	}

	var learnerTier int
	err = g.db.QueryRowContext(ctx,
		`SELECT tier_level FROM memberships WHERE learner_id = $1`, learnerID,
	).Scan(&learnerTier)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, store.ErrLearnerNotFound
		}
		log.Error("failed to look up learner tier",
			slog.String("learner_id", learnerID.String()),
			slog.String("error", redact.Error(err)))
		return false, fmt.Errorf("failed to look up learner tier: %w", err)
	}

	return learnerTier >= deckTier, nil
}
