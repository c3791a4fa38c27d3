package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Adams-ibr/anatomia-study-api/internal/domain"
	"github.com/Adams-ibr/anatomia-study-api/internal/platform/logger"
	"github.com/Adams-ibr/anatomia-study-api/internal/redact"
	"github.com/Adams-ibr/anatomia-study-api/internal/store"
)

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the
// CardStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller.
func NewPostgresCardStore(db store.DBTX, log *slog.Logger) *PostgresCardStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: log.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

// WithTx implements store.CardStore.WithTx
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{
		db:     tx,
		logger: s.logger,
	}
}

// GetByID implements store.CardStore.GetByID
func (s *PostgresCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, deck_id, front, back, position, created_at, updated_at
		FROM cards
		WHERE id = $1
	`

	var card domain.Card
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&card.ID,
		&card.DeckID,
		&card.Front,
		&card.Back,
		&card.Position,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to get card",
			slog.String("card_id", id.String()),
			slog.String("error", redact.Error(err)))
		return nil, fmt.Errorf("failed to get card: %w", err)
	}

	return &card, nil
}

// DeckExists implements store.CardStore.DeckExists
func (s *PostgresCardStore) DeckExists(ctx context.Context, deckID uuid.UUID) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM decks WHERE id = $1)`, deckID,
	).Scan(&exists)
	if err != nil {
		log.Error("failed to check deck existence",
			slog.String("deck_id", deckID.String()),
			slog.String("error", redact.Error(err)))
		return false, fmt.Errorf("failed to check deck existence: %w", err)
	}

	return exists, nil
}

// ListDue implements store.CardStore.ListDue.
//
// Never-studied cards (no progress row for the learner) surface before merely
// overdue cards, and authoring order breaks ties. Front-loading new material
// before backlog review is deliberate presentation policy, so the ordering is
// part of the query contract, not left to the caller.
func (s *PostgresCardStore) ListDue(
	ctx context.Context,
	learnerID, deckID uuid.UUID,
	now time.Time,
) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT c.id, c.deck_id, c.front, c.back, c.position, c.created_at, c.updated_at
		FROM cards c
		LEFT JOIN review_progress p
			ON p.card_id = c.id AND p.learner_id = $1
		WHERE c.deck_id = $2
			AND (p.card_id IS NULL OR p.next_review_at <= $3)
		ORDER BY
			CASE WHEN p.card_id IS NULL THEN 0 ELSE 1 END,
			p.next_review_at ASC NULLS FIRST,
			c.position ASC,
			c.created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, learnerID, deckID, now)
	if err != nil {
		log.Error("failed to query due cards",
			slog.String("learner_id", learnerID.String()),
			slog.String("deck_id", deckID.String()),
			slog.String("error", redact.Error(err)))
		return nil, fmt.Errorf("failed to query due cards: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var cards []*domain.Card
	for rows.Next() {
		var card domain.Card
		if err := rows.Scan(
			&card.ID,
			&card.DeckID,
			&card.Front,
			&card.Back,
			&card.Position,
			&card.CreatedAt,
			&card.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan due card: %w", err)
		}
		cards = append(cards, &card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate due cards: %w", err)
	}

	return cards, nil
}
