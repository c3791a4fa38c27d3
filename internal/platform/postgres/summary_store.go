package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Adams-ibr/anatomia-study-api/internal/domain"
	"github.com/Adams-ibr/anatomia-study-api/internal/platform/logger"
	"github.com/Adams-ibr/anatomia-study-api/internal/redact"
	"github.com/Adams-ibr/anatomia-study-api/internal/store"
)

// PostgresSummaryStore implements the store.SummaryStore interface. The
// summary is computed in a single aggregate query; nothing is persisted.
type PostgresSummaryStore struct {
	db     store.DBTX
	logger *slog.Logger
	now    func() time.Time
}

// NewPostgresSummaryStore creates a new PostgreSQL implementation of the
// SummaryStore interface.
func NewPostgresSummaryStore(db store.DBTX, log *slog.Logger) *PostgresSummaryStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresSummaryStore{
		db:     db,
		logger: log.With(slog.String("component", "summary_store")),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Ensure PostgresSummaryStore implements store.SummaryStore interface
var _ store.SummaryStore = (*PostgresSummaryStore)(nil)

// GetDeckSummary implements store.SummaryStore.GetDeckSummary
func (s *PostgresSummaryStore) GetDeckSummary(
	ctx context.Context,
	learnerID, deckID uuid.UUID,
) (*store.DeckStudySummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT
			COUNT(*)                                                              AS total_cards,
			COUNT(p.card_id)                                                      AS studied_cards,
			COUNT(*) FILTER (WHERE p.card_id IS NULL OR p.next_review_at <= $3)   AS due_cards,
			COUNT(*) FILTER (WHERE p.mastery_level = $4)                          AS mastered
		FROM cards c
		LEFT JOIN review_progress p
			ON p.card_id = c.id AND p.learner_id = $1
		WHERE c.deck_id = $2
	`

	summary := store.DeckStudySummary{DeckID: deckID}
	err := s.db.QueryRowContext(ctx, query,
		learnerID, deckID, s.now(), domain.MaxMasteryLevel,
	).Scan(
		&summary.TotalCards,
		&summary.StudiedCards,
		&summary.DueCards,
		&summary.Mastered,
	)
	if err != nil {
		log.Error("failed to compute deck summary",
			slog.String("learner_id", learnerID.String()),
			slog.String("deck_id", deckID.String()),
			slog.String("error", redact.Error(err)))
		return nil, fmt.Errorf("failed to compute deck summary: %w", err)
	}

	return &summary, nil
}
