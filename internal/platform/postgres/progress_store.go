package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Adams-ibr/anatomia-study-api/internal/domain"
	"github.com/Adams-ibr/anatomia-study-api/internal/platform/logger"
	"github.com/Adams-ibr/anatomia-study-api/internal/redact"
	"github.com/Adams-ibr/anatomia-study-api/internal/store"
)

// PostgresProgressStore implements the store.ProgressStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProgressStore creates a new PostgreSQL implementation of the
// ProgressStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
func NewPostgresProgressStore(db store.DBTX, log *slog.Logger) *PostgresProgressStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresProgressStore{
		db:     db,
		logger: log.With(slog.String("component", "progress_store")),
	}
}

// Ensure PostgresProgressStore implements store.ProgressStore interface
var _ store.ProgressStore = (*PostgresProgressStore)(nil)

// WithTx implements store.ProgressStore.WithTx
func (s *PostgresProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return &PostgresProgressStore{
		db:     tx,
		logger: s.logger,
	}
}

const progressColumns = `
	learner_id, card_id, mastery_level, interval_days, repetition_count,
	last_reviewed_at, next_review_at, created_at, updated_at
`

// Get implements store.ProgressStore.Get
func (s *PostgresProgressStore) Get(
	ctx context.Context,
	learnerID, cardID uuid.UUID,
) (*domain.ReviewProgress, error) {
	query := `SELECT ` + progressColumns + `
		FROM review_progress
		WHERE learner_id = $1 AND card_id = $2`

	return s.getWithQuery(ctx, query, learnerID, cardID)
}

// GetForUpdate implements store.ProgressStore.GetForUpdate.
// The FOR UPDATE lock serializes concurrent reviews of the same pair: the
// second submission blocks until the first commits, then reads the freshly
// committed state instead of the stale one.
func (s *PostgresProgressStore) GetForUpdate(
	ctx context.Context,
	learnerID, cardID uuid.UUID,
) (*domain.ReviewProgress, error) {
	query := `SELECT ` + progressColumns + `
		FROM review_progress
		WHERE learner_id = $1 AND card_id = $2
		FOR UPDATE`

	return s.getWithQuery(ctx, query, learnerID, cardID)
}

func (s *PostgresProgressStore) getWithQuery(
	ctx context.Context,
	query string,
	learnerID, cardID uuid.UUID,
) (*domain.ReviewProgress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var progress domain.ReviewProgress
	err := s.db.QueryRowContext(ctx, query, learnerID, cardID).Scan(
		&progress.LearnerID,
		&progress.CardID,
		&progress.MasteryLevel,
		&progress.IntervalDays,
		&progress.RepetitionCount,
		&progress.LastReviewedAt,
		&progress.NextReviewAt,
		&progress.CreatedAt,
		&progress.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProgressNotFound
		}
		log.Error("failed to get review progress",
			slog.String("learner_id", learnerID.String()),
			slog.String("card_id", cardID.String()),
			slog.String("error", redact.Error(err)))
		return nil, fmt.Errorf("failed to get review progress: %w", err)
	}

	return &progress, nil
}

// Create implements store.ProgressStore.Create.
// A plain INSERT, deliberately without ON CONFLICT: when two first reviews
// race, FOR UPDATE locked nothing for either of them, and a DO UPDATE arm
// would let the loser overwrite the winner's committed row with state
// derived from the pre-review snapshot. The unique violation is the signal
// that the race was lost.
func (s *PostgresProgressStore) Create(ctx context.Context, progress *domain.ReviewProgress) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := progress.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO review_progress (
			learner_id, card_id, mastery_level, interval_days, repetition_count,
			last_reviewed_at, next_review_at, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.db.ExecContext(ctx, query,
		progress.LearnerID,
		progress.CardID,
		progress.MasteryLevel,
		progress.IntervalDays,
		progress.RepetitionCount,
		progress.LastReviewedAt,
		progress.NextReviewAt,
		progress.CreatedAt,
		progress.UpdatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err) || isRetryableConflict(err):
			log.Warn("lost first-review race",
				slog.String("learner_id", progress.LearnerID.String()),
				slog.String("card_id", progress.CardID.String()))
			return store.ErrConflict
		case isForeignKeyViolation(err):
			return fmt.Errorf("%w: unknown card or learner", store.ErrInvalidEntity)
		}
		log.Error("failed to create review progress",
			slog.String("learner_id", progress.LearnerID.String()),
			slog.String("card_id", progress.CardID.String()),
			slog.String("error", redact.Error(err)))
		return fmt.Errorf("failed to create review progress: %w", err)
	}

	return nil
}

// Upsert implements store.ProgressStore.Upsert.
// The row is written wholesale from the engine's computed state; ON CONFLICT
// replaces every scheduling column rather than merging. Callers reach this
// only after GetForUpdate returned the row, so the replace is lock-covered.
func (s *PostgresProgressStore) Upsert(ctx context.Context, progress *domain.ReviewProgress) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := progress.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO review_progress (
			learner_id, card_id, mastery_level, interval_days, repetition_count,
			last_reviewed_at, next_review_at, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (learner_id, card_id) DO UPDATE SET
			mastery_level    = EXCLUDED.mastery_level,
			interval_days    = EXCLUDED.interval_days,
			repetition_count = EXCLUDED.repetition_count,
			last_reviewed_at = EXCLUDED.last_reviewed_at,
			next_review_at   = EXCLUDED.next_review_at,
			updated_at       = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		progress.LearnerID,
		progress.CardID,
		progress.MasteryLevel,
		progress.IntervalDays,
		progress.RepetitionCount,
		progress.LastReviewedAt,
		progress.NextReviewAt,
		progress.CreatedAt,
		progress.UpdatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err) || isRetryableConflict(err):
			log.Warn("concurrent write conflict on review progress",
				slog.String("learner_id", progress.LearnerID.String()),
				slog.String("card_id", progress.CardID.String()))
			return store.ErrConflict
		case isForeignKeyViolation(err):
			return fmt.Errorf("%w: unknown card or learner", store.ErrInvalidEntity)
		}
		log.Error("failed to upsert review progress",
			slog.String("learner_id", progress.LearnerID.String()),
			slog.String("card_id", progress.CardID.String()),
			slog.String("error", redact.Error(err)))
		return fmt.Errorf("failed to upsert review progress: %w", err)
	}

	return nil
}
