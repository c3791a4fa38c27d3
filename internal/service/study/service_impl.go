package study

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Adams-ibr/anatomia-study-api/internal/domain"
	"github.com/Adams-ibr/anatomia-study-api/internal/domain/srs"
	"github.com/Adams-ibr/anatomia-study-api/internal/platform/logger"
	"github.com/Adams-ibr/anatomia-study-api/internal/store"
)

// Verify interface compliance at compile time
var _ StudyService = (*studyServiceImpl)(nil)

// studyServiceImpl implements the StudyService interface.
type studyServiceImpl struct {
	cardStore     store.CardStore
	progressStore store.ProgressStore
	summaryStore  store.SummaryStore
	accessGate    store.AccessGate
	srsService    srs.Service
	txRunner      store.TxRunner
	clock         Clock
	logger        *slog.Logger
}

// NewStudyService creates a new StudyService implementation.
func NewStudyService(
	cardStore store.CardStore,
	progressStore store.ProgressStore,
	summaryStore store.SummaryStore,
	accessGate store.AccessGate,
	srsService srs.Service,
	txRunner store.TxRunner,
	clock Clock,
	log *slog.Logger,
) StudyService {
	if cardStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("cardStore cannot be nil")
	}
	if progressStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("progressStore cannot be nil")
	}
	if summaryStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("summaryStore cannot be nil")
	}
	if accessGate == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("accessGate cannot be nil")
	}
	if srsService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("srsService cannot be nil")
	}
	if txRunner == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("txRunner cannot be nil")
	}
	if clock == nil {
		clock = NewSystemClock()
	}
	if log == nil {
		log = slog.Default()
	}

	return &studyServiceImpl{
		cardStore:     cardStore,
		progressStore: progressStore,
		summaryStore:  summaryStore,
		accessGate:    accessGate,
		srsService:    srsService,
		txRunner:      txRunner,
		clock:         clock,
		logger:        log.With(slog.String("component", "study_service")),
	}
}

// SubmitReview implements StudyService.SubmitReview.
func (s *studyServiceImpl) SubmitReview(
	ctx context.Context,
	learnerID, cardID uuid.UUID,
	quality domain.ReviewQuality,
) (*domain.ReviewProgress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("processing review submission",
		slog.String("learner_id", learnerID.String()),
		slog.String("card_id", cardID.String()),
		slog.String("quality", string(quality)))

	// Reject malformed quality before the engine ever runs.
	if !quality.Valid() {
		log.Warn("invalid review quality",
			slog.String("learner_id", learnerID.String()),
			slog.String("card_id", cardID.String()),
			slog.String("quality", string(quality)))
		return nil, ErrInvalidQuality
	}

	card, err := s.cardStore.GetByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}

	if err := s.checkAccess(ctx, learnerID, card.DeckID); err != nil {
		return nil, err
	}

	// The read-compute-write sequence runs under a row lock so concurrent
	// submissions for the same (learner, card) pair serialize; each one
	// advances from the state the previous one committed.
	var updated *domain.ReviewProgress
	err = s.txRunner.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		progressRepo := s.progressStore.WithTx(tx)

		firstReview := false
		current, err := progressRepo.GetForUpdate(ctx, learnerID, cardID)
		if err != nil {
			if !errors.Is(err, store.ErrProgressNotFound) {
				return fmt.Errorf("failed to get review progress: %w", err)
			}
			// First-ever review of this card by this learner. No row means
			// FOR UPDATE locked nothing, so a concurrent first review may
			// be computing from the same absent state.
			firstReview = true
			current, err = domain.NewReviewProgress(learnerID, cardID)
			if err != nil {
				return fmt.Errorf("failed to create review progress: %w", err)
			}
		}

		next, err := s.srsService.Advance(current, quality, s.clock.Now())
		if err != nil {
			return fmt.Errorf("failed to advance review progress: %w", err)
		}

		// The unlocked first-review path must insert, never upsert: the
		// loser of a racing pair has to surface a conflict instead of
		// replacing the winner's committed row.
		if firstReview {
			err = progressRepo.Create(ctx, next)
		} else {
			err = progressRepo.Upsert(ctx, next)
		}
		if err != nil {
			if errors.Is(err, store.ErrConflict) {
				return err
			}
			return fmt.Errorf("failed to persist review progress: %w", err)
		}

		updated = next
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrReviewConflict
		}
		log.Error("failed to submit review",
			slog.String("learner_id", learnerID.String()),
			slog.String("card_id", cardID.String()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to submit review: %w", err)
	}

	log.Debug("review submission processed",
		slog.String("learner_id", learnerID.String()),
		slog.String("card_id", cardID.String()),
		slog.String("quality", string(quality)),
		slog.Int("mastery_level", updated.MasteryLevel),
		slog.Int("interval_days", updated.IntervalDays),
		slog.Int("repetition_count", updated.RepetitionCount),
		slog.Time("next_review_at", *updated.NextReviewAt))

	return updated, nil
}

// GetDueCards implements StudyService.GetDueCards.
func (s *studyServiceImpl) GetDueCards(
	ctx context.Context,
	learnerID, deckID uuid.UUID,
) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.checkDeck(ctx, learnerID, deckID); err != nil {
		return nil, err
	}

	cards, err := s.cardStore.ListDue(ctx, learnerID, deckID, s.clock.Now())
	if err != nil {
		log.Error("failed to list due cards",
			slog.String("learner_id", learnerID.String()),
			slog.String("deck_id", deckID.String()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list due cards: %w", err)
	}

	log.Debug("due cards listed",
		slog.String("learner_id", learnerID.String()),
		slog.String("deck_id", deckID.String()),
		slog.Int("count", len(cards)))

	return cards, nil
}

// GetDeckSummary implements StudyService.GetDeckSummary.
func (s *studyServiceImpl) GetDeckSummary(
	ctx context.Context,
	learnerID, deckID uuid.UUID,
) (*store.DeckStudySummary, error) {
	if err := s.checkDeck(ctx, learnerID, deckID); err != nil {
		return nil, err
	}

	summary, err := s.summaryStore.GetDeckSummary(ctx, learnerID, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to get deck summary: %w", err)
	}

	return summary, nil
}

// checkDeck verifies the deck exists and the learner may study it.
func (s *studyServiceImpl) checkDeck(ctx context.Context, learnerID, deckID uuid.UUID) error {
	exists, err := s.cardStore.DeckExists(ctx, deckID)
	if err != nil {
		return fmt.Errorf("failed to check deck existence: %w", err)
	}
	if !exists {
		return ErrDeckNotFound
	}

	return s.checkAccess(ctx, learnerID, deckID)
}

// checkAccess consults the membership gate. A missing membership record is a
// gate rejection, not a storage error.
func (s *studyServiceImpl) checkAccess(ctx context.Context, learnerID, deckID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	allowed, err := s.accessGate.CanAccessDeck(ctx, learnerID, deckID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrDeckNotFound):
			return ErrDeckNotFound
		case errors.Is(err, store.ErrLearnerNotFound):
			return ErrDeckAccessDenied
		}
		return fmt.Errorf("failed to check deck access: %w", err)
	}
	if !allowed {
		log.Debug("deck access denied",
			slog.String("learner_id", learnerID.String()),
			slog.String("deck_id", deckID.String()))
		return ErrDeckAccessDenied
	}

	return nil
}
