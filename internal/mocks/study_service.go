package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/Adams-ibr/anatomia-study-api/internal/domain"
	"github.com/Adams-ibr/anatomia-study-api/internal/store"
)

// MockStudyService implements study.StudyService for testing
type MockStudyService struct {
	// Custom behavior functions
	SubmitReviewFn   func(ctx context.Context, learnerID, cardID uuid.UUID, quality domain.ReviewQuality) (*domain.ReviewProgress, error)
	GetDueCardsFn    func(ctx context.Context, learnerID, deckID uuid.UUID) ([]*domain.Card, error)
	GetDeckSummaryFn func(ctx context.Context, learnerID, deckID uuid.UUID) (*store.DeckStudySummary, error)

	// Default response values
	Progress *domain.ReviewProgress
	DueCards []*domain.Card
	Summary  *store.DeckStudySummary
	Err      error

	// Call tracking for verification
	SubmitReviewCalls struct {
		mu         sync.Mutex
		Count      int
		LearnerIDs []uuid.UUID
		CardIDs    []uuid.UUID
		Qualities  []domain.ReviewQuality
	}

	GetDueCardsCalls struct {
		mu         sync.Mutex
		Count      int
		LearnerIDs []uuid.UUID
		DeckIDs    []uuid.UUID
	}

	GetDeckSummaryCalls struct {
		mu         sync.Mutex
		Count      int
		LearnerIDs []uuid.UUID
		DeckIDs    []uuid.UUID
	}
}

// SubmitReview implements the study.StudyService interface
func (m *MockStudyService) SubmitReview(
	ctx context.Context,
	learnerID uuid.UUID,
	cardID uuid.UUID,
	quality domain.ReviewQuality,
) (*domain.ReviewProgress, error) {
	m.SubmitReviewCalls.mu.Lock()
	m.SubmitReviewCalls.Count++
	m.SubmitReviewCalls.LearnerIDs = append(m.SubmitReviewCalls.LearnerIDs, learnerID)
	m.SubmitReviewCalls.CardIDs = append(m.SubmitReviewCalls.CardIDs, cardID)
	m.SubmitReviewCalls.Qualities = append(m.SubmitReviewCalls.Qualities, quality)
	m.SubmitReviewCalls.mu.Unlock()

	if m.SubmitReviewFn != nil {
		return m.SubmitReviewFn(ctx, learnerID, cardID, quality)
	}

	return m.Progress, m.Err
}

// GetDueCards implements the study.StudyService interface
func (m *MockStudyService) GetDueCards(
	ctx context.Context,
	learnerID uuid.UUID,
	deckID uuid.UUID,
) ([]*domain.Card, error) {
	m.GetDueCardsCalls.mu.Lock()
	m.GetDueCardsCalls.Count++
	m.GetDueCardsCalls.LearnerIDs = append(m.GetDueCardsCalls.LearnerIDs, learnerID)
	m.GetDueCardsCalls.DeckIDs = append(m.GetDueCardsCalls.DeckIDs, deckID)
	m.GetDueCardsCalls.mu.Unlock()

	if m.GetDueCardsFn != nil {
		return m.GetDueCardsFn(ctx, learnerID, deckID)
	}

	return m.DueCards, m.Err
}

// GetDeckSummary implements the study.StudyService interface
func (m *MockStudyService) GetDeckSummary(
	ctx context.Context,
	learnerID uuid.UUID,
	deckID uuid.UUID,
) (*store.DeckStudySummary, error) {
	m.GetDeckSummaryCalls.mu.Lock()
	m.GetDeckSummaryCalls.Count++
	m.GetDeckSummaryCalls.LearnerIDs = append(m.GetDeckSummaryCalls.LearnerIDs, learnerID)
	m.GetDeckSummaryCalls.DeckIDs = append(m.GetDeckSummaryCalls.DeckIDs, deckID)
	m.GetDeckSummaryCalls.mu.Unlock()

	if m.GetDeckSummaryFn != nil {
		return m.GetDeckSummaryFn(ctx, learnerID, deckID)
	}

	return m.Summary, m.Err
}
