package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Adams-ibr/anatomia-study-api/internal/api/shared"
	"github.com/Adams-ibr/anatomia-study-api/internal/domain"
	"github.com/Adams-ibr/anatomia-study-api/internal/platform/logger"
	"github.com/Adams-ibr/anatomia-study-api/internal/redact"
	"github.com/Adams-ibr/anatomia-study-api/internal/service/study"
	"github.com/Adams-ibr/anatomia-study-api/internal/store"
)

// CardResponse represents the response data for a due card.
type CardResponse struct {
	ID       string `json:"id"`
	DeckID   string `json:"deck_id"`
	Front    string `json:"front"`
	Back     string `json:"back"`
	Position int    `json:"position"`
}

// ReviewProgressResponse represents the response data for review progress.
type ReviewProgressResponse struct {
	LearnerID       string     `json:"learner_id"`
	CardID          string     `json:"card_id"`
	MasteryLevel    int        `json:"mastery_level"`
	IntervalDays    int        `json:"interval_days"`
	RepetitionCount int        `json:"repetition_count"`
	LastReviewedAt  *time.Time `json:"last_reviewed_at"`
	NextReviewAt    *time.Time `json:"next_review_at"`
}

// DeckSummaryResponse represents the response data for a deck study summary.
type DeckSummaryResponse struct {
	DeckID       string `json:"deck_id"`
	TotalCards   int    `json:"total_cards"`
	StudiedCards int    `json:"studied_cards"`
	DueCards     int    `json:"due_cards"`
	Mastered     int    `json:"mastered"`
}

// SubmitReviewRequest represents the request body for submitting a review.
type SubmitReviewRequest struct {
	LearnerID string `json:"learner_id" validate:"required,uuid"`
	CardID    string `json:"card_id"    validate:"required,uuid"`
	Quality   string `json:"quality"    validate:"required,oneof=again good easy"`
}

// StudyHandler handles study-scheduling HTTP requests.
type StudyHandler struct {
	studyService study.StudyService
	logger       *slog.Logger
}

// NewStudyHandler creates a new StudyHandler.
func NewStudyHandler(studyService study.StudyService, log *slog.Logger) *StudyHandler {
	if studyService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("studyService cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &StudyHandler{
		studyService: studyService,
		logger:       log.With(slog.String("component", "study_handler")),
	}
}

// GetDueCards handles GET /due?learner_id=&deck_id= requests.
// It returns the ordered due set for the learner and deck.
func (h *StudyHandler) GetDueCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, ok := h.parseQueryUUID(w, r, "learner_id")
	if !ok {
		return
	}
	deckID, ok := h.parseQueryUUID(w, r, "deck_id")
	if !ok {
		return
	}

	cards, err := h.studyService.GetDueCards(r.Context(), learnerID, deckID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	// Nothing due is a normal outcome, not an error.
	if len(cards) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	response := make([]CardResponse, 0, len(cards))
	for _, card := range cards {
		response = append(response, cardToResponse(card))
	}

	log.Debug("due cards returned",
		slog.String("learner_id", learnerID.String()),
		slog.String("deck_id", deckID.String()),
		slog.Int("count", len(response)))
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// SubmitReview handles POST /review requests.
// It processes one review submission and returns the updated progress.
func (h *StudyHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req SubmitReviewRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		log.Warn("validation error", slog.String("error", redact.Error(err)))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	// IDs are covered by the uuid validation tag above.
	learnerID := uuid.MustParse(req.LearnerID)
	cardID := uuid.MustParse(req.CardID)

	progress, err := h.studyService.SubmitReview(
		r.Context(),
		learnerID,
		cardID,
		domain.ReviewQuality(req.Quality),
	)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("review submitted",
		slog.String("learner_id", learnerID.String()),
		slog.String("card_id", cardID.String()),
		slog.String("quality", req.Quality))
	shared.RespondWithJSON(w, r, http.StatusOK, progressToResponse(progress))
}

// GetDeckSummary handles GET /decks/{id}/summary?learner_id= requests.
func (h *StudyHandler) GetDeckSummary(w http.ResponseWriter, r *http.Request) {
	deckID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck ID format")
		return
	}

	learnerID, ok := h.parseQueryUUID(w, r, "learner_id")
	if !ok {
		return
	}

	summary, err := h.studyService.GetDeckSummary(r.Context(), learnerID, deckID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summaryToResponse(summary))
}

// parseQueryUUID extracts a required UUID query parameter, responding with
// 400 on absence or malformed input.
func (h *StudyHandler) parseQueryUUID(
	w http.ResponseWriter,
	r *http.Request,
	name string,
) (uuid.UUID, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, name+" is required")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid "+name+" format")
		return uuid.Nil, false
	}

	return id, true
}

// cardToResponse converts a domain.Card to a CardResponse.
func cardToResponse(card *domain.Card) CardResponse {
	return CardResponse{
		ID:       card.ID.String(),
		DeckID:   card.DeckID.String(),
		Front:    card.Front,
		Back:     card.Back,
		Position: card.Position,
	}
}

// progressToResponse converts a domain.ReviewProgress to a ReviewProgressResponse.
func progressToResponse(progress *domain.ReviewProgress) ReviewProgressResponse {
	return ReviewProgressResponse{
		LearnerID:       progress.LearnerID.String(),
		CardID:          progress.CardID.String(),
		MasteryLevel:    progress.MasteryLevel,
		IntervalDays:    progress.IntervalDays,
		RepetitionCount: progress.RepetitionCount,
		LastReviewedAt:  progress.LastReviewedAt,
		NextReviewAt:    progress.NextReviewAt,
	}
}

// summaryToResponse converts a store.DeckStudySummary to a DeckSummaryResponse.
func summaryToResponse(summary *store.DeckStudySummary) DeckSummaryResponse {
	return DeckSummaryResponse{
		DeckID:       summary.DeckID.String(),
		TotalCards:   summary.TotalCards,
		StudiedCards: summary.StudiedCards,
		DueCards:     summary.DueCards,
		Mastered:     summary.Mastered,
	}
}
