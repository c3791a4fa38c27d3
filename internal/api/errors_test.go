package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Adams-ibr/anatomia-study-api/internal/service/study"
	"github.com/Adams-ibr/anatomia-study-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{
			name:           "nil error",
			err:            nil,
			expectedStatus: http.StatusInternalServerError, // Default to 500 for nil error
		},
		{
			name:           "authorization error",
			err:            study.ErrDeckAccessDenied,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "wrapped authorization error",
			err:            fmt.Errorf("submit review: %w", study.ErrDeckAccessDenied),
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "card not found error",
			err:            study.ErrCardNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "deck not found error",
			err:            study.ErrDeckNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "store not found error",
			err:            store.ErrCardNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "review conflict error",
			err:            study.ErrReviewConflict,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "store conflict error",
			err:            store.ErrConflict,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "invalid quality error",
			err:            study.ErrInvalidQuality,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid entity error",
			err:            store.ErrInvalidEntity,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown error",
			err:            errors.New("something unexpected"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedStatus, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedMessage string
	}{
		{
			name:            "nil error",
			err:             nil,
			expectedMessage: "An unexpected error occurred",
		},
		{
			name:            "access denied",
			err:             study.ErrDeckAccessDenied,
			expectedMessage: "Your membership tier does not include this deck",
		},
		{
			name:            "card not found",
			err:             study.ErrCardNotFound,
			expectedMessage: "Card not found",
		},
		{
			name:            "deck not found",
			err:             fmt.Errorf("due query: %w", study.ErrDeckNotFound),
			expectedMessage: "Deck not found",
		},
		{
			name:            "review conflict",
			err:             study.ErrReviewConflict,
			expectedMessage: "Another review for this card is in flight, please retry",
		},
		{
			name:            "invalid quality",
			err:             study.ErrInvalidQuality,
			expectedMessage: "Quality must be one of: again, good, easy",
		},
		{
			name:            "internal detail is hidden",
			err:             errors.New("pq: connection refused host=10.0.0.3"),
			expectedMessage: "An unexpected error occurred",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedMessage, GetSafeErrorMessage(tc.err))
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedMessage string
	}{
		{
			name: "oneof tag",
			err: errors.New(
				"Key: 'SubmitReviewRequest.Quality' Error:Field validation for 'Quality' failed on the 'oneof' tag",
			),
			expectedMessage: "Invalid Quality: invalid value",
		},
		{
			name: "required tag",
			err: errors.New(
				"Key: 'SubmitReviewRequest.CardID' Error:Field validation for 'CardID' failed on the 'required' tag",
			),
			expectedMessage: "Invalid CardID: required field",
		},
		{
			name: "uuid tag",
			err: errors.New(
				"Key: 'SubmitReviewRequest.LearnerID' Error:Field validation for 'LearnerID' failed on the 'uuid' tag",
			),
			expectedMessage: "Invalid LearnerID: invalid identifier format",
		},
		{
			name:            "non-validation error",
			err:             errors.New("some other error"),
			expectedMessage: "Validation error",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedMessage, SanitizeValidationError(tc.err))
		})
	}
}
