package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Adams-ibr/anatomia-study-api/internal/service/study"
	"github.com/Adams-ibr/anatomia-study-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authorization errors
	case errors.Is(err, study.ErrDeckAccessDenied):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, study.ErrCardNotFound),
		errors.Is(err, study.ErrDeckNotFound),
		errors.Is(err, store.ErrCardNotFound),
		errors.Is(err, store.ErrDeckNotFound):
		return http.StatusNotFound

	// Conflict errors: the client may retry immediately
	case errors.Is(err, study.ErrReviewConflict),
		errors.Is(err, store.ErrConflict):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, study.ErrInvalidQuality),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message based
// on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, study.ErrDeckAccessDenied):
		return "Your membership tier does not include this deck"

	case errors.Is(err, study.ErrCardNotFound), errors.Is(err, store.ErrCardNotFound):
		return "Card not found"

	case errors.Is(err, study.ErrDeckNotFound), errors.Is(err, store.ErrDeckNotFound):
		return "Deck not found"

	case errors.Is(err, study.ErrReviewConflict), errors.Is(err, store.ErrConflict):
		return "Another review for this card is in flight, please retry"

	case errors.Is(err, study.ErrInvalidQuality):
		return "Quality must be one of: again, good, easy"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format: "Key: 'SubmitReviewRequest.Quality' Error:Field
	// validation for 'Quality' failed on the 'oneof' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages.
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "uuid":
		return "invalid identifier format"
	case "oneof":
		return "invalid value"
	case "min":
		return "too short"
	case "max":
		return "too long"
	default:
		return "validation failed"
	}
}
