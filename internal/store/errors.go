package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store. This is the generic version of the entity-specific not found
	// errors below.
	ErrNotFound = errors.New("entity not found")

	// ErrConflict is returned when an operation loses a write race on a
	// row, e.g. two concurrent first reviews both trying to create the same
	// progress row. Callers may retry immediately: the retry re-reads the
	// now-current state and recomputes correctly.
	ErrConflict = errors.New("concurrent write conflict")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// Entity-specific "not found" errors

	// ErrDeckNotFound indicates that the requested deck does not exist.
	ErrDeckNotFound = fmt.Errorf("%w: deck", ErrNotFound)

	// ErrCardNotFound indicates that the requested card does not exist.
	ErrCardNotFound = fmt.Errorf("%w: card", ErrNotFound)

	// ErrProgressNotFound indicates that no review progress exists yet for
	// the (learner, card) pair. This is the normal state before the first
	// review, not a failure.
	ErrProgressNotFound = fmt.Errorf("%w: review progress", ErrNotFound)

	// ErrLearnerNotFound indicates that the learner has no membership record.
	ErrLearnerNotFound = fmt.Errorf("%w: learner", ErrNotFound)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
