// Package srs implements the spaced-repetition scheduling engine. The engine
// is a pure transformation over review progress state: it performs no I/O,
// reads no clocks, and never mutates its input.
package srs

import (
	"errors"
	"time"

	"github.com/Adams-ibr/anatomia-study-api/internal/domain"
)

// Common errors
var (
	ErrNilProgress    = errors.New("review progress cannot be nil")
	ErrInvalidQuality = errors.New("invalid review quality")
)

// Service defines the interface for scheduling engine operations.
type Service interface {
	// Advance computes the successor scheduling state for a single review.
	// The given progress is treated as immutable; a new instance is
	// returned. now is supplied by the caller so the engine stays pure and
	// deterministic; the review service always passes the server clock.
	Advance(
		progress *domain.ReviewProgress,
		quality domain.ReviewQuality,
		now time.Time,
	) (*domain.ReviewProgress, error)
}

type service struct {
	params *Params
}

// NewService creates an SRS service with the given parameters.
// Passing nil params uses the defaults.
func NewService(params *Params) Service {
	if params == nil {
		params = NewDefaultParams()
	}
	return &service{params: params}
}

// Advance implements Service.Advance.
func (s *service) Advance(
	progress *domain.ReviewProgress,
	quality domain.ReviewQuality,
	now time.Time,
) (*domain.ReviewProgress, error) {
	if progress == nil {
		return nil, ErrNilProgress
	}

	// Callers validate quality before invoking the engine; this check is
	// the engine's own totality guarantee.
	if !quality.Valid() {
		return nil, ErrInvalidQuality
	}

	return calculateNextAdvance(progress, quality, now, s.params), nil
}
