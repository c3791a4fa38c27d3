package study

import (
	"time"

	"github.com/Adams-ibr/anatomia-study-api/internal/domain"
)

// Session accumulates per-session study counters on the caller's side. It has
// no durable state: the server never computes or stores session aggregates,
// and a session can always be rebuilt from the sequence of review responses.
// A session is complete once the caller has iterated past the last card of
// the due set it fetched at session start.
type Session struct {
	StartedAt time.Time `json:"started_at"`
	Reviewed  int       `json:"reviewed"`
	Correct   int       `json:"correct"`
}

// NewSession starts a session at the given time.
func NewSession(startedAt time.Time) *Session {
	return &Session{StartedAt: startedAt}
}

// Record counts one submitted review. Successful recalls (good, easy) count
// as correct; lapses do not. Unrecognized qualities are ignored because the
// review service already rejected them.
func (s *Session) Record(quality domain.ReviewQuality) {
	if !quality.Valid() {
		return
	}
	s.Reviewed++
	if quality.Successful() {
		s.Correct++
	}
}

// Accuracy returns the fraction of reviews recalled successfully, or 0 for
// an empty session.
func (s *Session) Accuracy() float64 {
	if s.Reviewed == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Reviewed)
}

// Elapsed returns the session duration as of now.
func (s *Session) Elapsed(now time.Time) time.Duration {
	return now.Sub(s.StartedAt)
}
