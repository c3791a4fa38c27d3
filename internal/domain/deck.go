package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Deck-specific validation errors
var (
	// ErrDeckIDEmpty is returned when a deck ID is empty or nil.
	ErrDeckIDEmpty = errors.New("deck ID cannot be empty")

	// ErrDeckTitleEmpty is returned when a deck's title is empty.
	ErrDeckTitleEmpty = errors.New("deck title cannot be empty")

	// ErrDeckInvalidTier is returned when a deck's tier level is negative.
	ErrDeckInvalidTier = errors.New("deck tier level must be greater than or equal to 0")
)

// Deck represents a named collection of flashcards authored on the content
// platform. Decks are created and edited by content authors; the scheduler
// only ever reads them. TierLevel is the minimum membership tier required to
// study the deck and is consumed by the access gate, not by scheduling logic.
type Deck struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	TierLevel   int       `json:"tier_level"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewDeck creates a new Deck with the given title, description, and tier level.
// It generates a new UUID for the deck ID and sets the creation/update timestamps.
// Returns an error if validation fails.
func NewDeck(title, description string, tierLevel int) (*Deck, error) {
	now := time.Now().UTC()
	deck := &Deck{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		TierLevel:   tierLevel,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := deck.Validate(); err != nil {
		return nil, err
	}

	return deck, nil
}

// Validate checks if the Deck has valid data.
// Returns an error if any field fails validation.
func (d *Deck) Validate() error {
	if d.ID == uuid.Nil {
		return ErrDeckIDEmpty
	}

	if d.Title == "" {
		return ErrDeckTitleEmpty
	}

	if d.TierLevel < 0 {
		return ErrDeckInvalidTier
	}

	return nil
}
