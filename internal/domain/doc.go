// Package domain contains the core entities of the study scheduler:
// decks, cards, and per-learner review progress. Entities validate
// themselves and carry no persistence or transport concerns.
package domain
