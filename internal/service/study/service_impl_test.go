package study

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adams-ibr/anatomia-study-api/internal/domain"
	"github.com/Adams-ibr/anatomia-study-api/internal/domain/srs"
	"github.com/Adams-ibr/anatomia-study-api/internal/store"
)

var testNow = time.Date(2026, 5, 2, 12, 0, 0, 0, time.UTC)

// fixedClock pins the server clock for deterministic scheduling.
type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time { return c.t }

type progressKey struct {
	learnerID uuid.UUID
	cardID    uuid.UUID
}

// fakeProgressStore is an in-memory ProgressStore. It is safe for concurrent
// use; serialization of read-modify-write cycles comes from fakeTxRunner,
// mirroring the row lock the postgres store takes inside a transaction.
type fakeProgressStore struct {
	mu   sync.Mutex
	rows map[progressKey]*domain.ReviewProgress
}

func newFakeProgressStore() *fakeProgressStore {
	return &fakeProgressStore{rows: make(map[progressKey]*domain.ReviewProgress)}
}

func (f *fakeProgressStore) Get(_ context.Context, learnerID, cardID uuid.UUID) (*domain.ReviewProgress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	row, ok := f.rows[progressKey{learnerID, cardID}]
	if !ok {
		return nil, store.ErrProgressNotFound
	}
	copied := *row
	return &copied, nil
}

func (f *fakeProgressStore) GetForUpdate(ctx context.Context, learnerID, cardID uuid.UUID) (*domain.ReviewProgress, error) {
	return f.Get(ctx, learnerID, cardID)
}

func (f *fakeProgressStore) Create(_ context.Context, progress *domain.ReviewProgress) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := progressKey{progress.LearnerID, progress.CardID}
	if _, exists := f.rows[key]; exists {
		// Unique index rejection, as the real store reports it.
		return store.ErrConflict
	}
	copied := *progress
	f.rows[key] = &copied
	return nil
}

func (f *fakeProgressStore) Upsert(_ context.Context, progress *domain.ReviewProgress) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	copied := *progress
	f.rows[progressKey{progress.LearnerID, progress.CardID}] = &copied
	return nil
}

func (f *fakeProgressStore) WithTx(_ *sql.Tx) store.ProgressStore { return f }

// unlockedFirstReviewStore models the window where a progress row is not yet
// visible to racing first reviews: FOR UPDATE on a missing row locks nothing,
// so while hidden is set every locked read reports an absent row even after
// a concurrent insert landed. Only Create still sees the truth.
type unlockedFirstReviewStore struct {
	*fakeProgressStore
	hidden bool
}

func (s *unlockedFirstReviewStore) GetForUpdate(ctx context.Context, learnerID, cardID uuid.UUID) (*domain.ReviewProgress, error) {
	if s.hidden {
		return nil, store.ErrProgressNotFound
	}
	return s.fakeProgressStore.GetForUpdate(ctx, learnerID, cardID)
}

func (s *unlockedFirstReviewStore) WithTx(_ *sql.Tx) store.ProgressStore { return s }

func (f *fakeProgressStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

// fakeCardStore is an in-memory CardStore honoring the ListDue ordering
// contract: never-studied cards first in authoring order, then overdue cards
// by earliest next review.
type fakeCardStore struct {
	decks    map[uuid.UUID]bool
	cards    map[uuid.UUID]*domain.Card
	progress *fakeProgressStore
}

func newFakeCardStore(progress *fakeProgressStore) *fakeCardStore {
	return &fakeCardStore{
		decks:    make(map[uuid.UUID]bool),
		cards:    make(map[uuid.UUID]*domain.Card),
		progress: progress,
	}
}

func (f *fakeCardStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Card, error) {
	card, ok := f.cards[id]
	if !ok {
		return nil, store.ErrCardNotFound
	}
	return card, nil
}

func (f *fakeCardStore) DeckExists(_ context.Context, deckID uuid.UUID) (bool, error) {
	return f.decks[deckID], nil
}

func (f *fakeCardStore) ListDue(_ context.Context, learnerID, deckID uuid.UUID, now time.Time) ([]*domain.Card, error) {
	type entry struct {
		card *domain.Card
		next *time.Time
	}

	var entries []entry
	for _, card := range f.cards {
		if card.DeckID != deckID {
			continue
		}
		row, err := f.progress.Get(context.Background(), learnerID, card.ID)
		if err != nil {
			entries = append(entries, entry{card: card})
			continue
		}
		if row.NextReviewAt != nil && row.NextReviewAt.After(now) {
			continue
		}
		entries = append(entries, entry{card: card, next: row.NextReviewAt})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if (a.next == nil) != (b.next == nil) {
			return a.next == nil
		}
		if a.next != nil && !a.next.Equal(*b.next) {
			return a.next.Before(*b.next)
		}
		return a.card.Position < b.card.Position
	})

	cards := make([]*domain.Card, len(entries))
	for i, e := range entries {
		cards[i] = e.card
	}
	return cards, nil
}

func (f *fakeCardStore) WithTx(_ *sql.Tx) store.CardStore { return f }

// fakeAccessGate decides by ordinal tier comparison, like the platform gate.
type fakeAccessGate struct {
	deckTiers    map[uuid.UUID]int
	learnerTiers map[uuid.UUID]int
}

func (f *fakeAccessGate) CanAccessDeck(_ context.Context, learnerID, deckID uuid.UUID) (bool, error) {
	deckTier, ok := f.deckTiers[deckID]
	if !ok {
		return false, store.ErrDeckNotFound
	}
	learnerTier, ok := f.learnerTiers[learnerID]
	if !ok {
		return false, store.ErrLearnerNotFound
	}
	return learnerTier >= deckTier, nil
}

// fakeTxRunner serializes transaction bodies with a mutex, standing in for
// the row lock the real store takes.
type fakeTxRunner struct {
	mu sync.Mutex
}

func (f *fakeTxRunner) RunInTx(ctx context.Context, fn store.TxFn) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(ctx, nil)
}

// fakeSummaryStore returns a canned summary.
type fakeSummaryStore struct {
	summary *store.DeckStudySummary
}

func (f *fakeSummaryStore) GetDeckSummary(_ context.Context, _, deckID uuid.UUID) (*store.DeckStudySummary, error) {
	if f.summary == nil {
		return &store.DeckStudySummary{DeckID: deckID}, nil
	}
	return f.summary, nil
}

// fixture wires a service over fakes with one deck and one learner that may
// access it.
type fixture struct {
	svc       StudyService
	progress  *fakeProgressStore
	cards     *fakeCardStore
	gate      *fakeAccessGate
	learnerID uuid.UUID
	deckID    uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	progress := newFakeProgressStore()
	cards := newFakeCardStore(progress)
	learnerID := uuid.New()
	deckID := uuid.New()

	cards.decks[deckID] = true
	gate := &fakeAccessGate{
		deckTiers:    map[uuid.UUID]int{deckID: 1},
		learnerTiers: map[uuid.UUID]int{learnerID: 1},
	}

	svc := NewStudyService(
		cards,
		progress,
		&fakeSummaryStore{},
		gate,
		srs.NewService(nil),
		&fakeTxRunner{},
		fixedClock{t: testNow},
		nil,
	)

	return &fixture{
		svc:       svc,
		progress:  progress,
		cards:     cards,
		gate:      gate,
		learnerID: learnerID,
		deckID:    deckID,
	}
}

func (f *fixture) addCard(t *testing.T, position int) *domain.Card {
	t.Helper()
	card, err := domain.NewCard(f.deckID, "front", "back", position)
	require.NoError(t, err)
	f.cards.cards[card.ID] = card
	return card
}

func TestSubmitReviewFirstTime(t *testing.T) {
	f := newFixture(t)
	card := f.addCard(t, 0)

	progress, err := f.svc.SubmitReview(context.Background(), f.learnerID, card.ID, domain.ReviewQualityGood)
	require.NoError(t, err)

	assert.Equal(t, 1, progress.RepetitionCount)
	assert.Equal(t, 1, progress.MasteryLevel)
	assert.Equal(t, 1, progress.IntervalDays)
	require.NotNil(t, progress.NextReviewAt)
	assert.Equal(t, testNow.AddDate(0, 0, 1), *progress.NextReviewAt)
	assert.Equal(t, 1, f.progress.count(), "exactly one row is written")
}

func TestSubmitReviewLapse(t *testing.T) {
	f := newFixture(t)
	card := f.addCard(t, 0)

	reviewed := testNow.AddDate(0, 0, -10)
	next := testNow
	require.NoError(t, f.progress.Upsert(context.Background(), &domain.ReviewProgress{
		LearnerID:       f.learnerID,
		CardID:          card.ID,
		MasteryLevel:    4,
		IntervalDays:    10,
		RepetitionCount: 3,
		LastReviewedAt:  &reviewed,
		NextReviewAt:    &next,
		CreatedAt:       reviewed,
		UpdatedAt:       reviewed,
	}))

	progress, err := f.svc.SubmitReview(context.Background(), f.learnerID, card.ID, domain.ReviewQualityAgain)
	require.NoError(t, err)

	assert.Equal(t, 0, progress.RepetitionCount)
	assert.Equal(t, 1, progress.IntervalDays)
	assert.Equal(t, testNow.AddDate(0, 0, 1), *progress.NextReviewAt)
}

func TestSubmitReviewInvalidQuality(t *testing.T) {
	f := newFixture(t)
	card := f.addCard(t, 0)

	_, err := f.svc.SubmitReview(context.Background(), f.learnerID, card.ID, domain.ReviewQuality("maybe"))
	assert.ErrorIs(t, err, ErrInvalidQuality)
	assert.Equal(t, 0, f.progress.count(), "no state mutation on rejected quality")
}

func TestSubmitReviewCardNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SubmitReview(context.Background(), f.learnerID, uuid.New(), domain.ReviewQualityGood)
	assert.ErrorIs(t, err, ErrCardNotFound)
}

func TestSubmitReviewAccessDenied(t *testing.T) {
	f := newFixture(t)
	card := f.addCard(t, 0)

	// Tier too low for the deck.
	f.gate.learnerTiers[f.learnerID] = 0

	_, err := f.svc.SubmitReview(context.Background(), f.learnerID, card.ID, domain.ReviewQualityGood)
	assert.ErrorIs(t, err, ErrDeckAccessDenied)
	assert.Equal(t, 0, f.progress.count())
}

func TestSubmitReviewUnknownLearnerIsDenied(t *testing.T) {
	f := newFixture(t)
	card := f.addCard(t, 0)

	_, err := f.svc.SubmitReview(context.Background(), uuid.New(), card.ID, domain.ReviewQualityGood)
	assert.ErrorIs(t, err, ErrDeckAccessDenied)
}

// TestSubmitReviewConcurrent verifies the no-double-advance property: two
// concurrent submissions for the same (learner, card) pair must apply two
// sequential engine advances, never one.
func TestSubmitReviewConcurrent(t *testing.T) {
	f := newFixture(t)
	card := f.addCard(t, 0)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.SubmitReview(context.Background(), f.learnerID, card.ID, domain.ReviewQualityGood)
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	final, err := f.progress.Get(context.Background(), f.learnerID, card.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, final.RepetitionCount,
		"both submissions must advance from the committed state")
	assert.Equal(t, 2, final.MasteryLevel)
	assert.Equal(t, 3, final.IntervalDays,
		"the second advance grows the first advance's interval")
}

// TestSubmitReviewFirstReviewRace covers two first reviews whose locked
// reads both miss the row. The insert decides the winner; the loser must
// surface a retryable conflict instead of overwriting the winner's committed
// state, and the retry then advances from that state.
func TestSubmitReviewFirstReviewRace(t *testing.T) {
	inner := newFakeProgressStore()
	progress := &unlockedFirstReviewStore{fakeProgressStore: inner, hidden: true}
	cards := newFakeCardStore(inner)
	learnerID := uuid.New()
	deckID := uuid.New()
	cards.decks[deckID] = true
	gate := &fakeAccessGate{
		deckTiers:    map[uuid.UUID]int{deckID: 1},
		learnerTiers: map[uuid.UUID]int{learnerID: 1},
	}

	svc := NewStudyService(
		cards,
		progress,
		&fakeSummaryStore{},
		gate,
		srs.NewService(nil),
		&fakeTxRunner{},
		fixedClock{t: testNow},
		nil,
	)

	card, err := domain.NewCard(deckID, "front", "back", 0)
	require.NoError(t, err)
	cards.cards[card.ID] = card

	// Winner: computes from absent state and inserts first.
	winner, err := svc.SubmitReview(context.Background(), learnerID, card.ID, domain.ReviewQualityGood)
	require.NoError(t, err)
	assert.Equal(t, 1, winner.RepetitionCount)

	// Loser: its locked read also missed, so its insert hits the unique
	// index and the submission fails as retryable.
	_, err = svc.SubmitReview(context.Background(), learnerID, card.ID, domain.ReviewQualityGood)
	assert.ErrorIs(t, err, ErrReviewConflict)

	final, err := inner.Get(context.Background(), learnerID, card.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, final.RepetitionCount,
		"loser must not overwrite the winner's row with stale-derived state")

	// Retry after the race window: the locked read now sees the winner's
	// row, so the second advance stacks on the first.
	progress.hidden = false
	retried, err := svc.SubmitReview(context.Background(), learnerID, card.ID, domain.ReviewQualityGood)
	require.NoError(t, err)
	assert.Equal(t, 2, retried.RepetitionCount)
	assert.Equal(t, 2, retried.MasteryLevel)
	assert.Equal(t, 3, retried.IntervalDays)
}

func TestGetDueCardsOrdering(t *testing.T) {
	f := newFixture(t)

	// Five cards: two reviewed (one due, one not due), three never touched.
	reviewedDue := f.addCard(t, 0)
	reviewedLater := f.addCard(t, 1)
	untouched := []*domain.Card{f.addCard(t, 2), f.addCard(t, 3), f.addCard(t, 4)}

	lastReviewed := testNow.AddDate(0, 0, -3)
	due := testNow.Add(-time.Hour)
	notDue := testNow.AddDate(0, 0, 5)
	require.NoError(t, f.progress.Upsert(context.Background(), &domain.ReviewProgress{
		LearnerID: f.learnerID, CardID: reviewedDue.ID,
		MasteryLevel: 2, IntervalDays: 3, RepetitionCount: 2,
		LastReviewedAt: &lastReviewed, NextReviewAt: &due,
	}))
	require.NoError(t, f.progress.Upsert(context.Background(), &domain.ReviewProgress{
		LearnerID: f.learnerID, CardID: reviewedLater.ID,
		MasteryLevel: 3, IntervalDays: 8, RepetitionCount: 3,
		LastReviewedAt: &lastReviewed, NextReviewAt: &notDue,
	}))

	cards, err := f.svc.GetDueCards(context.Background(), f.learnerID, f.deckID)
	require.NoError(t, err)
	require.Len(t, cards, 4, "three untouched plus one due card")

	// Never-studied cards first in authoring order, then the overdue card.
	for i, want := range untouched {
		assert.Equal(t, want.ID, cards[i].ID, "untouched card %d out of order", i)
	}
	assert.Equal(t, reviewedDue.ID, cards[3].ID, "overdue card comes last")
}

func TestGetDueCardsIdempotentRead(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 4; i++ {
		f.addCard(t, i)
	}

	first, err := f.svc.GetDueCards(context.Background(), f.learnerID, f.deckID)
	require.NoError(t, err)
	second, err := f.svc.GetDueCards(context.Background(), f.learnerID, f.deckID)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID, "order must be stable at position %d", i)
	}
}

func TestGetDueCardsDeckNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetDueCards(context.Background(), f.learnerID, uuid.New())
	assert.ErrorIs(t, err, ErrDeckNotFound)
}

func TestGetDueCardsAccessDenied(t *testing.T) {
	f := newFixture(t)
	f.gate.learnerTiers[f.learnerID] = 0

	_, err := f.svc.GetDueCards(context.Background(), f.learnerID, f.deckID)
	assert.ErrorIs(t, err, ErrDeckAccessDenied)
}

func TestGetDeckSummary(t *testing.T) {
	f := newFixture(t)

	summary, err := f.svc.GetDeckSummary(context.Background(), f.learnerID, f.deckID)
	require.NoError(t, err)
	assert.Equal(t, f.deckID, summary.DeckID)

	f.gate.learnerTiers[f.learnerID] = 0
	_, err = f.svc.GetDeckSummary(context.Background(), f.learnerID, f.deckID)
	assert.ErrorIs(t, err, ErrDeckAccessDenied)
}
