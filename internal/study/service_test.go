package study

import (
	"errors"
	"testing"
	"time"

	"github.com/mnemolabs/mnemo/internal/domain"
)

type fakeStore struct {
	cards    map[string]domain.Card
	order    []string
	sessions []domain.StudySession
	stats    domain.StudyStats

	failBatch bool
}

func newFakeStore(cards ...domain.Card) *fakeStore {
	s := &fakeStore{cards: make(map[string]domain.Card)}
	for _, c := range cards {
		s.cards[c.ID] = c
		s.order = append(s.order, c.ID)
	}
	return s
}

func (s *fakeStore) GetCard(id string) (*domain.Card, error) {
	c, ok := s.cards[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *fakeStore) ListCards(deckID string) ([]domain.Card, error) {
	var out []domain.Card
	for _, id := range s.order {
		c := s.cards[id]
		if deckID == "" || c.DeckID == deckID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *fakeStore) UpdateCard(card domain.Card) error {
	if _, ok := s.cards[card.ID]; !ok {
		return domain.ErrCardNotFound
	}
	s.cards[card.ID] = card
	return nil
}

func (s *fakeStore) UpdateCards(cards []domain.Card) error {
	if s.failBatch {
		return errors.New("batch write refused")
	}
	for _, c := range cards {
		if err := s.UpdateCard(c); err != nil {
			return err
		}
	}
	return nil
}

func (s *fakeStore) InsertSession(session domain.StudySession) (domain.StudySession, error) {
	s.sessions = append(s.sessions, session)
	return session, nil
}

func (s *fakeStore) GetStats() (domain.StudyStats, error) { return s.stats, nil }

func (s *fakeStore) SaveStats(stats domain.StudyStats) error {
	s.stats = stats
	return nil
}

var frozen = time.Date(2026, time.May, 2, 8, 0, 0, 0, time.UTC)

func newTestService(store *fakeStore) *Service {
	svc := NewService(store, domain.Settings{NewCardsPerDay: 2, ReviewsPerDay: 3})
	svc.clock = func() time.Time { return frozen }
	return svc
}

func card(id, deckID string, reps int, due time.Time) domain.Card {
	return domain.Card{ID: id, DeckID: deckID, EaseFactor: 2.5, Repetitions: reps, NextReview: due}
}

func TestSubmitReview(t *testing.T) {
	store := newFakeStore(card("a", "d1", 2, frozen.Add(-time.Hour)))
	svc := newTestService(store)

	t.Run("persists the updated scheduling state", func(t *testing.T) {
		updated, err := svc.SubmitReview("a", 4)
		if err != nil {
			t.Fatalf("SubmitReview returned an unexpected error: %v", err)
		}
		if updated == nil {
			t.Fatal("Expected an updated card, but got nil")
		}
		if updated.Repetitions != 3 {
			t.Errorf("Expected repetitions 3, but got %d", updated.Repetitions)
		}
		if stored := store.cards["a"]; stored.Repetitions != 3 {
			t.Errorf("Expected the store to hold the update, but got repetitions %d", stored.Repetitions)
		}
	})

	t.Run("unknown card is a lookup miss, not an error", func(t *testing.T) {
		updated, err := svc.SubmitReview("ghost", 4)
		if err != nil {
			t.Fatalf("SubmitReview returned an unexpected error: %v", err)
		}
		if updated != nil {
			t.Errorf("Expected nil for an unknown card, but got %+v", updated)
		}
	})

	t.Run("contract violation is rejected before any write", func(t *testing.T) {
		before := store.cards["a"]
		if _, err := svc.SubmitReview("a", 7); !errors.Is(err, domain.ErrInvalidQuality) {
			t.Fatalf("Expected ErrInvalidQuality, but got %v", err)
		}
		if store.cards["a"] != before {
			t.Error("Expected the stored card to be untouched after a rejected review")
		}
	})
}

func TestTodaySession(t *testing.T) {
	store := newFakeStore(
		card("r1", "d1", 1, frozen.Add(-time.Hour)),
		card("r2", "d1", 2, frozen.Add(-time.Hour)),
		card("r3", "d1", 3, frozen.Add(-time.Hour)),
		card("r4", "d1", 4, frozen.Add(-time.Hour)),
		card("n1", "d1", 0, frozen),
		card("n2", "d1", 0, frozen),
		card("n3", "d1", 0, frozen),
		card("other", "d2", 2, frozen.Add(-time.Hour)),
	)
	svc := newTestService(store)

	session, err := svc.TodaySession("d1")
	if err != nil {
		t.Fatalf("TodaySession returned an unexpected error: %v", err)
	}
	if len(session.Review) != 3 {
		t.Errorf("Expected 3 review cards under the cap, but got %d", len(session.Review))
	}
	if len(session.New) != 2 {
		t.Errorf("Expected 2 new cards under the cap, but got %d", len(session.New))
	}
	if session.Pending != 7 {
		t.Errorf("Expected 7 pending cards in d1, but got %d", session.Pending)
	}
}

func TestLifecycleOperations(t *testing.T) {
	store := newFakeStore(card("a", "d1", 1, frozen))
	svc := newTestService(store)

	t.Run("discard stamps and restore clears", func(t *testing.T) {
		discarded, err := svc.ToggleDiscarded("a")
		if err != nil || discarded == nil {
			t.Fatalf("ToggleDiscarded failed: card=%v err=%v", discarded, err)
		}
		if !discarded.IsDiscarded || discarded.DiscardedAt == nil {
			t.Errorf("Expected a discarded card with a timestamp, but got %+v", discarded)
		}

		restored, err := svc.ToggleDiscarded("a")
		if err != nil || restored == nil {
			t.Fatalf("ToggleDiscarded failed: card=%v err=%v", restored, err)
		}
		if restored.IsDiscarded || restored.DiscardedAt != nil {
			t.Errorf("Expected a restored card, but got %+v", restored)
		}
	})

	t.Run("missing cards yield nil across all toggles", func(t *testing.T) {
		for name, op := range map[string]func() (*domain.Card, error){
			"discard":      func() (*domain.Card, error) { return svc.ToggleDiscarded("ghost") },
			"favorite":     func() (*domain.Card, error) { return svc.ToggleFavorite("ghost") },
			"needs-review": func() (*domain.Card, error) { return svc.ToggleNeedsReview("ghost") },
			"problematic":  func() (*domain.Card, error) { return svc.MarkProblematic("ghost", true) },
		} {
			c, err := op()
			if err != nil {
				t.Errorf("%s: unexpected error %v", name, err)
			}
			if c != nil {
				t.Errorf("%s: expected nil for a missing card, but got %+v", name, c)
			}
		}
	})
}

func TestRestoreAllDiscarded(t *testing.T) {
	t.Run("restores the whole deck in one batch", func(t *testing.T) {
		a := card("a", "d1", 1, frozen)
		a.IsDiscarded = true
		b := card("b", "d1", 2, frozen)
		b.IsDiscarded = true
		store := newFakeStore(a, b, card("c", "d2", 1, frozen))
		svc := newTestService(store)

		restored, err := svc.RestoreAllDiscarded("d1")
		if err != nil {
			t.Fatalf("RestoreAllDiscarded returned an unexpected error: %v", err)
		}
		if len(restored) != 2 {
			t.Fatalf("Expected 2 restored cards, but got %d", len(restored))
		}
		for _, id := range []string{"a", "b"} {
			if store.cards[id].IsDiscarded {
				t.Errorf("Expected card %q to be restored in the store", id)
			}
		}
	})

	t.Run("zero discarded cards is a successful no-op", func(t *testing.T) {
		store := newFakeStore(card("a", "d1", 1, frozen))
		svc := newTestService(store)

		restored, err := svc.RestoreAllDiscarded("d1")
		if err != nil {
			t.Fatalf("Expected a no-op success, but got error %v", err)
		}
		if len(restored) != 0 {
			t.Errorf("Expected an empty affected set, but got %d", len(restored))
		}
	})

	t.Run("a refused batch write leaves every card discarded", func(t *testing.T) {
		a := card("a", "d1", 1, frozen)
		a.IsDiscarded = true
		store := newFakeStore(a)
		store.failBatch = true
		svc := newTestService(store)

		if _, err := svc.RestoreAllDiscarded("d1"); err == nil {
			t.Fatal("Expected the batch failure to surface")
		}
		if !store.cards["a"].IsDiscarded {
			t.Error("Expected the card to remain discarded after a failed batch")
		}
	})
}

func TestRecordSession(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	stats, err := svc.RecordSession(domain.StudySession{DeckID: "d1", CardsStudied: 10, Correct: 8, Incorrect: 2, TimeMinutes: 15})
	if err != nil {
		t.Fatalf("RecordSession returned an unexpected error: %v", err)
	}
	if stats.TotalSessions != 1 || stats.CurrentStreak != 1 {
		t.Errorf("Expected a first session to seed the aggregate, but got %+v", stats)
	}
	if len(store.sessions) != 1 {
		t.Fatalf("Expected 1 logged session, but got %d", len(store.sessions))
	}
	if !store.sessions[0].Date.Equal(frozen) {
		t.Errorf("Expected the session date to default to the injected clock, but got %v", store.sessions[0].Date)
	}
}
