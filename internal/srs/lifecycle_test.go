package srs

import (
	"testing"

	"github.com/mnemolabs/mnemo/internal/domain"
)

func TestToggleDiscarded(t *testing.T) {
	card := domain.Card{ID: "a"}

	discarded := ToggleDiscarded(card, testNow)
	if !discarded.IsDiscarded {
		t.Fatal("Expected the card to be discarded")
	}
	if discarded.DiscardedAt == nil || !discarded.DiscardedAt.Equal(testNow) {
		t.Errorf("Expected discardedAt to be set to now, but got %v", discarded.DiscardedAt)
	}

	restored := ToggleDiscarded(discarded, testNow.AddDate(0, 0, 1))
	if restored.IsDiscarded {
		t.Fatal("Expected the card to be restored")
	}
	if restored.DiscardedAt != nil {
		t.Errorf("Expected discardedAt to be cleared, but got %v", restored.DiscardedAt)
	}
}

func TestSimpleToggles(t *testing.T) {
	card := domain.Card{ID: "a"}

	if !ToggleFavorite(card).IsFavorite {
		t.Error("Expected favorite to flip on")
	}
	if ToggleFavorite(ToggleFavorite(card)).IsFavorite {
		t.Error("Expected a double toggle to flip favorite back off")
	}
	if !ToggleNeedsReview(card).NeedsReview {
		t.Error("Expected needs-review to flip on")
	}
}

func TestMarkProblematic(t *testing.T) {
	card := domain.Card{ID: "a", ConsecutiveFailures: 3}

	pinned := MarkProblematic(card, true)
	if !pinned.IsProblematic {
		t.Error("Expected the pin to be set")
	}

	cleared := MarkProblematic(pinned, false)
	if cleared.IsProblematic {
		t.Error("Expected the pin to be cleared")
	}
	// Clearing the pin does not touch the failure counters, so the
	// classifier may still surface the card as problematic.
	if cleared.ConsecutiveFailures != 3 {
		t.Errorf("Expected failure counters to be untouched, but got %d", cleared.ConsecutiveFailures)
	}
}

func TestRestoreDiscarded(t *testing.T) {
	now := testNow
	d1 := ToggleDiscarded(domain.Card{ID: "a", DeckID: "d1"}, now)
	d2 := ToggleDiscarded(domain.Card{ID: "b", DeckID: "d2"}, now)
	cards := []domain.Card{d1, d2, {ID: "c", DeckID: "d1"}}

	t.Run("restores all matching cards", func(t *testing.T) {
		restored := RestoreDiscarded(cards, Query{DeckID: "d1"})
		if len(restored) != 1 {
			t.Fatalf("Expected 1 restored card, but got %d", len(restored))
		}
		if restored[0].ID != "a" || restored[0].IsDiscarded || restored[0].DiscardedAt != nil {
			t.Errorf("Expected card a to be fully restored, but got %+v", restored[0])
		}
	})

	t.Run("no discarded cards is a no-op", func(t *testing.T) {
		restored := RestoreDiscarded([]domain.Card{{ID: "x"}}, Query{})
		if len(restored) != 0 {
			t.Errorf("Expected an empty affected set, but got %d cards", len(restored))
		}
	})
}
