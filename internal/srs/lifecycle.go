package srs

import (
	"time"

	"github.com/samber/lo"

	"github.com/mnemolabs/mnemo/internal/domain"
)

// ToggleDiscarded flips the discard flag. DiscardedAt is set and cleared
// atomically with it; a discarded card is excluded from active queries but
// never deleted here.
func ToggleDiscarded(card domain.Card, now time.Time) domain.Card {
	if card.IsDiscarded {
		card.IsDiscarded = false
		card.DiscardedAt = nil
		return card
	}
	card.IsDiscarded = true
	discardedAt := now
	card.DiscardedAt = &discardedAt
	return card
}

// ToggleFavorite flips the favorite flag.
func ToggleFavorite(card domain.Card) domain.Card {
	card.IsFavorite = !card.IsFavorite
	return card
}

// ToggleNeedsReview flips the needs-review flag.
func ToggleNeedsReview(card domain.Card) domain.Card {
	card.NeedsReview = !card.NeedsReview
	return card
}

// MarkProblematic sets the manual problematic pin. This is the user's
// override and is independent of the classifier's automatic rule; clearing
// the pin does not reset the failure counters.
func MarkProblematic(card domain.Card, value bool) domain.Card {
	card.IsProblematic = value
	return card
}

// RestoreDiscarded returns the restored copies of every discarded card
// matching the query. The caller persists the whole set in one write so the
// restore is all-or-nothing; an empty result is a valid no-op.
func RestoreDiscarded(cards []domain.Card, q Query) []domain.Card {
	q.IncludeDiscarded = true
	discarded := q.filter(cards, func(c domain.Card) bool { return c.IsDiscarded })
	return lo.Map(discarded, func(c domain.Card, _ int) domain.Card {
		c.IsDiscarded = false
		c.DiscardedAt = nil
		return c
	})
}
