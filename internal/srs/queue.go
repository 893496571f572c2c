package srs

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/mnemolabs/mnemo/internal/domain"
)

// DifficultEaseThreshold is the ease at or below which a reviewed card is
// considered difficult. Interval growth below 2.0 is visibly impaired.
const DifficultEaseThreshold = 2.0

// Query narrows selection to one deck and optionally includes discarded
// cards. The zero value means "all decks, active cards only", which is what
// every screen except the trash wants.
type Query struct {
	DeckID           string
	IncludeDiscarded bool
}

func (q Query) admits(c domain.Card) bool {
	if c.IsDiscarded && !q.IncludeDiscarded {
		return false
	}
	return q.DeckID == "" || c.DeckID == q.DeckID
}

func (q Query) filter(cards []domain.Card, pred func(domain.Card) bool) []domain.Card {
	return lo.Filter(cards, func(c domain.Card, _ int) bool {
		return q.admits(c) && pred(c)
	})
}

// Cards returns every card the query admits, in input order.
func Cards(cards []domain.Card, q Query) []domain.Card {
	return q.filter(cards, func(domain.Card) bool { return true })
}

// Due returns the cards whose next review has passed. Newly created cards
// are due by construction (nextReview is set to creation time).
func Due(cards []domain.Card, now time.Time, q Query) []domain.Card {
	return q.filter(cards, func(c domain.Card) bool { return c.Due(now) })
}

// NewCards returns never-reviewed cards regardless of due date.
func NewCards(cards []domain.Card, q Query) []domain.Card {
	return q.filter(cards, func(c domain.Card) bool { return c.Repetitions == 0 })
}

// Difficult returns reviewed cards whose ease has sunk to the difficulty
// threshold, hardest first. Ties are broken by id so the order is stable.
func Difficult(cards []domain.Card, q Query) []domain.Card {
	difficult := q.filter(cards, func(c domain.Card) bool {
		return c.Repetitions >= 1 && c.EaseFactor <= DifficultEaseThreshold
	})
	sort.Slice(difficult, func(i, j int) bool {
		if difficult[i].EaseFactor != difficult[j].EaseFactor {
			return difficult[i].EaseFactor < difficult[j].EaseFactor
		}
		return difficult[i].ID < difficult[j].ID
	})
	return difficult
}

// ReviewWords returns the union of cards flagged for review and cards
// matching Difficult, de-duplicated by id. Order carries no contract.
func ReviewWords(cards []domain.Card, q Query) []domain.Card {
	flagged := q.filter(cards, func(c domain.Card) bool { return c.NeedsReview })
	merged := append(flagged, Difficult(cards, q)...)
	return lo.UniqBy(merged, func(c domain.Card) string { return c.ID })
}

// Problematic returns the cards the classifier places in the problematic
// tier, whether pinned manually or driven there by consecutive failures.
func Problematic(cards []domain.Card, q Query) []domain.Card {
	return q.filter(cards, func(c domain.Card) bool {
		tag := Classify(c)
		return tag != nil && tag.ID == domain.TagProblematic.ID
	})
}

// Session is one day's composed study set: due reviews capped by
// reviewsPerDay plus new cards capped by newCardsPerDay. Pending is the
// uncapped due count so the UI can show "N of M total".
type Session struct {
	Review  []domain.Card
	New     []domain.Card
	Pending int
}

// Total is the capped number of cards actually in the session.
func (s Session) Total() int {
	return len(s.Review) + len(s.New)
}

// BuildSession composes the day's study set under the configured caps.
// Take preserves the input's relative order; short supply simply yields a
// smaller session, never an error.
func BuildSession(cards []domain.Card, now time.Time, q Query, settings domain.Settings) Session {
	due := Due(cards, now, q)
	reviews := lo.Filter(due, func(c domain.Card, _ int) bool { return c.Repetitions > 0 })

	return Session{
		Review:  take(reviews, settings.ReviewsPerDay),
		New:     take(NewCards(cards, q), settings.NewCardsPerDay),
		Pending: len(due),
	}
}

func take(cards []domain.Card, n int) []domain.Card {
	if n > len(cards) {
		n = len(cards)
	}
	return cards[:n]
}
