package srs

import (
	"github.com/samber/lo"

	"github.com/mnemolabs/mnemo/internal/domain"
)

// classifier rules, evaluated in priority order; the first match wins.
// Keeping them as an ordered (predicate, tag) list keeps the priority
// contract auditable rule by rule.
type rule struct {
	tag     domain.WordTag
	matches func(domain.Card) bool
}

var rules = []rule{
	{domain.TagProblematic, func(c domain.Card) bool {
		// A manual pin or three consecutive misses both count; a pin set by
		// the user is never second-guessed here.
		return c.IsProblematic || c.ConsecutiveFailures >= 3
	}},
	{domain.TagStruggling, func(c domain.Card) bool {
		return c.TotalFailures >= 3
	}},
	{domain.TagNeedsPractice, func(c domain.Card) bool {
		return c.EaseFactor <= 1.8 || (c.Repetitions <= 2 && c.TotalFailures >= 1)
	}},
	{domain.TagImproving, func(c domain.Card) bool {
		// Had trouble before but currently on a success streak.
		return c.Repetitions >= 1 && c.Repetitions <= 4 &&
			c.ConsecutiveFailures == 0 && c.TotalFailures >= 1
	}},
	{domain.TagMastered, func(c domain.Card) bool {
		return c.Repetitions >= 5 && c.EaseFactor >= 2.5 && c.ConsecutiveFailures == 0
	}},
}

// Classify assigns a card one of the five difficulty tags, or nil when the
// card has no history to classify by (new, untouched cards stay untagged
// rather than defaulting to mastered).
func Classify(card domain.Card) *domain.WordTag {
	for _, r := range rules {
		if r.matches(card) {
			tag := r.tag
			return &tag
		}
	}
	return nil
}

// TagStats aggregates classification counts across a card set into a
// histogram keyed by tag id. Unclassified cards are not counted.
func TagStats(cards []domain.Card) map[string]int {
	tagged := lo.FilterMap(cards, func(c domain.Card, _ int) (string, bool) {
		tag := Classify(c)
		if tag == nil {
			return "", false
		}
		return tag.ID, true
	})
	return lo.CountValues(tagged)
}
