package domain

import "time"

// Scheduling defaults for a freshly created card.
const (
	InitialEaseFactor = 2.5
	MinEaseFactor     = 1.3
)

// Card is a single flashcard together with its scheduling state.
// The scheduling fields are mutated only by the srs package; everything
// else is content or user-facing flags.
type Card struct {
	ID     string
	DeckID string

	Front   string
	Back    string
	Context string

	// Content fingerprint, used by sync to recognise cards across scans.
	Fingerprint string

	EaseFactor  float64
	Interval    int // days; 0 means due today / never scheduled
	Repetitions int // consecutive successful reviews since the last lapse
	NextReview  time.Time
	LastReview  *time.Time // nil before the first review

	ConsecutiveFailures int
	TotalFailures       int
	LastFailureDate     *time.Time

	IsFavorite    bool
	IsDiscarded   bool
	NeedsReview   bool
	IsProblematic bool // may be pinned manually; never auto-cleared
	DiscardedAt   *time.Time

	// Optional proficiency label (e.g. CEFR level). Passthrough metadata,
	// unrelated to scheduling.
	Level string

	CreatedAt time.Time
}

// NewCard returns a card with default scheduling fields, due immediately.
func NewCard(deckID, front, back, context string, now time.Time) Card {
	return Card{
		DeckID:     deckID,
		Front:      front,
		Back:       back,
		Context:    context,
		EaseFactor: InitialEaseFactor,
		NextReview: now,
		CreatedAt:  now,
	}
}

// Due reports whether the card's next review has come around.
func (c Card) Due(now time.Time) bool {
	return !c.NextReview.After(now)
}

// Deck groups cards. CardCount is denormalized and maintained by the
// storage layer on insert/delete, not by the scheduling engine.
type Deck struct {
	ID        string
	Name      string
	CardCount int
	Color     string
	Icon      string
	IsDefault bool
}

// Settings holds the user-configurable caps that bound daily queue size.
type Settings struct {
	NewCardsPerDay int `koanf:"new_cards_per_day" validate:"min=1,max=200"`
	ReviewsPerDay  int `koanf:"reviews_per_day" validate:"min=1,max=500"`
}

// DefaultSettings are used when no configuration is supplied.
func DefaultSettings() Settings {
	return Settings{NewCardsPerDay: 20, ReviewsPerDay: 100}
}
