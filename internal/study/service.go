// Package study wires the scheduling engine to the storage collaborator.
// The engine itself is pure; this layer does the reads and merge-writes
// around it and serializes review submissions, since applying two reviews
// to the same card out of order corrupts the interval sequence.
package study

import (
	"fmt"
	"sync"
	"time"

	"github.com/mnemolabs/mnemo/internal/domain"
	"github.com/mnemolabs/mnemo/internal/srs"
)

// Store is the persistence surface the service needs. *storage.DB satisfies
// it; tests use an in-memory fake.
type Store interface {
	GetCard(id string) (*domain.Card, error)
	ListCards(deckID string) ([]domain.Card, error)
	UpdateCard(card domain.Card) error
	UpdateCards(cards []domain.Card) error
	InsertSession(session domain.StudySession) (domain.StudySession, error)
	GetStats() (domain.StudyStats, error)
	SaveStats(stats domain.StudyStats) error
}

// Service exposes the engine's operations over stored cards.
type Service struct {
	store    Store
	settings domain.Settings
	clock    func() time.Time

	// Serializes read-modify-write cycles. Cards are independent, but a
	// single writer is all this engine promises.
	mu sync.Mutex
}

// NewService wires the store with the configured daily caps.
func NewService(store Store, settings domain.Settings) *Service {
	return &Service{
		store:    store,
		settings: settings,
		clock:    time.Now,
	}
}

// SubmitReview grades a card and persists the resulting scheduling state.
// Returns nil for an unknown card id; that is a lookup miss, not an error.
func (s *Service) SubmitReview(cardID string, quality int) (*domain.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	card, err := s.store.GetCard(cardID)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, nil
	}

	updated, err := srs.Review(*card, quality, s.clock())
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateCard(updated); err != nil {
		return nil, fmt.Errorf("failed to persist review for card %s: %w", cardID, err)
	}
	return &updated, nil
}

// TodaySession composes the day's capped study set for one deck, or across
// all decks when deckID is empty.
func (s *Service) TodaySession(deckID string) (srs.Session, error) {
	cards, err := s.store.ListCards(deckID)
	if err != nil {
		return srs.Session{}, err
	}
	return srs.BuildSession(cards, s.clock(), srs.Query{DeckID: deckID}, s.settings), nil
}

// DueCards returns the uncapped pending set.
func (s *Service) DueCards(deckID string) ([]domain.Card, error) {
	cards, err := s.store.ListCards(deckID)
	if err != nil {
		return nil, err
	}
	return srs.Due(cards, s.clock(), srs.Query{DeckID: deckID}), nil
}

// DifficultCards returns low-ease reviewed cards, hardest first.
func (s *Service) DifficultCards(deckID string) ([]domain.Card, error) {
	cards, err := s.store.ListCards(deckID)
	if err != nil {
		return nil, err
	}
	return srs.Difficult(cards, srs.Query{DeckID: deckID}), nil
}

// ReviewWords returns flagged and difficult cards, de-duplicated.
func (s *Service) ReviewWords(deckID string) ([]domain.Card, error) {
	cards, err := s.store.ListCards(deckID)
	if err != nil {
		return nil, err
	}
	return srs.ReviewWords(cards, srs.Query{DeckID: deckID}), nil
}

// ProblematicWords returns the cards classified problematic.
func (s *Service) ProblematicWords(deckID string) ([]domain.Card, error) {
	cards, err := s.store.ListCards(deckID)
	if err != nil {
		return nil, err
	}
	return srs.Problematic(cards, srs.Query{DeckID: deckID}), nil
}

// TagStats returns the classification histogram for a deck.
func (s *Service) TagStats(deckID string) (map[string]int, error) {
	cards, err := s.store.ListCards(deckID)
	if err != nil {
		return nil, err
	}
	return srs.TagStats(srs.Cards(cards, srs.Query{DeckID: deckID})), nil
}

// ToggleDiscarded flips a card in or out of the trash.
func (s *Service) ToggleDiscarded(cardID string) (*domain.Card, error) {
	return s.updateCard(cardID, func(c domain.Card) domain.Card {
		return srs.ToggleDiscarded(c, s.clock())
	})
}

// ToggleFavorite flips a card's favorite flag.
func (s *Service) ToggleFavorite(cardID string) (*domain.Card, error) {
	return s.updateCard(cardID, srs.ToggleFavorite)
}

// ToggleNeedsReview flips a card's needs-review flag.
func (s *Service) ToggleNeedsReview(cardID string) (*domain.Card, error) {
	return s.updateCard(cardID, srs.ToggleNeedsReview)
}

// MarkProblematic sets or clears the manual problematic pin.
func (s *Service) MarkProblematic(cardID string, value bool) (*domain.Card, error) {
	return s.updateCard(cardID, func(c domain.Card) domain.Card {
		return srs.MarkProblematic(c, value)
	})
}

func (s *Service) updateCard(cardID string, transform func(domain.Card) domain.Card) (*domain.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	card, err := s.store.GetCard(cardID)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, nil
	}

	updated := transform(*card)
	if err := s.store.UpdateCard(updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// RestoreAllDiscarded restores every discarded card in a deck (or all
// decks). The target set is computed first and written as one batch, so the
// restore is all-or-nothing; zero discarded cards is a valid no-op.
func (s *Service) RestoreAllDiscarded(deckID string) ([]domain.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cards, err := s.store.ListCards(deckID)
	if err != nil {
		return nil, err
	}
	restored := srs.RestoreDiscarded(cards, srs.Query{DeckID: deckID})
	if len(restored) == 0 {
		return nil, nil
	}
	if err := s.store.UpdateCards(restored); err != nil {
		return nil, fmt.Errorf("failed to restore discarded cards: %w", err)
	}
	return restored, nil
}

// RecordSession logs a finished study session and folds it into the
// running aggregate, continuing or breaking the day streak.
func (s *Service) RecordSession(session domain.StudySession) (domain.StudyStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session.Date.IsZero() {
		session.Date = s.clock()
	}
	if _, err := s.store.InsertSession(session); err != nil {
		return domain.StudyStats{}, err
	}

	stats, err := s.store.GetStats()
	if err != nil {
		return domain.StudyStats{}, err
	}
	stats = srs.ApplySession(stats, session)
	if err := s.store.SaveStats(stats); err != nil {
		return domain.StudyStats{}, err
	}
	return stats, nil
}

// Stats returns the running study aggregate.
func (s *Service) Stats() (domain.StudyStats, error) {
	return s.store.GetStats()
}
