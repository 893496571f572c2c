package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mnemolabs/mnemo/internal/domain"
)

const cardColumns = `id, deck_id, front, back, context, fingerprint,
	ease_factor, interval_days, repetitions, next_review, last_review,
	consecutive_failures, total_failures, last_failure_date,
	is_favorite, is_discarded, needs_review, is_problematic, discarded_at,
	level, created_at`

// InsertCard inserts a new card and bumps the owning deck's card count.
func (db *DB) InsertCard(card domain.Card) (domain.Card, error) {
	if card.ID == "" {
		card.ID = uuid.NewString()
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return domain.Card{}, fmt.Errorf("failed to begin insert for card: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO cards (`+cardColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		card.ID, card.DeckID, card.Front, card.Back, card.Context, card.Fingerprint,
		card.EaseFactor, card.Interval, card.Repetitions, card.NextReview, nullTime(card.LastReview),
		card.ConsecutiveFailures, card.TotalFailures, nullTime(card.LastFailureDate),
		card.IsFavorite, card.IsDiscarded, card.NeedsReview, card.IsProblematic, nullTime(card.DiscardedAt),
		card.Level, card.CreatedAt,
	)
	if err != nil {
		return domain.Card{}, fmt.Errorf("failed to insert card %s: %w", card.ID, err)
	}

	if _, err := tx.Exec(`UPDATE decks SET card_count = card_count + 1 WHERE id = ?`, card.DeckID); err != nil {
		return domain.Card{}, fmt.Errorf("failed to bump card count for deck %s: %w", card.DeckID, err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Card{}, fmt.Errorf("failed to commit card insert: %w", err)
	}
	return card, nil
}

// GetCard retrieves a card by id. Returns nil when the card does not exist.
func (db *DB) GetCard(id string) (*domain.Card, error) {
	row := db.conn.QueryRow(`SELECT `+cardColumns+` FROM cards WHERE id = ?`, id)

	card, err := scanCard(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Card not found
		}
		return nil, fmt.Errorf("failed to find card %s: %w", id, err)
	}
	return &card, nil
}

// FindCardByFingerprint locates a card in a deck by its content fingerprint.
// Returns nil when absent; sync uses this to recognise cards across scans.
func (db *DB) FindCardByFingerprint(deckID, fingerprint string) (*domain.Card, error) {
	row := db.conn.QueryRow(`
		SELECT `+cardColumns+` FROM cards WHERE deck_id = ? AND fingerprint = ?
	`, deckID, fingerprint)

	card, err := scanCard(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find card by fingerprint in deck %s: %w", deckID, err)
	}
	return &card, nil
}

// ListCards retrieves all cards, or one deck's cards when deckID is set.
// Discarded cards are included; the engine's queries filter them.
func (db *DB) ListCards(deckID string) ([]domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards`
	args := []any{}
	if deckID != "" {
		query += ` WHERE deck_id = ?`
		args = append(args, deckID)
	}
	query += ` ORDER BY created_at, id`

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()

	var cards []domain.Card
	for rows.Next() {
		card, err := scanCard(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card row: %w", err)
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

// UpdateCard merge-writes a card's mutable fields.
func (db *DB) UpdateCard(card domain.Card) error {
	return updateCard(db.conn.Exec, card)
}

// UpdateCards writes a batch of cards inside a single transaction, so the
// caller sees either every card updated or none (bulk restore relies on this).
func (db *DB) UpdateCards(cards []domain.Card) error {
	if len(cards) == 0 {
		return nil
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin card batch update: %w", err)
	}
	defer tx.Rollback()

	for _, card := range cards {
		if err := updateCard(tx.Exec, card); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func updateCard(exec func(string, ...any) (sql.Result, error), card domain.Card) error {
	res, err := exec(`
		UPDATE cards SET
			front = ?, back = ?, context = ?, fingerprint = ?,
			ease_factor = ?, interval_days = ?, repetitions = ?, next_review = ?, last_review = ?,
			consecutive_failures = ?, total_failures = ?, last_failure_date = ?,
			is_favorite = ?, is_discarded = ?, needs_review = ?, is_problematic = ?, discarded_at = ?,
			level = ?
		WHERE id = ?
	`,
		card.Front, card.Back, card.Context, card.Fingerprint,
		card.EaseFactor, card.Interval, card.Repetitions, card.NextReview, nullTime(card.LastReview),
		card.ConsecutiveFailures, card.TotalFailures, nullTime(card.LastFailureDate),
		card.IsFavorite, card.IsDiscarded, card.NeedsReview, card.IsProblematic, nullTime(card.DiscardedAt),
		card.Level,
		card.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update card %s: %w", card.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("failed to update card %s: %w", card.ID, domain.ErrCardNotFound)
	}
	return nil
}

// DeleteCard removes a card and decrements the owning deck's card count.
func (db *DB) DeleteCard(id string) error {
	card, err := db.GetCard(id)
	if err != nil {
		return err
	}
	if card == nil {
		return nil // already gone
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin card delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM cards WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete card %s: %w", id, err)
	}
	if _, err := tx.Exec(`UPDATE decks SET card_count = card_count - 1 WHERE id = ?`, card.DeckID); err != nil {
		return fmt.Errorf("failed to drop card count for deck %s: %w", card.DeckID, err)
	}
	return tx.Commit()
}

type scanFunc func(dest ...any) error

func scanCard(scan scanFunc) (domain.Card, error) {
	var (
		c                                    domain.Card
		lastReview, lastFailure, discardedAt sql.NullTime
	)
	err := scan(
		&c.ID, &c.DeckID, &c.Front, &c.Back, &c.Context, &c.Fingerprint,
		&c.EaseFactor, &c.Interval, &c.Repetitions, &c.NextReview, &lastReview,
		&c.ConsecutiveFailures, &c.TotalFailures, &lastFailure,
		&c.IsFavorite, &c.IsDiscarded, &c.NeedsReview, &c.IsProblematic, &discardedAt,
		&c.Level, &c.CreatedAt,
	)
	if err != nil {
		return domain.Card{}, err
	}
	c.LastReview = timePtr(lastReview)
	c.LastFailureDate = timePtr(lastFailure)
	c.DiscardedAt = timePtr(discardedAt)
	return c, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
