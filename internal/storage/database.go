package storage

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/mnemolabs/mnemo/internal/domain"
	_ "modernc.org/sqlite" // Registers the sqlite driver
)

// DB wraps the SQL database connection.
type DB struct {
	conn *sql.DB
}

// Open creates a new database connection and ensures the schema is up to date.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{conn: db}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// CreateDeck inserts a new deck, assigning it an id.
func (db *DB) CreateDeck(deck domain.Deck) (domain.Deck, error) {
	if deck.ID == "" {
		deck.ID = uuid.NewString()
	}
	_, err := db.conn.Exec(`
		INSERT INTO decks (id, name, card_count, color, icon, is_default)
		VALUES (?, ?, 0, ?, ?, ?)
	`, deck.ID, deck.Name, deck.Color, deck.Icon, deck.IsDefault)
	if err != nil {
		return domain.Deck{}, fmt.Errorf("failed to insert deck %s: %w", deck.Name, err)
	}
	deck.CardCount = 0
	return deck, nil
}

// GetDeck retrieves a deck by id. Returns nil when the deck does not exist.
func (db *DB) GetDeck(id string) (*domain.Deck, error) {
	row := db.conn.QueryRow(`
		SELECT id, name, card_count, color, icon, is_default
		FROM decks WHERE id = ?
	`, id)
	return scanDeck(row)
}

// FindDeckByName retrieves a deck by name. Returns nil when absent.
func (db *DB) FindDeckByName(name string) (*domain.Deck, error) {
	row := db.conn.QueryRow(`
		SELECT id, name, card_count, color, icon, is_default
		FROM decks WHERE name = ?
	`, name)
	return scanDeck(row)
}

func scanDeck(row *sql.Row) (*domain.Deck, error) {
	var d domain.Deck
	err := row.Scan(&d.ID, &d.Name, &d.CardCount, &d.Color, &d.Icon, &d.IsDefault)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Deck not found
		}
		return nil, fmt.Errorf("failed to scan deck: %w", err)
	}
	return &d, nil
}

// ListDecks retrieves all decks ordered by name.
func (db *DB) ListDecks() ([]domain.Deck, error) {
	rows, err := db.conn.Query(`
		SELECT id, name, card_count, color, icon, is_default
		FROM decks ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}
	defer rows.Close()

	var decks []domain.Deck
	for rows.Next() {
		var d domain.Deck
		if err := rows.Scan(&d.ID, &d.Name, &d.CardCount, &d.Color, &d.Icon, &d.IsDefault); err != nil {
			return nil, fmt.Errorf("failed to scan deck row: %w", err)
		}
		decks = append(decks, d)
	}
	return decks, rows.Err()
}
