package storage

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/mnemolabs/mnemo/internal/domain"
)

// InsertSession appends a study session to the write-once log.
func (db *DB) InsertSession(session domain.StudySession) (domain.StudySession, error) {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	_, err := db.conn.Exec(`
		INSERT INTO study_sessions (id, deck_id, cards_studied, correct, incorrect, time_minutes, date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, session.ID, session.DeckID, session.CardsStudied, session.Correct, session.Incorrect, session.TimeMinutes, session.Date)
	if err != nil {
		return domain.StudySession{}, fmt.Errorf("failed to insert study session: %w", err)
	}
	return session, nil
}

// GetStats reads the single running-aggregate row. A fresh database yields
// the zero value.
func (db *DB) GetStats() (domain.StudyStats, error) {
	var (
		stats domain.StudyStats
		last  sql.NullTime
	)
	row := db.conn.QueryRow(`
		SELECT total_sessions, cards_studied, correct, incorrect, time_minutes,
		       current_streak, longest_streak, last_study_date
		FROM study_stats WHERE id = 1
	`)
	err := row.Scan(
		&stats.TotalSessions, &stats.CardsStudied, &stats.Correct, &stats.Incorrect,
		&stats.TimeMinutes, &stats.CurrentStreak, &stats.LongestStreak, &last,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.StudyStats{}, nil
		}
		return domain.StudyStats{}, fmt.Errorf("failed to read study stats: %w", err)
	}
	stats.LastStudyDate = timePtr(last)
	return stats, nil
}

// SaveStats upserts the single running-aggregate row.
func (db *DB) SaveStats(stats domain.StudyStats) error {
	_, err := db.conn.Exec(`
		INSERT INTO study_stats (id, total_sessions, cards_studied, correct, incorrect,
		                         time_minutes, current_streak, longest_streak, last_study_date)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			total_sessions = excluded.total_sessions,
			cards_studied = excluded.cards_studied,
			correct = excluded.correct,
			incorrect = excluded.incorrect,
			time_minutes = excluded.time_minutes,
			current_streak = excluded.current_streak,
			longest_streak = excluded.longest_streak,
			last_study_date = excluded.last_study_date
	`,
		stats.TotalSessions, stats.CardsStudied, stats.Correct, stats.Incorrect,
		stats.TimeMinutes, stats.CurrentStreak, stats.LongestStreak, nullTime(stats.LastStudyDate),
	)
	if err != nil {
		return fmt.Errorf("failed to save study stats: %w", err)
	}
	return nil
}
