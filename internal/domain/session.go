package domain

import "time"

// StudySession is a write-once log record of one completed study session.
type StudySession struct {
	ID           string
	DeckID       string
	CardsStudied int
	Correct      int
	Incorrect    int
	TimeMinutes  int
	Date         time.Time
}

// StudyStats is the running aggregate of all sessions. Streaks are
// continued or broken by calendar-day comparison against LastStudyDate.
type StudyStats struct {
	TotalSessions int
	CardsStudied  int
	Correct       int
	Incorrect     int
	TimeMinutes   int
	CurrentStreak int
	LongestStreak int
	LastStudyDate *time.Time
}
