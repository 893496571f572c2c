package srs

import (
	"time"

	"github.com/mnemolabs/mnemo/internal/domain"
)

// ApplySession folds one finished study session into the running aggregate.
// Streak continuation is decided by calendar day: a second session on the
// same day leaves the streak alone, the next day extends it, and any gap
// resets it to one.
func ApplySession(stats domain.StudyStats, session domain.StudySession) domain.StudyStats {
	stats.TotalSessions++
	stats.CardsStudied += session.CardsStudied
	stats.Correct += session.Correct
	stats.Incorrect += session.Incorrect
	stats.TimeMinutes += session.TimeMinutes

	day := truncateToDay(session.Date)
	switch {
	case stats.LastStudyDate == nil:
		stats.CurrentStreak = 1
	case day.Equal(truncateToDay(*stats.LastStudyDate)):
		// Same day, streak unchanged.
	case day.Equal(truncateToDay(*stats.LastStudyDate).AddDate(0, 0, 1)):
		stats.CurrentStreak++
	default:
		stats.CurrentStreak = 1
	}
	if stats.CurrentStreak > stats.LongestStreak {
		stats.LongestStreak = stats.CurrentStreak
	}

	last := session.Date
	stats.LastStudyDate = &last
	return stats
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
