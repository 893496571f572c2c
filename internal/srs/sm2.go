// Package srs implements the spaced-repetition scheduling engine: the SM-2
// update function, failure tracking, difficulty classification, queue
// composition and lifecycle transitions. Every function is a pure
// transformation over card values; "now" is always passed in so callers
// control the clock.
package srs

import (
	"math"
	"time"

	"github.com/mnemolabs/mnemo/internal/domain"
)

// A review graded below SuccessThreshold is a lapse.
const SuccessThreshold = 3

// ApplyReview recomputes the scheduling fields of a card after a review
// graded with quality in [0,5]. Out-of-range quality is a contract
// violation and is rejected rather than clamped.
//
// On a lapse (quality < 3) repetitions and interval reset to zero and the
// ease factor is left as it was. Canonical SM-2 also penalizes ease on
// failure; this engine deliberately does not, and tests pin that.
func ApplyReview(card domain.Card, quality int, now time.Time) (domain.Card, error) {
	if quality < 0 || quality > 5 {
		return domain.Card{}, domain.ErrInvalidQuality
	}

	if quality < SuccessThreshold {
		card.Repetitions = 0
		card.Interval = 0
	} else {
		card.Repetitions++
		switch card.Repetitions {
		case 1:
			card.Interval = 1
		case 2:
			card.Interval = 6
		default:
			card.Interval = int(math.Round(float64(card.Interval) * card.EaseFactor))
		}

		q := float64(quality)
		card.EaseFactor += 0.1 - (5-q)*(0.08+(5-q)*0.02)
	}

	// Floor in both branches: old rows may carry an ease below the legal
	// minimum, which we tolerate on read and re-clamp on write.
	if card.EaseFactor < domain.MinEaseFactor {
		card.EaseFactor = domain.MinEaseFactor
	}

	card.NextReview = now.AddDate(0, 0, card.Interval)
	last := now
	card.LastReview = &last

	return card, nil
}

// RecordOutcome updates the failure counters alongside ApplyReview.
// A success resets the consecutive counter but never clears a problematic
// pin; only the user (or downstream mastery logic) may do that.
func RecordOutcome(card domain.Card, quality int, now time.Time) (domain.Card, error) {
	if quality < 0 || quality > 5 {
		return domain.Card{}, domain.ErrInvalidQuality
	}

	if quality >= SuccessThreshold {
		card.ConsecutiveFailures = 0
		return card, nil
	}

	card.ConsecutiveFailures++
	card.TotalFailures++
	failedAt := now
	card.LastFailureDate = &failedAt
	return card, nil
}

// Review applies both the scheduling update and the failure tracking for a
// single graded answer. This is the entry point the study service uses.
func Review(card domain.Card, quality int, now time.Time) (domain.Card, error) {
	card, err := ApplyReview(card, quality, now)
	if err != nil {
		return domain.Card{}, err
	}
	return RecordOutcome(card, quality, now)
}
