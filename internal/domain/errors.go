package domain

import "errors"

// Domain errors for cards, decks and review submission.
var (
	ErrInvalidQuality = errors.New("review quality must be an integer between 0 and 5")
	ErrCardNotFound   = errors.New("card not found")
	ErrDeckNotFound   = errors.New("deck not found")
)
