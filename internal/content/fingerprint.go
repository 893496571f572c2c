// Package content derives stable identities for card content, so sync can
// recognise the same card across rescans even when the file moves.
package content

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// Normalize concatenates the card's content after cleaning each part.
// Each field is lowercased, trimmed and has line endings normalized before
// joining, so cosmetic edits do not change the card's identity.
func Normalize(front, back, context string) string {
	normalizePart := func(part string) string {
		p := strings.ToLower(part)
		p = strings.TrimSpace(p)
		p = strings.ReplaceAll(p, "\r\n", "\n")
		return p
	}

	// Fields are joined with a newline so "question"+"answer" cannot
	// collide with "questionanswer".
	return strings.Join([]string{
		normalizePart(front),
		normalizePart(back),
		normalizePart(context),
	}, "\n")
}

// Fingerprint returns the SHA-256 of the normalized content as a hex string.
func Fingerprint(front, back, context string) string {
	normalized := Normalize(front, back, context)
	sum := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%x", sum)
}
