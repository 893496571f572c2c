// Package parser extracts flashcard entries from markdown files. A card is
// a "Q:" block followed by an "A:" block and an optional "C:" context
// block; "---" or the next "Q:" ends the card.
package parser

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// Entry is the raw content of one parsed card, before it is given an
// identity or scheduling state.
type Entry struct {
	Front   string
	Back    string
	Context string
}

const (
	frontPrefix   = "Q:"
	backPrefix    = "A:"
	contextPrefix = "C:"
)

type state int

const (
	seeking state = iota
	readingFront
	readingBack
	readingContext
)

// ParseFile reads a file from the given path and extracts all entries.
func ParseFile(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads from an io.Reader and extracts all entries.
func Parse(r io.Reader) ([]Entry, error) {
	scanner := bufio.NewScanner(r)
	var entries []Entry
	var current Entry
	var block []string
	currentState := seeking

	flushBlock := func() {
		if len(block) == 0 {
			return
		}
		content := strings.Join(block, "\n")
		switch currentState {
		case readingFront:
			current.Front = content
		case readingBack:
			current.Back = content
		case readingContext:
			current.Context = content
		}
		block = nil
	}

	finishEntry := func() {
		flushBlock()
		if current.Front != "" {
			entries = append(entries, current)
		}
		current = Entry{}
		currentState = seeking
	}

	for scanner.Scan() {
		line := scanner.Text()

		if line == "---" {
			finishEntry()
			continue
		}

		next := currentState
		prefix := ""
		switch {
		case strings.HasPrefix(line, frontPrefix):
			next, prefix = readingFront, frontPrefix
		case strings.HasPrefix(line, backPrefix):
			next, prefix = readingBack, backPrefix
		case strings.HasPrefix(line, contextPrefix):
			next, prefix = readingContext, contextPrefix
		default:
			// Continuation of the current block, or noise between cards.
			if currentState != seeking {
				block = append(block, line)
			}
			continue
		}

		if next == readingFront && currentState != seeking {
			// A new question always starts a new card.
			finishEntry()
		} else {
			flushBlock()
		}
		currentState = next
		block = append(block, strings.TrimPrefix(line[len(prefix):], " "))
	}

	finishEntry() // Finish the very last card in the file

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
