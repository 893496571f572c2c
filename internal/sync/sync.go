// Package sync reconciles registered card sources into their decks: new
// entries become cards with default scheduling fields, entries that
// disappeared from the source are deleted, everything else keeps its
// scheduling state untouched.
package sync

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mnemolabs/mnemo/internal/content"
	"github.com/mnemolabs/mnemo/internal/domain"
	"github.com/mnemolabs/mnemo/internal/gitsource"
	"github.com/mnemolabs/mnemo/internal/parser"
	"github.com/mnemolabs/mnemo/internal/storage"
)

// MirrorDir is where git sources are cloned.
const MirrorDir = "repos"

// RunSync iterates over all registered sources and reconciles each into its
// deck. Failures on one source do not stop the others.
func RunSync(db *storage.DB, now time.Time) error {
	slog.Info("starting sync for all sources")
	sources, err := db.GetAllSources()
	if err != nil {
		return fmt.Errorf("failed to load sources: %w", err)
	}
	if len(sources) == 0 {
		slog.Info("no sources configured; add one with --add-source <path/or/url.git>")
		return nil
	}

	if err := os.MkdirAll(MirrorDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create mirror directory: %w", err)
	}

	for _, source := range sources {
		slog.Info("syncing source", "id", source.ID, "type", source.Type, "path", source.Path, "deck", source.DeckID)

		scanPath := source.Path
		if source.Type == "git" {
			localPath, err := gitURLToLocalPath(MirrorDir, source.Path)
			if err != nil {
				slog.Error("cannot determine local path for git source", "url", source.Path, "error", err)
				continue
			}
			if err := gitsource.Sync(source.Path, localPath); err != nil {
				slog.Error("failed to sync git source", "url", source.Path, "error", err)
				continue
			}
			scanPath = localPath
		}

		reconcileSource(db, source, scanPath, now)
	}
	slog.Info("sync complete")
	return nil
}

func reconcileSource(db *storage.DB, source storage.Source, scanPath string, now time.Time) {
	var parsed int
	var errs []error
	found := make(map[string]bool)

	walkErr := filepath.WalkDir(scanPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}

		entries, parseErr := parser.ParseFile(path)
		if parseErr != nil {
			errs = append(errs, fmt.Errorf("parsing %s: %w", path, parseErr))
		}
		for _, entry := range entries {
			parsed++
			fingerprint := content.Fingerprint(entry.Front, entry.Back, entry.Context)
			found[fingerprint] = true

			existing, findErr := db.FindCardByFingerprint(source.DeckID, fingerprint)
			if findErr != nil {
				errs = append(errs, fmt.Errorf("db check for %s: %w", fingerprint, findErr))
				continue
			}
			if existing != nil {
				continue // known card, scheduling state stays untouched
			}

			card := domain.NewCard(source.DeckID, entry.Front, entry.Back, entry.Context, now)
			card.Fingerprint = fingerprint
			slog.Info("new card found, inserting", "fingerprint", fingerprint, "deck", source.DeckID)
			if _, insertErr := db.InsertCard(card); insertErr != nil {
				errs = append(errs, fmt.Errorf("db insert for %s: %w", fingerprint, insertErr))
			}
		}
		return nil
	})
	if walkErr != nil {
		slog.Error("failed to walk source directory", "path", scanPath, "error", walkErr)
		return
	}

	deckCards, err := db.ListCards(source.DeckID)
	if err != nil {
		slog.Error("failed to load deck cards", "deck", source.DeckID, "error", err)
		return
	}

	var orphaned int
	for _, card := range deckCards {
		if !found[card.Fingerprint] {
			orphaned++
			slog.Info("orphaned card, deleting", "id", card.ID, "fingerprint", card.Fingerprint)
			if err := db.DeleteCard(card.ID); err != nil {
				slog.Warn("failed to delete orphaned card", "id", card.ID, "error", err)
			}
		}
	}

	if err := db.UpdateSourceLastScanned(source.ID, now); err != nil {
		slog.Warn("failed to stamp source", "source_id", source.ID, "error", err)
	}

	slog.Info("reconciliation complete",
		"path", scanPath,
		"parsed_cards", parsed,
		"orphaned_deleted", orphaned,
		"errors", len(errs),
	)
}

func gitURLToLocalPath(baseDir, repoURL string) (string, error) {
	parsedURL, err := url.Parse(repoURL)
	if err != nil || (parsedURL.Scheme != "https" && parsedURL.Scheme != "http") {
		// scp-like syntax: git@host:owner/repo.git
		if strings.Contains(repoURL, "@") {
			parts := strings.Split(repoURL, ":")
			if len(parts) == 2 {
				hostAndUser := strings.Split(parts[0], "@")
				if len(hostAndUser) == 2 {
					host := hostAndUser[1]
					repoPath := strings.TrimSuffix(parts[1], ".git")
					return filepath.Join(baseDir, host, repoPath), nil
				}
			}
		}
		return "", fmt.Errorf("could not parse git URL: %s", repoURL)
	}

	sanitized := strings.TrimSuffix(parsedURL.Path, ".git")
	return filepath.Join(baseDir, parsedURL.Host, sanitized), nil
}
