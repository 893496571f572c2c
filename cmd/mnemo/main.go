package main

import (
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/mnemolabs/mnemo/internal/config"
	"github.com/mnemolabs/mnemo/internal/domain"
	"github.com/mnemolabs/mnemo/internal/storage"
	"github.com/mnemolabs/mnemo/internal/study"
	appsync "github.com/mnemolabs/mnemo/internal/sync"
	"github.com/mnemolabs/mnemo/internal/web"
)

func main() {
	flags := pflag.NewFlagSet("mnemo", pflag.ExitOnError)
	configPath := flags.String("config", "mnemo.yml", "Path to the YAML config file")
	flags.String("addr", ":8080", "HTTP listen address")
	flags.String("db", "mnemo.db", "Path to the SQLite database file")
	addSource := flags.String("add-source", "", "Register a card source (local path or git URL) and exit")
	deckName := flags.String("deck", "", "Deck name for --add-source (defaults to the source basename)")
	syncOnly := flags.Bool("sync", false, "Sync all sources and exit")
	flags.Parse(os.Args[1:])

	cfg, err := config.Load(*configPath, flags)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.DBPath)

	if *addSource != "" {
		if err := registerSource(db, *addSource, *deckName); err != nil {
			slog.Error("failed to add source", "path", *addSource, "error", err)
			os.Exit(1)
		}
		return
	}

	if *syncOnly {
		if err := appsync.RunSync(db, time.Now()); err != nil {
			slog.Error("sync failed", "error", err)
			os.Exit(1)
		}
		return
	}

	server := web.NewServer(db, study.NewService(db, cfg.Study))
	slog.Info("listening", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, server); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// registerSource creates (or reuses) the deck for a source and records the
// source so sync can reconcile it.
func registerSource(db *storage.DB, path, deckName string) error {
	sourceType := "local"
	if strings.HasSuffix(path, ".git") || strings.HasPrefix(path, "git@") ||
		strings.HasPrefix(path, "https://") || strings.HasPrefix(path, "http://") {
		sourceType = "git"
	}

	if deckName == "" {
		deckName = deckNameFromPath(path)
	}

	deck, err := db.FindDeckByName(deckName)
	if err != nil {
		return err
	}
	if deck == nil {
		created, err := db.CreateDeck(domain.Deck{Name: deckName})
		if err != nil {
			return err
		}
		deck = &created
	}

	if _, err := db.InsertSource(path, sourceType, deck.ID); err != nil {
		return err
	}
	slog.Info("source registered", "path", path, "type", sourceType, "deck", deckName)
	return nil
}

func deckNameFromPath(path string) string {
	name := strings.TrimSuffix(path, ".git")
	name = strings.TrimRight(name, "/")
	if i := strings.LastIndexAny(name, "/:"); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		return "default"
	}
	return name
}
