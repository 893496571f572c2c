package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mnemo.yml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load returned an unexpected error: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.DBPath != "mnemo.db" {
		t.Errorf("Unexpected defaults: %+v", cfg)
	}
	if cfg.Study.NewCardsPerDay != 20 || cfg.Study.ReviewsPerDay != 100 {
		t.Errorf("Unexpected default study settings: %+v", cfg.Study)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
addr: ":9999"
study:
  new_cards_per_day: 5
  reviews_per_day: 50
`)

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load returned an unexpected error: %v", err)
	}
	if cfg.Addr != ":9999" {
		t.Errorf("Expected addr :9999, but got %q", cfg.Addr)
	}
	if cfg.Study.NewCardsPerDay != 5 || cfg.Study.ReviewsPerDay != 50 {
		t.Errorf("Expected study caps 5/50, but got %+v", cfg.Study)
	}
	if cfg.DBPath != "mnemo.db" {
		t.Errorf("Expected the db default to survive, but got %q", cfg.DBPath)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `db: "from-file.db"`)
	t.Setenv("MNEMO_DB", "from-env.db")

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load returned an unexpected error: %v", err)
	}
	if cfg.DBPath != "from-env.db" {
		t.Errorf("Expected the environment to win, but got %q", cfg.DBPath)
	}
}

func TestLoadFlagsWinOverEverything(t *testing.T) {
	path := writeConfig(t, `addr: ":9999"`)
	t.Setenv("MNEMO_ADDR", ":7777")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("addr", ":8080", "listen address")
	if err := flags.Parse([]string{"--addr", ":5555"}); err != nil {
		t.Fatalf("Failed to parse flags: %v", err)
	}

	cfg, err := Load(path, flags)
	if err != nil {
		t.Fatalf("Load returned an unexpected error: %v", err)
	}
	if cfg.Addr != ":5555" {
		t.Errorf("Expected the flag to win, but got %q", cfg.Addr)
	}
}

func TestLoadRejectsOutOfRangeCaps(t *testing.T) {
	path := writeConfig(t, `
study:
  new_cards_per_day: 500
  reviews_per_day: 50
`)

	if _, err := Load(path, nil); err == nil {
		t.Fatal("Expected an out-of-range cap to fail validation")
	}
}
