package storage

const schema = `
-- Decks group cards. card_count is denormalized and maintained by this
-- layer on card insert/delete.
CREATE TABLE IF NOT EXISTS decks (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    card_count INTEGER NOT NULL DEFAULT 0,
    color TEXT NOT NULL DEFAULT '',
    icon TEXT NOT NULL DEFAULT '',
    is_default INTEGER NOT NULL DEFAULT 0
);

-- Cards carry both content and the scheduling state owned by the engine.
CREATE TABLE IF NOT EXISTS cards (
    id TEXT PRIMARY KEY,
    deck_id TEXT NOT NULL,
    front TEXT NOT NULL,
    back TEXT NOT NULL,
    context TEXT NOT NULL DEFAULT '',
    fingerprint TEXT NOT NULL,

    ease_factor REAL NOT NULL,
    interval_days INTEGER NOT NULL DEFAULT 0,
    repetitions INTEGER NOT NULL DEFAULT 0,
    next_review DATETIME NOT NULL,
    last_review DATETIME,

    consecutive_failures INTEGER NOT NULL DEFAULT 0,
    total_failures INTEGER NOT NULL DEFAULT 0,
    last_failure_date DATETIME,

    is_favorite INTEGER NOT NULL DEFAULT 0,
    is_discarded INTEGER NOT NULL DEFAULT 0,
    needs_review INTEGER NOT NULL DEFAULT 0,
    is_problematic INTEGER NOT NULL DEFAULT 0,
    discarded_at DATETIME,

    level TEXT NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL,

    UNIQUE(deck_id, fingerprint),
    FOREIGN KEY(deck_id) REFERENCES decks(id)
);

-- Sources track where deck content comes from, either a local directory or
-- a git repository of markdown card files.
CREATE TABLE IF NOT EXISTS sources (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    path TEXT NOT NULL UNIQUE,
    type TEXT NOT NULL,
    deck_id TEXT NOT NULL,
    last_scanned DATETIME,

    FOREIGN KEY(deck_id) REFERENCES decks(id)
);

-- Write-once study session log.
CREATE TABLE IF NOT EXISTS study_sessions (
    id TEXT PRIMARY KEY,
    deck_id TEXT NOT NULL,
    cards_studied INTEGER NOT NULL,
    correct INTEGER NOT NULL,
    incorrect INTEGER NOT NULL,
    time_minutes INTEGER NOT NULL,
    date DATETIME NOT NULL
);

-- Single-row running aggregate of all sessions.
CREATE TABLE IF NOT EXISTS study_stats (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    total_sessions INTEGER NOT NULL DEFAULT 0,
    cards_studied INTEGER NOT NULL DEFAULT 0,
    correct INTEGER NOT NULL DEFAULT 0,
    incorrect INTEGER NOT NULL DEFAULT 0,
    time_minutes INTEGER NOT NULL DEFAULT 0,
    current_streak INTEGER NOT NULL DEFAULT 0,
    longest_streak INTEGER NOT NULL DEFAULT 0,
    last_study_date DATETIME
);
`
