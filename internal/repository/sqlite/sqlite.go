// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// SQLite is an embedded database — it lives inside the binary as a single
// file, which fits this app's single-server deployment. modernc.org/sqlite is
// a pure-Go translation of the SQLite sources, so there's no CGo and
// cross-compilation stays painless. Tests open a throwaway file in a temp
// dir; :memory: doesn't survive the connection pool.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	// Blank import: the driver registers itself with database/sql under the
	// name "sqlite" in its init().
	_ "modernc.org/sqlite"

	"github.com/rs/xid"

	"github.com/anikasharma/meraki/internal/milestone"
)

// DB wraps a sql.DB connection pool and implements every repository interface.
// One struct for all of them keeps the wiring in server.go to a single value;
// the service layer still only sees the narrow interface it asked for.
type DB struct {
	conn *sql.DB
}

// New opens (creating if missing) the database at dbPath, configures it, and
// runs migrations plus catalog seeding.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Force an immediate connection so a bad path surfaces here, not on the
	// first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets reads proceed while a write is in flight — required for a web
	// server where concurrent requests hit the same file.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are off by default in SQLite.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	// SQLite allows one writer at a time. Without a busy timeout a second
	// concurrent write fails immediately with SQLITE_BUSY instead of waiting
	// its turn.
	if _, err := conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting busy timeout: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}
	if err := db.seed(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: seeding catalogs: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Defer this wherever New is called.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates all tables. CREATE TABLE IF NOT EXISTS keeps it idempotent.
//
// The one constraint doing real work is UNIQUE(user_id, milestone_id) on
// user_milestones: it is the sole concurrency-control mechanism for awarding.
// Two tabs racing to award the same milestone both pass the read-then-check,
// and the constraint decides which insert wins.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL DEFAULT '',
			google_id     TEXT NOT NULL DEFAULT '',
			display_name  TEXT NOT NULL DEFAULT '',
			avatar_url    TEXT NOT NULL DEFAULT '',
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_users_google_id
			ON users(google_id) WHERE google_id != '';

		CREATE TABLE IF NOT EXISTS hobbies (
			id       TEXT PRIMARY KEY,
			slug     TEXT NOT NULL UNIQUE,
			name     TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS user_hobbies (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(id),
			hobby_id   TEXT NOT NULL REFERENCES hobbies(id),
			status     TEXT NOT NULL DEFAULT 'active',
			started_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(user_id, hobby_id)
		);

		CREATE TABLE IF NOT EXISTS practice_sessions (
			id                TEXT PRIMARY KEY,
			user_id           TEXT NOT NULL REFERENCES users(id),
			user_hobby_id     TEXT NOT NULL REFERENCES user_hobbies(id),
			user_challenge_id TEXT NOT NULL DEFAULT '',
			session_type      TEXT NOT NULL,
			duration          INTEGER NOT NULL DEFAULT 0,
			mood              TEXT NOT NULL DEFAULT '',
			notes             TEXT NOT NULL DEFAULT '',
			image_url         TEXT NOT NULL DEFAULT '',
			created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_user_created
			ON practice_sessions(user_id, created_at);

		CREATE TABLE IF NOT EXISTS challenges (
			id          TEXT PRIMARY KEY,
			hobby_id    TEXT NOT NULL REFERENCES hobbies(id),
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			difficulty  TEXT NOT NULL DEFAULT 'beginner'
		);

		CREATE TABLE IF NOT EXISTS user_challenges (
			id           TEXT PRIMARY KEY,
			user_id      TEXT NOT NULL REFERENCES users(id),
			challenge_id TEXT NOT NULL REFERENCES challenges(id),
			status       TEXT NOT NULL DEFAULT 'active',
			started_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			completed_at DATETIME
		);
		CREATE INDEX IF NOT EXISTS idx_user_challenges_user
			ON user_challenges(user_id);

		CREATE TABLE IF NOT EXISTS milestones (
			id          TEXT PRIMARY KEY,
			slug        TEXT NOT NULL UNIQUE,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			icon        TEXT NOT NULL DEFAULT '',
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS user_milestones (
			user_id      TEXT NOT NULL REFERENCES users(id),
			milestone_id TEXT NOT NULL REFERENCES milestones(id),
			earned_at    DATETIME NOT NULL,
			UNIQUE(user_id, milestone_id)
		);

		CREATE TABLE IF NOT EXISTS quiz_responses (
			user_id     TEXT NOT NULL REFERENCES users(id),
			question_id INTEGER NOT NULL,
			answer      TEXT NOT NULL DEFAULT '',
			updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, question_id)
		);

		CREATE TABLE IF NOT EXISTS ai_feedback (
			session_id   TEXT PRIMARY KEY REFERENCES practice_sessions(id),
			observations TEXT NOT NULL DEFAULT '[]',
			growth       TEXT NOT NULL DEFAULT '[]',
			suggestions  TEXT NOT NULL DEFAULT '[]',
			celebration  TEXT NOT NULL DEFAULT '',
			created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS nudges (
			id               TEXT PRIMARY KEY,
			user_id          TEXT NOT NULL REFERENCES users(id),
			nudge_type       TEXT NOT NULL DEFAULT '',
			message          TEXT NOT NULL DEFAULT '',
			suggested_action TEXT NOT NULL DEFAULT '',
			action_data      TEXT NOT NULL DEFAULT '',
			urgency          TEXT NOT NULL DEFAULT 'gentle',
			acted_on         INTEGER NOT NULL DEFAULT 0,
			created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_nudges_user_active
			ON nudges(user_id, acted_on, created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	return nil
}

// seed inserts the static catalogs: the milestone definitions (from the rule
// catalog in code, so slugs can't drift between code and DB) and the hobby
// list. INSERT OR IGNORE keeps restarts idempotent.
func (db *DB) seed() error {
	for _, def := range milestone.Catalog() {
		_, err := db.conn.Exec(
			`INSERT OR IGNORE INTO milestones (id, slug, title, description, icon)
			 VALUES (?, ?, ?, ?, ?)`,
			newID(), def.Slug, def.Title, def.Description, def.Icon,
		)
		if err != nil {
			return fmt.Errorf("seeding milestone %s: %w", def.Slug, err)
		}
	}

	hobbies := []struct{ slug, name, category string }{
		{"watercolor-painting", "Watercolor Painting", "visual"},
		{"pottery", "Pottery", "craft"},
		{"creative-writing", "Creative Writing", "writing"},
		{"photography", "Photography", "visual"},
		{"ukulele", "Ukulele", "music"},
		{"sketching", "Sketching", "visual"},
		{"knitting", "Knitting", "craft"},
		{"baking", "Baking", "culinary"},
		{"calligraphy", "Calligraphy", "visual"},
		{"gardening", "Gardening", "outdoor"},
	}
	for _, h := range hobbies {
		_, err := db.conn.Exec(
			`INSERT OR IGNORE INTO hobbies (id, slug, name, category) VALUES (?, ?, ?, ?)`,
			newID(), h.slug, h.name, h.category,
		)
		if err != nil {
			return fmt.Errorf("seeding hobby %s: %w", h.slug, err)
		}
	}

	return nil
}

// newID generates a row ID. xid values are 20 chars, URL-safe, and sort by
// creation time, which keeps "ORDER BY id" roughly chronological for free.
func newID() string {
	return xid.New().String()
}

// isUniqueViolation reports whether err is SQLite's uniqueness-constraint
// error. modernc.org/sqlite exposes it only through the message text, so we
// match on the stable "UNIQUE constraint failed" prefix SQLite has used for
// over a decade.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
