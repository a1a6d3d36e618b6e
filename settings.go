package microlog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Setting keys used by the application.
const (
	settingSiteName       = "site_name"
	settingSocialLinks    = "social_links"
	settingLastDigestDate = "last_digest_date"
)

// Settings is a SQLite-backed key/value store for site configuration
// that the operator edits at runtime (site name, social links) and for
// the digest export cutoff.
type Settings struct {
	db *sql.DB
}

// OpenSettings opens (or creates) the settings database at path,
// ensuring the data directory exists first.
func OpenSettings(path string) (*Settings, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the request handlers and the auto-poster read while a
	// write is in flight; busy_timeout makes writers wait instead of
	// failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Settings{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Settings) Close() error {
	return s.db.Close()
}

func (s *Settings) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`)
	return err
}

// Get returns the stored value for key, or fallback when the key has
// never been set.
func (s *Settings) Get(key, fallback string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return fallback, nil
	}
	if err != nil {
		return "", fmt.Errorf("get setting %s: %w", key, err)
	}
	return value, nil
}

// Set upserts a setting.
func (s *Settings) Set(key, value string) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value)
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}
