package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when an update or delete targets a row that does
// not exist.
var ErrNotFound = errors.New("repository: not found")

// OpenDB opens (or creates) the SQLite database at the given path, ensuring
// that the parent directory exists. WAL mode keeps concurrent chat appends
// and tracker reads from blocking each other.
func OpenDB(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("repository: create db directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("repository: open db at %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("repository: ping db at %s: %w", path, err)
	}
	return db, nil
}

// InitSchema creates all tables: messages plus the tracker resources.
func InitSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_messages_user_id ON messages(user_id, id);

		CREATE TABLE IF NOT EXISTS todo_list (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			description TEXT,
			category TEXT NOT NULL DEFAULT 'today',
			completed INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS sleep_entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			date TEXT NOT NULL,
			hours REAL NOT NULL,
			notes TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_sleep_entries_date ON sleep_entries(date);

		CREATE TABLE IF NOT EXISTS exercise_entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			date TEXT NOT NULL,
			title TEXT NOT NULL,
			duration INTEGER NOT NULL,
			intensity TEXT,
			notes TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_exercise_entries_date ON exercise_entries(date);

		CREATE TABLE IF NOT EXISTS wellness_entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			date TEXT NOT NULL,
			mood INTEGER NOT NULL,
			energy INTEGER NOT NULL,
			notes TEXT
		);

		CREATE TABLE IF NOT EXISTS goals (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			description TEXT,
			target_date TEXT,
			completed INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	return err
}
