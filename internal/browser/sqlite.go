package browser

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // sqlite driver

	"github.com/dshills/insights/internal/json"
)

const schema = `
CREATE TABLE IF NOT EXISTS user_data (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLiteAdapter persists user data in a SQLite database.
type SQLiteAdapter struct {
	db       *sql.DB
	commands []Command
}

// OpenSQLite opens (or creates) the database at path. Use ":memory:" for an
// ephemeral store.
func OpenSQLite(path string, commands []Command) (*SQLiteAdapter, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening user data store %s: %w", path, err)
	}
	// A single connection keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating user data schema: %w", err)
	}

	return &SQLiteAdapter{db: db, commands: commands}, nil
}

// Close closes the database.
func (a *SQLiteAdapter) Close() error {
	return a.db.Close()
}

// GetCommands passes a copy of the commands to cb.
func (a *SQLiteAdapter) GetCommands(cb func([]Command)) {
	commands := make([]Command, len(a.commands))
	copy(commands, a.commands)
	cb(commands)
}

// SetUserData upserts each top-level field of data in one transaction.
func (a *SQLiteAdapter) SetUserData(data any) error {
	fields, err := topLevel(data)
	if err != nil {
		return err
	}

	now := time.Now().Unix()
	return withTx(a.db, func(tx *sql.Tx) error {
		for k, v := range fields {
			_, err := tx.Exec(
				`INSERT INTO user_data (key, value, updated_at) VALUES (?, ?, ?)
				 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
				k, string(v), now,
			)
			if err != nil {
				return fmt.Errorf("storing user data %s: %w", k, err)
			}
		}
		return nil
	})
}

// GetUserData returns the stored value for key.
func (a *SQLiteAdapter) GetUserData(key string) (json.RawMessage, bool, error) {
	var value string
	err := a.db.QueryRow(`SELECT value FROM user_data WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading user data %s: %w", key, err)
	}
	return json.RawMessage(value), true, nil
}

// Keys returns the stored keys.
func (a *SQLiteAdapter) Keys() ([]string, error) {
	rows, err := a.db.Query(`SELECT key FROM user_data ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// LoadUserData decodes every stored field into v. Fields absent from the
// store leave v untouched.
func (a *SQLiteAdapter) LoadUserData(v any) error {
	rows, err := a.db.Query(`SELECT key, value FROM user_data`)
	if err != nil {
		return fmt.Errorf("reading user data: %w", err)
	}
	defer rows.Close()

	fields := make(map[string]json.RawMessage)
	for rows.Next() {
		var k, value string
		if err := rows.Scan(&k, &value); err != nil {
			return fmt.Errorf("reading user data: %w", err)
		}
		fields[k] = json.RawMessage(value)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("reading user data: %w", err)
	}
	return assemble(fields, v)
}

// withTx executes fn within a transaction.
// It handles Begin, Rollback on error, and Commit on success.
func withTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
