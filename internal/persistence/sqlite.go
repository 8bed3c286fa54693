package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"taskctl/internal/logging"
)

// SQLite is a Persistence adapter backed by an embedded, cgo-free SQLite
// database (modernc.org/sqlite, the driver Heikkila-Pty-Ltd-cortex depends
// on directly). Each (key, value) pair is stored as a JSON blob keyed by
// key, matching the read-through-cache/deep-copy/commit contract of §4.6.
type SQLite struct {
	db    *sql.DB
	log   logging.Sink
	cache map[string]map[string]any
}

// OpenSQLite opens (creating if necessary) a SQLite-backed Persistence
// adapter at path. Use ":memory:" for an ephemeral, process-local database.
func OpenSQLite(path string, log logging.Sink) (*SQLite, error) {
	if log == nil {
		log = logging.NewNoop()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("persistence: opening sqlite database: %w", err)
	}
	if _, err := db.ExecContext(context.Background(), `
		CREATE TABLE IF NOT EXISTS task_state (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("persistence: creating task_state table: %w", err)
	}
	return &SQLite{db: db, log: log, cache: map[string]map[string]any{}}, nil
}

// Close releases the underlying database handle.
func (s *SQLite) Close() error { return s.db.Close() }

// Load populates the in-memory cache from durable storage. Idempotent: a
// later call discards the prior in-memory cache and reloads from disk.
func (s *SQLite) Load(onFailure OnFailure) bool {
	rows, err := s.db.QueryContext(context.Background(), `SELECT key, value FROM task_state`)
	if err != nil {
		s.log.Error("persistence.SQLite.Load: query failed", "error", err)
		if onFailure != nil {
			onFailure(err)
		}
		return false
	}
	defer rows.Close()

	cache := map[string]map[string]any{}
	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			s.log.Error("persistence.SQLite.Load: scan failed", "error", err)
			if onFailure != nil {
				onFailure(err)
			}
			return false
		}
		var value map[string]any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			s.log.Error("persistence.SQLite.Load: decode failed", "key", key, "error", err)
			if onFailure != nil {
				onFailure(err)
			}
			return false
		}
		cache[key] = value
	}
	if err := rows.Err(); err != nil {
		s.log.Error("persistence.SQLite.Load: row iteration failed", "error", err)
		if onFailure != nil {
			onFailure(err)
		}
		return false
	}

	s.cache = cache
	return true
}

// Get returns a deep copy of the value stored under key. When
// refreshIfMissing is true and key is absent from the in-memory cache, it
// is looked up directly in the database before giving up.
func (s *SQLite) Get(key string, refreshIfMissing bool) map[string]any {
	if v, ok := s.cache[key]; ok {
		return deepCopyMap(v)
	}
	if !refreshIfMissing {
		return map[string]any{}
	}

	var raw string
	err := s.db.QueryRowContext(context.Background(), `SELECT value FROM task_state WHERE key = ?`, key).Scan(&raw)
	if err != nil {
		return map[string]any{}
	}
	var value map[string]any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		s.log.Warn("persistence.SQLite.Get: decode failed", "key", key, "error", err)
		return map[string]any{}
	}
	s.cache[key] = value
	return deepCopyMap(value)
}

// UpdateObjectState stores a deep copy of value in the in-memory cache.
// Durability is deferred to Commit.
func (s *SQLite) UpdateObjectState(key string, value map[string]any) {
	s.cache[key] = deepCopyMap(value)
}

// Commit flushes the in-memory cache to the database inside a single
// transaction (upsert per key).
func (s *SQLite) Commit(onFailure OnFailure) bool {
	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		s.log.Error("persistence.SQLite.Commit: begin tx failed", "error", err)
		if onFailure != nil {
			onFailure(err)
		}
		return false
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(context.Background(), `
		INSERT INTO task_state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`)
	if err != nil {
		s.log.Error("persistence.SQLite.Commit: prepare failed", "error", err)
		if onFailure != nil {
			onFailure(err)
		}
		return false
	}
	defer stmt.Close()

	for key, value := range s.cache {
		raw, err := json.Marshal(value)
		if err != nil {
			s.log.Error("persistence.SQLite.Commit: encode failed", "key", key, "error", err)
			if onFailure != nil {
				onFailure(err)
			}
			return false
		}
		if _, err := stmt.ExecContext(context.Background(), key, string(raw)); err != nil {
			s.log.Error("persistence.SQLite.Commit: upsert failed", "key", key, "error", err)
			if onFailure != nil {
				onFailure(err)
			}
			return false
		}
	}

	if err := tx.Commit(); err != nil {
		s.log.Error("persistence.SQLite.Commit: tx commit failed", "error", err)
		if onFailure != nil {
			onFailure(err)
		}
		return false
	}
	return true
}
