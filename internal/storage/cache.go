// Copyright (c) 2024-2025 UniHub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists catalog snapshots in a local SQLite database so
// listings keep working while the backend is unreachable.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/unihub/unihub-tui/internal/catalog"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrEmptyCache = errors.New("catalog cache is empty")
	ErrStale      = errors.New("catalog cache is stale")
)

// DefaultMaxAge is how long a cached snapshot stays usable.
const DefaultMaxAge = 24 * time.Hour

// =============================================================================
// CATALOG CACHE
// =============================================================================

// Schema holds the cache tables. Universities are stored as JSON blobs:
// the cache serves whole snapshots, never relational queries.
const schema = `
CREATE TABLE IF NOT EXISTS universities (
	id   TEXT PRIMARY KEY,
	data TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// Cache is the on-disk catalog snapshot.
type Cache struct {
	db     *sql.DB
	maxAge time.Duration
	mu     sync.Mutex
}

// Open opens (creating if needed) the cache database at path.
func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Cache{db: db, maxAge: DefaultMaxAge}, nil
}

// WithMaxAge overrides how long snapshots stay usable.
func (c *Cache) WithMaxAge(d time.Duration) *Cache {
	c.maxAge = d
	return c
}

// Close releases the database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// StoreUniversities replaces the cached snapshot with items and stamps it
// with the current time.
func (c *Cache) StoreUniversities(items []catalog.University) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM universities"); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO universities (id, data) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range items {
		data, err := json.Marshal(&items[i])
		if err != nil {
			return fmt.Errorf("failed to encode university %s: %w", items[i].ID, err)
		}
		if _, err := stmt.Exec(items[i].ID, string(data)); err != nil {
			return fmt.Errorf("failed to insert university %s: %w", items[i].ID, err)
		}
	}

	stamp := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.Exec(
		"INSERT INTO meta (key, value) VALUES ('updated_at', ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		stamp,
	); err != nil {
		return fmt.Errorf("failed to record timestamp: %w", err)
	}

	return tx.Commit()
}

// LoadUniversities returns the cached snapshot. ErrEmptyCache when nothing
// was stored yet, ErrStale when the snapshot is older than the max age.
func (c *Cache) LoadUniversities() ([]catalog.University, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	updated, err := c.updatedAt()
	if err != nil {
		return nil, err
	}
	if time.Since(updated) > c.maxAge {
		return nil, ErrStale
	}

	rows, err := c.db.Query("SELECT data FROM universities ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query cache: %w", err)
	}
	defer rows.Close()

	var items []catalog.University
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		var u catalog.University
		if err := json.Unmarshal([]byte(data), &u); err != nil {
			return nil, fmt.Errorf("failed to decode cached university: %w", err)
		}
		items = append(items, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cache: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrEmptyCache
	}
	return items, nil
}

// StoreMeta caches the catalog dimensions alongside the snapshot.
func (c *Cache) StoreMeta(meta *catalog.MetaResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to encode meta: %w", err)
	}
	_, err = c.db.Exec(
		"INSERT INTO meta (key, value) VALUES ('dimensions', ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to store meta: %w", err)
	}
	return nil
}

// LoadMeta returns the cached catalog dimensions.
func (c *Cache) LoadMeta() (*catalog.MetaResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var data string
	err := c.db.QueryRow("SELECT value FROM meta WHERE key = 'dimensions'").Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEmptyCache
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query meta: %w", err)
	}

	var meta catalog.MetaResponse
	if err := json.Unmarshal([]byte(data), &meta); err != nil {
		return nil, fmt.Errorf("failed to decode cached meta: %w", err)
	}
	return &meta, nil
}

// UpdatedAt returns when the snapshot was last refreshed.
func (c *Cache) UpdatedAt() (time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updatedAt()
}

// updatedAt reads the snapshot timestamp. Callers must hold mu.
func (c *Cache) updatedAt() (time.Time, error) {
	var stamp string
	err := c.db.QueryRow("SELECT value FROM meta WHERE key = 'updated_at'").Scan(&stamp)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrEmptyCache
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to query timestamp: %w", err)
	}
	t, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp: %w", err)
	}
	return t, nil
}
