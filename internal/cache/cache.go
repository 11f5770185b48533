// Package cache provides SQLite-backed persistence of scan state.
// The database lives at .scout/scout.db and records one row per scanned
// file, so repeated scans can skip files whose content has not changed
// and status can report on the last scan without walking the project.
package cache

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Cache manages the .scout/scout.db SQLite database.
type Cache struct {
	db     *sql.DB
	dbPath string
}

// Open opens or creates the scan-state database inside the given .scout
// directory. It initializes the schema if the database is new.
func Open(scoutDir string) (*Cache, error) {
	dbPath := filepath.Join(scoutDir, "scout.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	// Enable WAL mode for better concurrent access
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	cache := &Cache{db: db, dbPath: dbPath}

	// Initialize schema
	if err := cache.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return cache, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Clear removes all recorded scan state.
func (c *Cache) Clear() error {
	_, err := c.db.Exec("DELETE FROM file_index")
	if err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}

// Path returns the database file path.
func (c *Cache) Path() string {
	return c.dbPath
}

// DB returns the underlying database connection for advanced operations.
func (c *Cache) DB() *sql.DB {
	return c.db
}

// Stats summarizes the recorded scan state.
type Stats struct {
	FileCount   int64
	ByLanguage  map[string]int64
	LastScanned time.Time
}

// GetStats returns statistics about the recorded scan state.
// LastScanned is the zero time when no files have been recorded.
func (c *Cache) GetStats() (*Stats, error) {
	stats := &Stats{ByLanguage: make(map[string]int64)}

	err := c.db.QueryRow("SELECT COUNT(*) FROM file_index").Scan(&stats.FileCount)
	if err != nil {
		return nil, fmt.Errorf("count files: %w", err)
	}

	rows, err := c.db.Query("SELECT language, COUNT(*) FROM file_index GROUP BY language")
	if err != nil {
		return nil, fmt.Errorf("count by language: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var language string
		var count int64
		if err := rows.Scan(&language, &count); err != nil {
			return nil, fmt.Errorf("scan language count: %w", err)
		}
		stats.ByLanguage[language] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate language counts: %w", err)
	}

	// RFC 3339 strings from a single writer sort chronologically, so MAX
	// picks the most recent scan.
	var last sql.NullString
	err = c.db.QueryRow("SELECT MAX(scanned_at) FROM file_index").Scan(&last)
	if err != nil {
		return nil, fmt.Errorf("last scanned: %w", err)
	}
	if last.Valid {
		stats.LastScanned, _ = time.Parse(time.RFC3339, last.String)
	}

	return stats, nil
}
