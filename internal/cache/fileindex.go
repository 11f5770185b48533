package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"
)

// FileRecord holds the scan state for a single file. FilePath is the
// path relative to the project root, which keeps records stable when
// the project directory moves.
type FileRecord struct {
	FilePath      string
	ContentHash   string
	Size          int64
	ModTime       time.Time
	Language      string
	FunctionCount int
	ClassCount    int
	ScannedAt     time.Time
}

// HashContent computes the content hash used for change detection.
// Returns a 64-character hex string.
func HashContent(content string) string {
	h := sha256.Sum256([]byte(content))
	return hex.EncodeToString(h[:])
}

// SetFileScanned records that a file has been scanned. A zero ScannedAt
// is replaced with the current time.
func (c *Cache) SetFileScanned(rec FileRecord) error {
	scannedAt := rec.ScannedAt
	if scannedAt.IsZero() {
		scannedAt = time.Now()
	}
	_, err := c.db.Exec(`
		INSERT OR REPLACE INTO file_index
		(file_path, content_hash, size, mod_time, language, function_count, class_count, scanned_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.FilePath, rec.ContentHash, rec.Size, rec.ModTime.Format(time.RFC3339),
		rec.Language, rec.FunctionCount, rec.ClassCount, scannedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("set file scanned %s: %w", rec.FilePath, err)
	}
	return nil
}

// GetFileHash retrieves the last recorded content hash for a file.
// Returns sql.ErrNoRows if the file has not been scanned.
func (c *Cache) GetFileHash(path string) (string, error) {
	var hash string
	err := c.db.QueryRow("SELECT content_hash FROM file_index WHERE file_path = ?", path).Scan(&hash)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", err
		}
		return "", fmt.Errorf("get file hash %s: %w", path, err)
	}
	return hash, nil
}

// GetFileRecord retrieves the full record for a file.
// Returns sql.ErrNoRows if the file has not been scanned.
func (c *Cache) GetFileRecord(path string) (*FileRecord, error) {
	var rec FileRecord
	var modTime, scannedAt string
	err := c.db.QueryRow(`
		SELECT file_path, content_hash, size, mod_time, language, function_count, class_count, scanned_at
		FROM file_index WHERE file_path = ?`,
		path).Scan(&rec.FilePath, &rec.ContentHash, &rec.Size, &modTime,
		&rec.Language, &rec.FunctionCount, &rec.ClassCount, &scannedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get file record %s: %w", path, err)
	}
	rec.ModTime, _ = time.Parse(time.RFC3339, modTime)
	rec.ScannedAt, _ = time.Parse(time.RFC3339, scannedAt)
	return &rec, nil
}

// IsFileChanged checks if a file's content has changed since last scan.
// Returns true if the file has changed or has never been scanned.
func (c *Cache) IsFileChanged(path, newHash string) (bool, error) {
	oldHash, err := c.GetFileHash(path)
	if err == sql.ErrNoRows {
		// File has never been scanned
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return oldHash != newHash, nil
}

// GetAllFileRecords retrieves all records ordered by file path.
func (c *Cache) GetAllFileRecords() ([]FileRecord, error) {
	rows, err := c.db.Query(`
		SELECT file_path, content_hash, size, mod_time, language, function_count, class_count, scanned_at
		FROM file_index ORDER BY file_path`)
	if err != nil {
		return nil, fmt.Errorf("query file records: %w", err)
	}
	defer rows.Close()

	var records []FileRecord
	for rows.Next() {
		var rec FileRecord
		var modTime, scannedAt string
		err := rows.Scan(&rec.FilePath, &rec.ContentHash, &rec.Size, &modTime,
			&rec.Language, &rec.FunctionCount, &rec.ClassCount, &scannedAt)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		rec.ModTime, _ = time.Parse(time.RFC3339, modTime)
		rec.ScannedAt, _ = time.Parse(time.RFC3339, scannedAt)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return records, nil
}

// DeleteFileRecord removes a file from the index.
func (c *Cache) DeleteFileRecord(path string) error {
	_, err := c.db.Exec("DELETE FROM file_index WHERE file_path = ?", path)
	if err != nil {
		return fmt.Errorf("delete file record %s: %w", path, err)
	}
	return nil
}

// SetBulkFilesScanned records scan state for multiple files efficiently.
func (c *Cache) SetBulkFilesScanned(records []FileRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO file_index
		(file_path, content_hash, size, mod_time, language, function_count, class_count, scanned_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		scannedAt := rec.ScannedAt
		if scannedAt.IsZero() {
			scannedAt = time.Now()
		}
		_, err := stmt.Exec(rec.FilePath, rec.ContentHash, rec.Size,
			rec.ModTime.Format(time.RFC3339), rec.Language,
			rec.FunctionCount, rec.ClassCount, scannedAt.Format(time.RFC3339))
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("save file record %s: %w", rec.FilePath, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetChangedFiles returns files that have changed compared to the provided
// hashes. The input is a map of file path to new hash. Returns a slice of
// paths that have changed or are new.
func (c *Cache) GetChangedFiles(fileHashes map[string]string) ([]string, error) {
	var changed []string

	for path, newHash := range fileHashes {
		isChanged, err := c.IsFileChanged(path, newHash)
		if err != nil {
			return nil, err
		}
		if isChanged {
			changed = append(changed, path)
		}
	}

	return changed, nil
}

// PruneStaleEntries removes records for files no longer in the provided set.
// This is useful for cleaning up entries for deleted files.
func (c *Cache) PruneStaleEntries(validPaths map[string]bool) (int, error) {
	records, err := c.GetAllFileRecords()
	if err != nil {
		return 0, err
	}

	var pruned int
	for _, rec := range records {
		if !validPaths[rec.FilePath] {
			if err := c.DeleteFileRecord(rec.FilePath); err != nil {
				return pruned, err
			}
			pruned++
		}
	}

	return pruned, nil
}
