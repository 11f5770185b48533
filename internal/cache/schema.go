package cache

// schemaSQL defines the SQLite schema for the scan-state database.
// A single file_index table tracks per-file scan results: the content
// hash drives change detection, the remaining columns let status report
// without rescanning.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS file_index (
    file_path TEXT PRIMARY KEY,
    content_hash TEXT NOT NULL,
    size INTEGER NOT NULL DEFAULT 0,
    mod_time TEXT NOT NULL DEFAULT '',
    language TEXT NOT NULL DEFAULT '',
    function_count INTEGER NOT NULL DEFAULT 0,
    class_count INTEGER NOT NULL DEFAULT 0,
    scanned_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_file_index_language ON file_index(language);
`

// initSchema creates the database tables and indexes if they don't exist.
func (c *Cache) initSchema() error {
	_, err := c.db.Exec(schemaSQL)
	return err
}
