package cache

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func setupTestCache(t *testing.T) (*Cache, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "scout-cache-test-*")
	if err != nil {
		t.Fatalf("create temp dir: %v", err)
	}

	cache, err := Open(tmpDir)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("open cache: %v", err)
	}

	cleanup := func() {
		cache.Close()
		os.RemoveAll(tmpDir)
	}

	return cache, cleanup
}

func TestCacheOpenClose(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "scout-cache-test-*")
	if err != nil {
		t.Fatalf("create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	// Open cache
	cache, err := Open(tmpDir)
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}

	// Verify path
	expectedPath := filepath.Join(tmpDir, "scout.db")
	if cache.Path() != expectedPath {
		t.Errorf("path = %q, want %q", cache.Path(), expectedPath)
	}

	// Verify DB is accessible
	if cache.DB() == nil {
		t.Error("DB() returned nil")
	}

	// Close
	if err := cache.Close(); err != nil {
		t.Errorf("close: %v", err)
	}

	// Reopen should work
	cache2, err := Open(tmpDir)
	if err != nil {
		t.Fatalf("reopen cache: %v", err)
	}
	defer cache2.Close()
}

func TestCacheClear(t *testing.T) {
	cache, cleanup := setupTestCache(t)
	defer cleanup()

	// Add some data
	cache.SetFileScanned(FileRecord{FilePath: "src/a.ts", ContentHash: "hash_a"})
	cache.SetFileScanned(FileRecord{FilePath: "src/b.ts", ContentHash: "hash_b"})

	// Verify data exists
	stats, err := cache.GetStats()
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}
	if stats.FileCount != 2 {
		t.Fatalf("expected 2 files, got %d", stats.FileCount)
	}

	// Clear
	if err := cache.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}

	// Verify cleared
	stats, err = cache.GetStats()
	if err != nil {
		t.Fatalf("get stats after clear: %v", err)
	}
	if stats.FileCount != 0 {
		t.Errorf("expected 0 files, got %d", stats.FileCount)
	}
	if !stats.LastScanned.IsZero() {
		t.Errorf("LastScanned should be zero after clear, got %v", stats.LastScanned)
	}
}

func TestHashContent(t *testing.T) {
	a := HashContent("export function foo() {}")
	b := HashContent("export function foo() {}")
	c := HashContent("export function bar() {}")

	if a != b {
		t.Errorf("same content should hash identically: %q vs %q", a, b)
	}
	if a == c {
		t.Error("different content should hash differently")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64", len(a))
	}
}

func TestFileRecordRoundTrip(t *testing.T) {
	cache, cleanup := setupTestCache(t)
	defer cleanup()

	modTime := time.Now().Add(-time.Minute).Truncate(time.Second) // RFC 3339 keeps second precision
	rec := FileRecord{
		FilePath:      "src/services/user.ts",
		ContentHash:   HashContent("export class UserService {}"),
		Size:          1024,
		ModTime:       modTime,
		Language:      "typescript",
		FunctionCount: 3,
		ClassCount:    1,
	}

	// Set scanned
	if err := cache.SetFileScanned(rec); err != nil {
		t.Fatalf("set file scanned: %v", err)
	}

	// Get hash
	hash, err := cache.GetFileHash(rec.FilePath)
	if err != nil {
		t.Fatalf("get file hash: %v", err)
	}
	if hash != rec.ContentHash {
		t.Errorf("hash = %q, want %q", hash, rec.ContentHash)
	}

	// Get record
	got, err := cache.GetFileRecord(rec.FilePath)
	if err != nil {
		t.Fatalf("get file record: %v", err)
	}
	if got.FilePath != rec.FilePath {
		t.Errorf("FilePath = %q, want %q", got.FilePath, rec.FilePath)
	}
	if got.ContentHash != rec.ContentHash {
		t.Errorf("ContentHash = %q, want %q", got.ContentHash, rec.ContentHash)
	}
	if got.Size != rec.Size {
		t.Errorf("Size = %d, want %d", got.Size, rec.Size)
	}
	if !got.ModTime.Equal(modTime) {
		t.Errorf("ModTime = %v, want %v", got.ModTime, modTime)
	}
	if got.Language != rec.Language {
		t.Errorf("Language = %q, want %q", got.Language, rec.Language)
	}
	if got.FunctionCount != rec.FunctionCount {
		t.Errorf("FunctionCount = %d, want %d", got.FunctionCount, rec.FunctionCount)
	}
	if got.ClassCount != rec.ClassCount {
		t.Errorf("ClassCount = %d, want %d", got.ClassCount, rec.ClassCount)
	}
	if got.ScannedAt.IsZero() {
		t.Error("ScannedAt is zero")
	}
}

func TestFileIndexNotFound(t *testing.T) {
	cache, cleanup := setupTestCache(t)
	defer cleanup()

	_, err := cache.GetFileHash("nonexistent.ts")
	if err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}

	_, err = cache.GetFileRecord("nonexistent.ts")
	if err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows from GetFileRecord, got %v", err)
	}
}

func TestIsFileChanged(t *testing.T) {
	cache, cleanup := setupTestCache(t)
	defer cleanup()

	path := "src/index.ts"
	hash1 := "hash1"
	hash2 := "hash2"

	// New file should be "changed"
	changed, err := cache.IsFileChanged(path, hash1)
	if err != nil {
		t.Fatalf("is file changed (new): %v", err)
	}
	if !changed {
		t.Error("new file should be reported as changed")
	}

	// Set scanned
	cache.SetFileScanned(FileRecord{FilePath: path, ContentHash: hash1})

	// Same hash should not be changed
	changed, err = cache.IsFileChanged(path, hash1)
	if err != nil {
		t.Fatalf("is file changed (same): %v", err)
	}
	if changed {
		t.Error("same hash should not be reported as changed")
	}

	// Different hash should be changed
	changed, err = cache.IsFileChanged(path, hash2)
	if err != nil {
		t.Fatalf("is file changed (different): %v", err)
	}
	if !changed {
		t.Error("different hash should be reported as changed")
	}
}

func TestFileIndexBulkSave(t *testing.T) {
	cache, cleanup := setupTestCache(t)
	defer cleanup()

	records := []FileRecord{
		{FilePath: "a.ts", ContentHash: "hash_a", Language: "typescript"},
		{FilePath: "b.js", ContentHash: "hash_b", Language: "javascript"},
		{FilePath: "c.py", ContentHash: "hash_c", Language: "python"},
	}

	if err := cache.SetBulkFilesScanned(records); err != nil {
		t.Fatalf("bulk save: %v", err)
	}

	stats, err := cache.GetStats()
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}
	if stats.FileCount != 3 {
		t.Errorf("expected 3 file records, got %d", stats.FileCount)
	}
}

func TestGetAllFileRecords(t *testing.T) {
	cache, cleanup := setupTestCache(t)
	defer cleanup()

	cache.SetFileScanned(FileRecord{FilePath: "src/b.ts", ContentHash: "hash_b"})
	cache.SetFileScanned(FileRecord{FilePath: "src/a.ts", ContentHash: "hash_a"})
	cache.SetFileScanned(FileRecord{FilePath: "lib/c.py", ContentHash: "hash_c"})

	all, err := cache.GetAllFileRecords()
	if err != nil {
		t.Fatalf("get all file records: %v", err)
	}

	if len(all) != 3 {
		t.Fatalf("expected 3 records, got %d", len(all))
	}

	// Should be sorted by file path
	if all[0].FilePath != "lib/c.py" || all[1].FilePath != "src/a.ts" || all[2].FilePath != "src/b.ts" {
		t.Errorf("records out of order: %q, %q, %q", all[0].FilePath, all[1].FilePath, all[2].FilePath)
	}
}

func TestGetChangedFiles(t *testing.T) {
	cache, cleanup := setupTestCache(t)
	defer cleanup()

	// Set initial state
	cache.SetFileScanned(FileRecord{FilePath: "a.ts", ContentHash: "hash_a"})
	cache.SetFileScanned(FileRecord{FilePath: "b.ts", ContentHash: "hash_b"})

	// Check for changes
	fileHashes := map[string]string{
		"a.ts": "hash_a",     // unchanged
		"b.ts": "hash_b_new", // changed
		"c.ts": "hash_c",     // new
	}

	changed, err := cache.GetChangedFiles(fileHashes)
	if err != nil {
		t.Fatalf("get changed files: %v", err)
	}

	// Should have b.ts and c.ts as changed
	if len(changed) != 2 {
		t.Fatalf("expected 2 changed files, got %d", len(changed))
	}

	changedSet := make(map[string]bool)
	for _, p := range changed {
		changedSet[p] = true
	}
	if !changedSet["b.ts"] || !changedSet["c.ts"] {
		t.Errorf("expected b.ts and c.ts to be changed, got %v", changed)
	}
}

func TestPruneStaleEntries(t *testing.T) {
	cache, cleanup := setupTestCache(t)
	defer cleanup()

	// Add files
	cache.SetFileScanned(FileRecord{FilePath: "keep.ts", ContentHash: "hash1"})
	cache.SetFileScanned(FileRecord{FilePath: "delete.ts", ContentHash: "hash2"})
	cache.SetFileScanned(FileRecord{FilePath: "also_delete.ts", ContentHash: "hash3"})

	// Prune
	validPaths := map[string]bool{
		"keep.ts": true,
	}
	pruned, err := cache.PruneStaleEntries(validPaths)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}

	if pruned != 2 {
		t.Errorf("expected 2 pruned, got %d", pruned)
	}

	// Verify
	stats, _ := cache.GetStats()
	if stats.FileCount != 1 {
		t.Errorf("expected 1 file record remaining, got %d", stats.FileCount)
	}

	// Verify the right one was kept
	_, err = cache.GetFileHash("keep.ts")
	if err != nil {
		t.Error("keep.ts should still exist")
	}
}

func TestGetStats(t *testing.T) {
	cache, cleanup := setupTestCache(t)
	defer cleanup()

	earlier := time.Now().Add(-time.Hour).Truncate(time.Second)
	later := time.Now().Truncate(time.Second)

	records := []FileRecord{
		{FilePath: "a.ts", ContentHash: "h1", Language: "typescript", ScannedAt: earlier},
		{FilePath: "b.ts", ContentHash: "h2", Language: "typescript", ScannedAt: earlier},
		{FilePath: "c.py", ContentHash: "h3", Language: "python", ScannedAt: later},
	}
	if err := cache.SetBulkFilesScanned(records); err != nil {
		t.Fatalf("bulk save: %v", err)
	}

	stats, err := cache.GetStats()
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}

	if stats.FileCount != 3 {
		t.Errorf("FileCount = %d, want 3", stats.FileCount)
	}
	if stats.ByLanguage["typescript"] != 2 {
		t.Errorf("typescript count = %d, want 2", stats.ByLanguage["typescript"])
	}
	if stats.ByLanguage["python"] != 1 {
		t.Errorf("python count = %d, want 1", stats.ByLanguage["python"])
	}
	if !stats.LastScanned.Equal(later) {
		t.Errorf("LastScanned = %v, want %v", stats.LastScanned, later)
	}
}
