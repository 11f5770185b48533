// Package index owns the in-memory store of extracted source files.
//
// The store is an arena keyed by absolute path. Only Build and Refresh
// mutate it; every consumer works from a point-in-time Snapshot. A full
// build extracts files concurrently and serializes just the insert-by-key,
// so two refreshes racing on one path resolve to whichever finished last.
package index

import (
	"runtime"
	"sort"
	"sync"

	"github.com/codescout/scout/internal/extract"
	"github.com/codescout/scout/internal/lang"
)

// maxExtractWorkers caps the extraction pool on large machines.
const maxExtractWorkers = 8

// Index holds the known source files for one project root.
type Index struct {
	root      string
	extractor *extract.Extractor

	mu    sync.RWMutex
	files map[string]*extract.SourceFile
}

// New creates an empty index for the given project root.
func New(root string) *Index {
	return &Index{
		root:      root,
		extractor: extract.NewExtractor(root),
		files:     make(map[string]*extract.SourceFile),
	}
}

// Root returns the project root the index was built for.
func (ix *Index) Root() string {
	return ix.root
}

// Build extracts all given absolute paths and inserts the records,
// replacing any previous entry per path. Extraction runs on a bounded
// worker pool; inserts serialize behind the store mutex.
func (ix *Index) Build(paths []string) {
	workers := runtime.NumCPU()
	if workers > maxExtractWorkers {
		workers = maxExtractWorkers
	}
	if workers > len(paths) {
		workers = len(paths)
	}
	if workers < 1 {
		return
	}

	jobs := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				ix.insert(ix.extractor.ExtractFile(path))
			}
		}()
	}
	for _, path := range paths {
		jobs <- path
	}
	close(jobs)
	wg.Wait()
}

// Refresh re-extracts the given absolute paths and replaces their entries.
// Paths that no longer exist degrade to empty-fact records, which replace
// the stale entry rather than deleting it. Last write wins.
func (ix *Index) Refresh(paths []string) {
	for _, path := range paths {
		ix.insert(ix.extractor.ExtractFile(path))
	}
}

// insert is the single insertion barrier for the file mapping.
func (ix *Index) insert(file *extract.SourceFile) {
	ix.mu.Lock()
	ix.files[file.Path] = file
	ix.mu.Unlock()
}

// Get returns the current record for an absolute path.
func (ix *Index) Get(path string) (*extract.SourceFile, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	file, ok := ix.files[path]
	return file, ok
}

// Len returns the number of known files.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.files)
}

// Snapshot returns a point-in-time list of all known files, ordered by
// path. The slice is the caller's; the records themselves are shared and
// must be treated as read-only.
func (ix *Index) Snapshot() []*extract.SourceFile {
	ix.mu.RLock()
	files := make([]*extract.SourceFile, 0, len(ix.files))
	for _, file := range ix.files {
		files = append(files, file)
	}
	ix.mu.RUnlock()

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
	return files
}

// Stats summarizes the indexed files.
type Stats struct {
	Files     int
	Functions int
	Classes   int
	Languages map[lang.Language]int
}

// ComputeStats tallies counts over the current snapshot.
func (ix *Index) ComputeStats() Stats {
	stats := Stats{Languages: make(map[lang.Language]int)}
	for _, file := range ix.Snapshot() {
		stats.Files++
		stats.Functions += len(file.Functions)
		stats.Classes += len(file.Classes)
		stats.Languages[file.Language]++
	}
	return stats
}
