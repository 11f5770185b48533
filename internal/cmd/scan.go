package cmd

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/codescout/scout/internal/cache"
	"github.com/codescout/scout/internal/config"
	"github.com/codescout/scout/internal/index"
	"github.com/codescout/scout/internal/lang"
	"github.com/spf13/cobra"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Scan a project and cache structural facts",
	Long: `Scan lists source files under the given directory (or the current
directory if none given), extracts structural facts from each file, and
records them in the .scout/scout.db cache.

The scan process:
  1. Discovers source files, honoring .gitignore and configured excludes
  2. Extracts imports, functions, and classes with lightweight heuristics
  3. Writes one cache row per file (path, content hash, counts)
  4. Prunes cache rows for files that no longer exist

Supported languages: TypeScript, JavaScript, Python. Other files are
listed but carry no extracted facts.

Examples:
  scout scan                       # Scan current directory
  scout scan ./backend             # Scan a specific project
  scout scan --exclude '**/*.gen.ts'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

var scanExclude []string

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringSliceVar(&scanExclude, "exclude", nil, "Additional exclude patterns (comma-separated globs)")
}

func runScan(cmd *cobra.Command, args []string) error {
	scanPath := "."
	if len(args) > 0 {
		scanPath = args[0]
	}
	absPath, err := filepath.Abs(scanPath)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	// Find an existing .scout by walking up, or create one at the scan path
	var scoutDir, projectRoot string
	if existing, err := config.FindConfigDir(absPath); err == nil {
		scoutDir = existing
		projectRoot = filepath.Dir(existing)
	} else {
		scoutDir, err = config.EnsureConfigDir(absPath)
		if err != nil {
			return fmt.Errorf("creating .scout directory: %w", err)
		}
		projectRoot = absPath
	}

	cfg, err := loadConfig(projectRoot)
	if err != nil {
		return err
	}
	lister := listerFromConfig(cfg)
	if len(scanExclude) > 0 {
		lister.Excludes = append(lister.Excludes, scanExclude...)
	}

	start := time.Now()

	listed, err := lister.List(projectRoot)
	if err != nil {
		return fmt.Errorf("listing files: %w", err)
	}

	idx := index.New(projectRoot)
	idx.Build(listed.Paths)
	stats := idx.ComputeStats()

	// Persist per-file records and work out what changed since last scan
	c, err := cache.Open(scoutDir)
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	defer c.Close()

	snapshot := idx.Snapshot()
	records := make([]cache.FileRecord, 0, len(snapshot))
	hashes := make(map[string]string, len(snapshot))
	valid := make(map[string]bool, len(snapshot))
	for _, sf := range snapshot {
		rec := fileRecord(sf)
		records = append(records, rec)
		hashes[rec.FilePath] = rec.ContentHash
		valid[rec.FilePath] = true
	}

	changed, err := c.GetChangedFiles(hashes)
	if err != nil {
		return fmt.Errorf("diffing cache: %w", err)
	}
	if err := c.SetBulkFilesScanned(records); err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	pruned, err := c.PruneStaleEntries(valid)
	if err != nil {
		return fmt.Errorf("pruning cache: %w", err)
	}

	if quiet {
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Scanned %d files in %v\n", stats.Files, time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(out, "  functions: %d, classes: %d\n", stats.Functions, stats.Classes)

	langs := make([]string, 0, len(stats.Languages))
	for l := range stats.Languages {
		langs = append(langs, string(l))
	}
	sort.Strings(langs)
	for _, l := range langs {
		fmt.Fprintf(out, "  %-12s %d\n", l, stats.Languages[lang.Language(l)])
	}

	fmt.Fprintf(out, "  changed since last scan: %d\n", len(changed))
	if len(listed.SkippedLarge) > 0 {
		fmt.Fprintf(out, "  skipped (too large): %d\n", len(listed.SkippedLarge))
	}
	if pruned > 0 {
		fmt.Fprintf(out, "  pruned %d stale cache entries\n", pruned)
	}

	return nil
}
