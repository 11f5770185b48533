package cmd

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/codescout/scout/internal/cache"
	"github.com/codescout/scout/internal/config"
	"github.com/codescout/scout/internal/output"
	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show project configuration and cache state",
	Long: `Show the scout state for the current project: where the config and
cache live, the effective budget and watcher settings, and what the
cache knows (file counts by language, last scan time).

Examples:
  scout status                 # Human-readable status
  scout status --format json   # JSON for scripts`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// StatusOutput is the structured status payload for yaml and json output.
type StatusOutput struct {
	Initialized  bool             `json:"initialized" yaml:"initialized"`
	ProjectRoot  string           `json:"projectRoot,omitempty" yaml:"project_root,omitempty"`
	ConfigPath   string           `json:"configPath,omitempty" yaml:"config_path,omitempty"`
	CachePath    string           `json:"cachePath,omitempty" yaml:"cache_path,omitempty"`
	Completeness string           `json:"completeness,omitempty" yaml:"completeness,omitempty"`
	FileCount    int64            `json:"fileCount" yaml:"file_count"`
	ByLanguage   map[string]int64 `json:"byLanguage,omitempty" yaml:"by_language,omitempty"`
	LastScan     string           `json:"lastScan,omitempty" yaml:"last_scan,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	scoutDir, err := config.FindConfigDir(".")
	if err != nil {
		cfg := config.DefaultConfig()
		format, ferr := resolveFormat(cfg)
		if ferr != nil {
			return ferr
		}
		if format == output.FormatText {
			fmt.Fprintln(out, "Not initialized.")
			fmt.Fprintln(out, "Run 'scout init && scout scan' to get started.")
			return nil
		}
		text, merr := output.Marshal(StatusOutput{Initialized: false}, format)
		if merr != nil {
			return merr
		}
		fmt.Fprint(out, text)
		return nil
	}

	projectRoot := filepath.Dir(scoutDir)
	cfg, err := loadConfig(projectRoot)
	if err != nil {
		return err
	}
	format, err := resolveFormat(cfg)
	if err != nil {
		return err
	}

	c, err := cache.Open(scoutDir)
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	defer c.Close()

	stats, err := c.GetStats()
	if err != nil {
		return fmt.Errorf("reading cache stats: %w", err)
	}

	status := StatusOutput{
		Initialized:  true,
		ProjectRoot:  projectRoot,
		ConfigPath:   filepath.Join(scoutDir, config.ConfigFileName),
		CachePath:    c.Path(),
		Completeness: cfg.Budget.Completeness,
		FileCount:    stats.FileCount,
		ByLanguage:   stats.ByLanguage,
	}
	if !stats.LastScanned.IsZero() {
		status.LastScan = stats.LastScanned.Format("2006-01-02 15:04:05")
	}

	if format != output.FormatText {
		text, err := output.Marshal(status, format)
		if err != nil {
			return err
		}
		fmt.Fprint(out, text)
		return nil
	}

	fmt.Fprintf(out, "Project:  %s\n", status.ProjectRoot)
	fmt.Fprintf(out, "Config:   %s\n", status.ConfigPath)
	fmt.Fprintf(out, "Cache:    %s\n", status.CachePath)
	fmt.Fprintln(out)

	fmt.Fprintf(out, "Files:    %d\n", status.FileCount)
	langs := make([]string, 0, len(status.ByLanguage))
	for l := range status.ByLanguage {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	for _, l := range langs {
		fmt.Fprintf(out, "  %-12s %d\n", l, status.ByLanguage[l])
	}
	if status.LastScan != "" {
		fmt.Fprintf(out, "Last scan: %s\n", status.LastScan)
	} else {
		fmt.Fprintln(out, "Last scan: never (run 'scout scan')")
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "Budget:   %s", cfg.Budget.Completeness)
	if cfg.Budget.MaxTokens > 0 {
		fmt.Fprintf(out, " (max %d tokens)", cfg.Budget.MaxTokens)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Watcher:  poll %dms, debounce %dms\n", cfg.Watch.PollIntervalMS, cfg.Watch.DebounceMS)

	return nil
}
