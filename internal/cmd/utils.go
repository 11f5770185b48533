package cmd

import (
	"fmt"
	"os"

	"github.com/codescout/scout/internal/cache"
	"github.com/codescout/scout/internal/config"
	"github.com/codescout/scout/internal/extract"
	"github.com/codescout/scout/internal/output"
	"github.com/codescout/scout/internal/scan"
)

// loadConfig resolves configuration for a command run. An explicit
// --config path wins; otherwise the .scout directory is searched upward
// from dir, falling back to defaults.
func loadConfig(dir string) (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromPath(configPath)
	}
	return config.Load(dir)
}

// listerFromConfig builds a file lister from the scan settings.
func listerFromConfig(cfg *config.Config) *scan.Lister {
	return &scan.Lister{
		Excludes:    cfg.Scan.Exclude,
		MaxFileSize: cfg.Scan.MaxFileSizeBytes(),
		NoGitignore: cfg.Scan.NoGitignore,
	}
}

// resolveFormat picks the output format: the --format flag wins over the
// configured default.
func resolveFormat(cfg *config.Config) (output.Format, error) {
	if outputFormat != "" {
		return output.ParseFormat(outputFormat)
	}
	return output.ParseFormat(cfg.Output.Format)
}

// fileRecord converts extracted file facts into their cache row.
func fileRecord(sf *extract.SourceFile) cache.FileRecord {
	return cache.FileRecord{
		FilePath:      sf.RelPath,
		ContentHash:   cache.HashContent(sf.Content),
		Size:          sf.Size,
		ModTime:       sf.ModTime,
		Language:      string(sf.Language),
		FunctionCount: len(sf.Functions),
		ClassCount:    len(sf.Classes),
	}
}

// stderrLogger returns a logging function that writes prefixed lines to
// stderr. Used with --verbose and for MCP serving, where stdout carries
// the protocol.
func stderrLogger(prefix string) func(format string, args ...interface{}) {
	return func(format string, args ...interface{}) {
		fmt.Fprintf(os.Stderr, prefix+": "+format+"\n", args...)
	}
}
