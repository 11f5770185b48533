package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/codescout/scout/internal/cache"
	"github.com/codescout/scout/internal/config"
	"github.com/spf13/cobra"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize .scout directory and configuration",
	Long: `Initialize the .scout directory with a default config.yaml and an empty
scout.db cache in the current directory.

The config file controls file discovery (excludes, size limit, gitignore),
the default token budget, watcher timings, and the output format. The cache
stores one row per scanned file so repeated scans can report what changed.

Examples:
  scout init          # Initialize in current directory
  scout init --force  # Reinitialize (overwrites config and cache)`,
	RunE: runInit,
}

var initForce bool

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Reinitialize even if .scout already exists")
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	scoutDir := filepath.Join(cwd, config.ConfigDirName)
	cfgPath := filepath.Join(scoutDir, config.ConfigFileName)

	if _, err := os.Stat(cfgPath); err == nil {
		if !initForce {
			relPath, _ := filepath.Rel(cwd, scoutDir)
			fmt.Fprintf(cmd.OutOrStdout(), "Already initialized at %s\n", relPath)
			return nil
		}
		// Force: drop config and cache for a clean start
		if err := os.Remove(cfgPath); err != nil {
			return fmt.Errorf("removing existing config: %w", err)
		}
		if err := os.Remove(filepath.Join(scoutDir, "scout.db")); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing existing cache: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("checking config path: %w", err)
	}

	if _, err := config.SaveDefault(cwd); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}

	// Open the cache once to create the database and schema
	c, err := cache.Open(scoutDir)
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer c.Close()

	relPath, _ := filepath.Rel(cwd, scoutDir)
	fmt.Fprintf(cmd.OutOrStdout(), "Initialized scout project at %s\n", relPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Run 'scout scan' to index the project.\n")

	return nil
}
