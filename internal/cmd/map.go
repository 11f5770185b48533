package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/codescout/scout/internal/tree"
	"github.com/spf13/cobra"
)

// mapCmd represents the map command
var mapCmd = &cobra.Command{
	Use:   "map [path]",
	Short: "Show the folder tree of recognized source files",
	Long: `Map renders the project's folder structure, limited to the files a scan
would pick up: .gitignore and configured excludes apply, dependency
directories are skipped, directories sort before files.

Useful for orienting in an unfamiliar codebase before asking for context.

Examples:
  scout map             # Tree of the current directory
  scout map src/        # Tree of a subdirectory`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMap,
}

func init() {
	rootCmd.AddCommand(mapCmd)
}

func runMap(cmd *cobra.Command, args []string) error {
	mapPath := "."
	if len(args) > 0 {
		mapPath = args[0]
	}
	absPath, err := filepath.Abs(mapPath)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := loadConfig(absPath)
	if err != nil {
		return err
	}

	root, err := tree.Build(absPath, listerFromConfig(cfg))
	if err != nil {
		return fmt.Errorf("building tree: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, tree.Render(root))

	if !quiet {
		dirs, files := tree.Stats(root)
		fmt.Fprintf(out, "\n%d directories, %d files\n", dirs, files)
	}
	return nil
}
