package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/codescout/scout/internal/assemble"
	"github.com/codescout/scout/internal/document"
	"github.com/codescout/scout/internal/output"
	"github.com/klauspost/compress/gzip"
	"github.com/spf13/cobra"
)

// contextCmd represents the context command
var contextCmd = &cobra.Command{
	Use:   "context \"query\"",
	Short: "Assemble task-relevant code context",
	Long: `Assemble a context document for a natural language task description.

Files are ranked against keywords derived from the query (path, function,
class, content, and import matches), the best twenty are selected, and a
markdown document is produced with complete file contents, a dependency
graph, and usage patterns. When the document exceeds the token budget it
is compressed in tiers: import sections go first, then file contents are
truncated around their declarations.

Budget presets:
  minimal    ~4k tokens, tight summaries
  balanced   ~12k tokens (default)
  thorough   unlimited

Formats:
  text (default)  the document itself
  yaml | json     full envelope with metadata, graph, and file list

Assembly never hard-fails: input problems come back as an error document
with a nonzero exit code.

Examples:
  scout context "add rate limiting to the API"
  scout context "fix login bug" --root ./backend
  scout context "refactor user service" --scope class
  scout context "debug payment flow" --max-tokens 8000
  scout context "document the scheduler" --out ctx.md.gz
  scout context "trace order lifecycle" --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runContext,
}

var (
	contextRoot         string
	contextScope        string
	contextCompleteness string
	contextMaxTokens    int
	contextOut          string
)

func init() {
	rootCmd.AddCommand(contextCmd)

	contextCmd.Flags().StringVar(&contextRoot, "root", ".", "Project directory to analyze")
	contextCmd.Flags().StringVar(&contextScope, "scope", "", "Keep only files with declarations of this kind (function|class)")
	contextCmd.Flags().StringVar(&contextCompleteness, "completeness", "", "Budget preset (minimal|balanced|thorough, default from config)")
	contextCmd.Flags().IntVar(&contextMaxTokens, "max-tokens", 0, "Explicit token budget, overrides the preset")
	contextCmd.Flags().StringVar(&contextOut, "out", "", "Write to file instead of stdout (.gz compresses)")
}

func runContext(cmd *cobra.Command, args []string) error {
	absRoot, err := filepath.Abs(contextRoot)
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}

	cfg, err := loadConfig(absRoot)
	if err != nil {
		return err
	}
	format, err := resolveFormat(cfg)
	if err != nil {
		return err
	}

	completeness := contextCompleteness
	if completeness == "" {
		completeness = cfg.Budget.Completeness
	}
	maxTokens := contextMaxTokens
	if maxTokens == 0 {
		maxTokens = cfg.Budget.MaxTokens
	}

	assembler := assemble.New(listerFromConfig(cfg))
	if verbose {
		assembler.SetLogger(stderrLogger("scout"))
	}

	res := assembler.Assemble(&assemble.Request{
		Query:        args[0],
		ProjectRoot:  absRoot,
		Scope:        contextScope,
		Completeness: completeness,
		MaxTokens:    maxTokens,
	})

	w := io.Writer(cmd.OutOrStdout())
	if contextOut != "" {
		f, err := os.Create(contextOut)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
		if strings.HasSuffix(contextOut, ".gz") {
			gz := gzip.NewWriter(f)
			defer gz.Close()
			w = gz
		}
	}

	if err := output.WriteContext(w, res, format); err != nil {
		return err
	}
	if contextOut != "" && !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (~%d tokens)\n", contextOut, res.Metadata.TokenEstimate)
	}

	if res.CompressionLevel == document.LevelError {
		return fmt.Errorf("context assembly failed: %s", res.Summary)
	}
	return nil
}
