package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/codescout/scout/internal/output"
	"github.com/codescout/scout/internal/validate"
	"github.com/spf13/cobra"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Score how completely a context document covers a task",
	Long: `Validate scores a context document against the task it was assembled
for, using five weighted heuristics: code completeness, dependency
coverage, document structure, query coherence, and usage examples.

The verdict includes a completeness score (0 to 1), a confidence score,
missing elements, and concrete suggestions. A document is considered
complete when it scores at least 0.8 with fewer than three missing
elements.

Examples:
  scout validate --document ctx.md --query "fix login bug"
  scout context "task" | scout validate --document - --query "task"
  scout validate --document ctx.md --query "task" --format json`,
	RunE: runValidate,
}

var (
	validateDocument string
	validateQuery    string
)

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateDocument, "document", "", "Context document file to score ('-' for stdin)")
	validateCmd.Flags().StringVar(&validateQuery, "query", "", "Task the document is meant to support")
	validateCmd.MarkFlagRequired("document")
	validateCmd.MarkFlagRequired("query")
}

func runValidate(cmd *cobra.Command, args []string) error {
	var data []byte
	var err error
	if validateDocument == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
	} else {
		data, err = os.ReadFile(validateDocument)
		if err != nil {
			return fmt.Errorf("reading document: %w", err)
		}
	}

	cfg, err := loadConfig(".")
	if err != nil {
		return err
	}
	format, err := resolveFormat(cfg)
	if err != nil {
		return err
	}

	result := validate.Score(string(data), validateQuery)
	return output.WriteValidation(cmd.OutOrStdout(), result, format)
}
