package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/codescout/scout/internal/assemble"
	"github.com/codescout/scout/internal/validate"
)

// Marshal renders v in a structured format. Text is not a structured
// format; callers render it per result type.
func Marshal(v interface{}, format Format) (string, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return "", err
		}
		if err := encoder.Close(); err != nil {
			return "", err
		}
		return buf.String(), nil
	case FormatJSON:
		var buf bytes.Buffer
		encoder := json.NewEncoder(&buf)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(v); err != nil {
			return "", err
		}
		return buf.String(), nil
	default:
		return "", fmt.Errorf("format %s is not a structured format", format)
	}
}

// WriteContext writes an assembled context result. Text prints the
// document itself; yaml and json print the full result envelope.
func WriteContext(w io.Writer, res *assemble.Result, format Format) error {
	if format == FormatText {
		if _, err := io.WriteString(w, res.Document); err != nil {
			return err
		}
		if !strings.HasSuffix(res.Document, "\n") {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		return nil
	}

	s, err := Marshal(res, format)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, s)
	return err
}

// WriteValidation writes a document validation result. Text prints a
// short report; yaml and json print the full result envelope.
func WriteValidation(w io.Writer, res *validate.Result, format Format) error {
	if format == FormatText {
		writeValidationText(w, res)
		return nil
	}

	s, err := Marshal(res, format)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, s)
	return err
}

func writeValidationText(w io.Writer, res *validate.Result) {
	status := "incomplete"
	if res.IsComplete {
		status = "complete"
	}
	fmt.Fprintf(w, "Completeness: %.2f (%s)\n", res.Score, status)
	fmt.Fprintf(w, "Confidence:   %.2f\n", res.Confidence)

	writeItemList(w, "Missing elements", res.MissingElements)
	writeItemList(w, "Suggestions", res.Suggestions)
	writeItemList(w, "Warnings", res.Warnings)
	writeItemList(w, "Strengths", res.Strengths)
}

func writeItemList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
}
