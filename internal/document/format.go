// Package document renders ranked files and aggregated facts into a
// single markdown context document, and shrinks that document toward a
// token budget when one applies.
//
// The section layout is fixed. Consumers (and the validate package's
// heuristics) rely on the literal section titles, so renaming a header
// here is a breaking change.
package document

import (
	"fmt"
	"strings"

	"github.com/codescout/scout/internal/aggregate"
	"github.com/codescout/scout/internal/extract"
)

const (
	maxNodeLines = 20
	maxEdgeLines = 15
)

// Format renders the full context document for query from the ranked
// files and their aggregated facts. Sections appear in a fixed order:
// title and query, summary, architecture overview (only when pattern
// facts exist), per-file structure, complete file contents, dependency
// relationships, and usage insights.
//
// An empty ranked set short-circuits to a minimal document stating
// that no files were found.
func Format(ranked []*extract.SourceFile, facts *aggregate.Facts, query string) string {
	var b strings.Builder

	b.WriteString("# Code Context\n\n")
	fmt.Fprintf(&b, "**Query:** %s\n\n", query)

	if len(ranked) == 0 {
		fmt.Fprintf(&b, "No files found for query %q.\n", query)
		return b.String()
	}

	writeSummary(&b, ranked, facts)
	writeArchitecture(&b, facts)
	writeStructure(&b, ranked)
	writeContents(&b, ranked)
	writeDependencies(&b, facts)
	writeUsage(&b, facts)

	return b.String()
}

// PrimaryLanguage reports the language with the highest file count,
// preferring the earliest file's language on ties. Empty input yields
// an empty string.
func PrimaryLanguage(files []*extract.SourceFile) string {
	counts := make(map[string]int)
	var order []string
	for _, f := range files {
		name := f.Language.String()
		if counts[name] == 0 {
			order = append(order, name)
		}
		counts[name]++
	}
	best := ""
	bestCount := 0
	for _, name := range order {
		if counts[name] > bestCount {
			best = name
			bestCount = counts[name]
		}
	}
	return best
}

// Summary produces the one-paragraph description used both as the
// document's summary section and as the standalone summary field on
// assembly results.
func Summary(ranked []*extract.SourceFile, facts *aggregate.Facts) string {
	var lines, functions, classes int
	for _, f := range ranked {
		lines += CountLines(f.Content)
		functions += len(f.Functions)
		classes += len(f.Classes)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Analyzed %d files (%d lines) containing %d functions and %d classes. ",
		len(ranked), lines, functions, classes)
	fmt.Fprintf(&b, "Primary language: %s.", PrimaryLanguage(ranked))
	if facts != nil {
		fmt.Fprintf(&b, " Dependency graph: %d nodes, %d edges.",
			len(facts.Graph.Nodes), len(facts.Graph.Edges))
		if len(facts.Patterns) > 0 {
			fmt.Fprintf(&b, " Detected patterns: %s.", strings.Join(facts.Patterns, ", "))
		}
	}
	return b.String()
}

func writeSummary(b *strings.Builder, ranked []*extract.SourceFile, facts *aggregate.Facts) {
	b.WriteString("## Summary\n\n")
	b.WriteString(Summary(ranked, facts))
	b.WriteString("\n\n")
}

func writeArchitecture(b *strings.Builder, facts *aggregate.Facts) {
	if facts == nil || len(facts.Patterns) == 0 {
		return
	}
	b.WriteString("## Architecture Overview\n\n")
	for _, p := range facts.Patterns {
		fmt.Fprintf(b, "- %s\n", p)
	}
	b.WriteString("\n")
}

func writeStructure(b *strings.Builder, ranked []*extract.SourceFile) {
	b.WriteString("## Relevant Files Structure\n\n")
	for _, f := range ranked {
		fmt.Fprintf(b, "### %s\n\n", f.RelPath)
		fmt.Fprintf(b, "- Language: %s\n", f.Language)
		fmt.Fprintf(b, "- Size: %d bytes\n", f.Size)
		if names := classNames(f); len(names) > 0 {
			fmt.Fprintf(b, "- Classes: %s\n", strings.Join(names, ", "))
		}
		if names := functionNames(f); len(names) > 0 {
			fmt.Fprintf(b, "- Functions: %s\n", strings.Join(names, ", "))
		}
		if len(f.Dependencies) > 0 {
			fmt.Fprintf(b, "- Imports: %s\n", strings.Join(f.Dependencies, ", "))
		}
		b.WriteString("\n")
	}
}

func writeContents(b *strings.Builder, ranked []*extract.SourceFile) {
	b.WriteString("## Complete File Contents\n\n")
	for _, f := range ranked {
		fmt.Fprintf(b, "### %s\n\n", f.RelPath)
		fmt.Fprintf(b, "```%s\n", f.Language.FenceTag())
		content := strings.TrimRight(f.Content, "\n")
		if content != "" {
			b.WriteString(content)
			b.WriteString("\n")
		}
		b.WriteString("```\n\n")
	}
}

func writeDependencies(b *strings.Builder, facts *aggregate.Facts) {
	b.WriteString("## Dependency Relationships\n\n")
	if facts == nil || len(facts.Graph.Nodes) == 0 {
		b.WriteString("No dependency information available.\n\n")
		return
	}

	b.WriteString("Graph nodes:\n\n")
	for i, n := range facts.Graph.Nodes {
		if i == maxNodeLines {
			fmt.Fprintf(b, "- +%d more\n", len(facts.Graph.Nodes)-maxNodeLines)
			break
		}
		fmt.Fprintf(b, "- %s (%s, %d functions, %d classes)\n",
			n.ID, n.Language, n.Functions, n.Classes)
	}
	b.WriteString("\n")

	if len(facts.Graph.Edges) > 0 {
		b.WriteString("Graph edges:\n\n")
		for i, e := range facts.Graph.Edges {
			if i == maxEdgeLines {
				fmt.Fprintf(b, "- +%d more\n", len(facts.Graph.Edges)-maxEdgeLines)
				break
			}
			fmt.Fprintf(b, "- %s -> %s (%s)\n", e.From, e.To, e.Import)
		}
		b.WriteString("\n")
	}

	if len(facts.CommonImports) > 0 {
		b.WriteString("Common imports:\n\n")
		for _, imp := range facts.CommonImports {
			fmt.Fprintf(b, "- %s (%d files)\n", imp.Path, imp.Count)
		}
		b.WriteString("\n")
	}
}

func writeUsage(b *strings.Builder, facts *aggregate.Facts) {
	b.WriteString("## Usage Patterns & Insights\n\n")
	if facts == nil || (len(facts.FunctionUsage) == 0 && len(facts.ClassUsage) == 0) {
		b.WriteString("No repeated usage detected.\n")
		return
	}
	if len(facts.FunctionUsage) > 0 {
		b.WriteString("Frequently referenced functions:\n\n")
		for _, u := range facts.FunctionUsage {
			fmt.Fprintf(b, "- %s: %d occurrences\n", u.Name, u.Count)
		}
		b.WriteString("\n")
	}
	if len(facts.ClassUsage) > 0 {
		b.WriteString("Frequently referenced classes:\n\n")
		for _, u := range facts.ClassUsage {
			fmt.Fprintf(b, "- %s: %d occurrences\n", u.Name, u.Count)
		}
		b.WriteString("\n")
	}
}

func functionNames(f *extract.SourceFile) []string {
	names := make([]string, 0, len(f.Functions))
	for _, fn := range f.Functions {
		names = append(names, fn.Name)
	}
	return names
}

func classNames(f *extract.SourceFile) []string {
	names := make([]string, 0, len(f.Classes))
	for _, c := range f.Classes {
		names = append(names, c.Name)
	}
	return names
}
