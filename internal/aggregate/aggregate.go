// Package aggregate derives cross-file facts from a ranked file set: an
// approximate dependency graph, common import targets, coarse
// architectural-pattern labels, and per-name usage counts.
//
// Everything here is transient and recomputed per request; nothing is
// persisted or cached.
package aggregate

import (
	"sort"
	"strings"

	"github.com/codescout/scout/internal/extract"
)

const (
	// topImports caps the common-import list.
	topImports = 10
	// topUsage caps the usage-count lists.
	topUsage = 10
)

// Node is one file in the dependency graph.
type Node struct {
	ID        string `json:"id" yaml:"id"`
	Language  string `json:"language" yaml:"language"`
	Size      int64  `json:"size" yaml:"size"`
	Functions int    `json:"functions" yaml:"functions"`
	Classes   int    `json:"classes" yaml:"classes"`
}

// Edge is one resolved import between two ranked files.
type Edge struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
	// Import is the import path as written in the source.
	Import string `json:"import" yaml:"import"`
}

// Graph is the approximate dependency graph over the ranked files.
type Graph struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
}

// ImportCount is one import path with its occurrence count.
type ImportCount struct {
	Path  string `json:"path" yaml:"path"`
	Count int    `json:"count" yaml:"count"`
}

// UsageCount is one declared name with its same-file occurrence count.
type UsageCount struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// Facts holds everything derived from one ranked file set.
type Facts struct {
	Graph         Graph         `json:"graph" yaml:"graph"`
	CommonImports []ImportCount `json:"commonImports" yaml:"common_imports"`
	Patterns      []string      `json:"patterns" yaml:"patterns"`
	FunctionUsage []UsageCount  `json:"functionUsage" yaml:"function_usage"`
	ClassUsage    []UsageCount  `json:"classUsage" yaml:"class_usage"`
}

// patternLabels maps path fragments to architectural-pattern labels.
// Checked in order; each label appears at most once no matter how many
// files match.
var patternLabels = []struct {
	fragments []string
	label     string
}{
	{[]string{"service"}, "Service Layer"},
	{[]string{"component"}, "Component Architecture"},
	{[]string{"util", "helper"}, "Utility Functions"},
	{[]string{"model", "entity"}, "Data Models"},
}

// Aggregate computes facts over the ranked files.
func Aggregate(ranked []*extract.SourceFile) *Facts {
	return &Facts{
		Graph:         buildGraph(ranked),
		CommonImports: commonImports(ranked),
		Patterns:      detectPatterns(ranked),
		FunctionUsage: functionUsage(ranked),
		ClassUsage:    classUsage(ranked),
	}
}

// buildGraph creates one node per ranked file and one edge per (file,
// import) pair whose import path resolves to a ranked file. Unresolved
// imports are dropped silently, so external and broken links are
// invisible in the graph.
func buildGraph(ranked []*extract.SourceFile) Graph {
	var graph Graph
	for _, file := range ranked {
		graph.Nodes = append(graph.Nodes, Node{
			ID:        file.RelPath,
			Language:  file.Language.String(),
			Size:      file.Size,
			Functions: len(file.Functions),
			Classes:   len(file.Classes),
		})
	}
	for _, file := range ranked {
		for _, dep := range file.Dependencies {
			target, ok := resolveImport(dep, ranked)
			if !ok {
				continue
			}
			graph.Edges = append(graph.Edges, Edge{
				From:   file.RelPath,
				To:     target.RelPath,
				Import: dep,
			})
		}
	}
	return graph
}

// resolveImport matches an import path to a ranked file by string
// comparison only: relative-path containment, or exact match against the
// import path plus a primary-language extension. The first file in
// ranked order satisfying either test wins. This is deliberately not a
// module resolver; false positives and misses are expected.
func resolveImport(importPath string, ranked []*extract.SourceFile) (*extract.SourceFile, bool) {
	cleaned := cleanImportPath(importPath)
	if cleaned == "" {
		return nil, false
	}
	for _, file := range ranked {
		if strings.Contains(file.RelPath, cleaned) ||
			file.RelPath == cleaned+".ts" ||
			file.RelPath == cleaned+".js" {
			return file, true
		}
	}
	return nil, false
}

// cleanImportPath strips the leading relative segments from an import
// path so it can be compared against root-relative file paths.
func cleanImportPath(path string) string {
	for {
		switch {
		case strings.HasPrefix(path, "./"):
			path = path[2:]
		case strings.HasPrefix(path, "../"):
			path = path[3:]
		default:
			return path
		}
	}
}

// commonImports counts occurrences of each distinct import path across
// the ranked files and keeps the top ten.
func commonImports(ranked []*extract.SourceFile) []ImportCount {
	counts := make(map[string]int)
	for _, file := range ranked {
		for _, dep := range file.Dependencies {
			counts[dep]++
		}
	}

	var out []ImportCount
	for _, key := range sortedKeys(counts, topImports) {
		out = append(out, ImportCount{Path: key, Count: counts[key]})
	}
	return out
}

// detectPatterns tests relative paths for membership fragments and
// collects the matching labels.
func detectPatterns(ranked []*extract.SourceFile) []string {
	var labels []string
	for _, entry := range patternLabels {
		if anyPathContains(ranked, entry.fragments) {
			labels = append(labels, entry.label)
		}
	}
	return labels
}

func anyPathContains(ranked []*extract.SourceFile, fragments []string) bool {
	for _, file := range ranked {
		pathLower := strings.ToLower(file.RelPath)
		for _, fragment := range fragments {
			if strings.Contains(pathLower, fragment) {
				return true
			}
		}
	}
	return false
}

// functionUsage counts, for every function defined in a ranked file, the
// literal occurrences of its name in that same file's content. Names
// used beyond their definition line (count above one) are kept, top ten
// by count. A literal substring count over-counts names that appear in
// comments or strings; no cross-file lookup happens.
func functionUsage(ranked []*extract.SourceFile) []UsageCount {
	counts := make(map[string]int)
	for _, file := range ranked {
		for _, fn := range file.Functions {
			if n := strings.Count(file.Content, fn.Name); n > 1 {
				counts[fn.Name] += n
			}
		}
	}
	return usageCounts(counts)
}

// classUsage mirrors functionUsage for class names.
func classUsage(ranked []*extract.SourceFile) []UsageCount {
	counts := make(map[string]int)
	for _, file := range ranked {
		for _, cl := range file.Classes {
			if n := strings.Count(file.Content, cl.Name); n > 1 {
				counts[cl.Name] += n
			}
		}
	}
	return usageCounts(counts)
}

func usageCounts(counts map[string]int) []UsageCount {
	var out []UsageCount
	for _, key := range sortedKeys(counts, topUsage) {
		out = append(out, UsageCount{Name: key, Count: counts[key]})
	}
	return out
}

// sortedKeys orders count-map keys by count descending, ties broken by
// key for determinism, and returns at most limit of them.
func sortedKeys(counts map[string]int, limit int) []string {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > limit {
		keys = keys[:limit]
	}
	return keys
}
