// Package assemble runs the context pipeline end to end for a single
// request: list candidate files, extract their facts, rank them
// against the query, aggregate, format, and compress to budget.
//
// Assemble never fails. Invalid input and internal panics both
// produce a well-formed error document with zeroed metadata, so
// callers need no failure handling on this path.
package assemble

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/codescout/scout/internal/aggregate"
	"github.com/codescout/scout/internal/document"
	"github.com/codescout/scout/internal/extract"
	"github.com/codescout/scout/internal/index"
	"github.com/codescout/scout/internal/rank"
	"github.com/codescout/scout/internal/scan"
)

// Completeness presets select a token budget when the request does not
// set one explicitly.
const (
	CompletenessMinimal  = "minimal"
	CompletenessBalanced = "balanced"
	CompletenessThorough = "thorough"

	budgetMinimal  = 4000
	budgetBalanced = 12000
)

// Request describes one context-assembly call.
type Request struct {
	Query        string `json:"query" yaml:"query"`
	ProjectRoot  string `json:"projectRoot" yaml:"project_root"`
	Scope        string `json:"scope,omitempty" yaml:"scope,omitempty"`
	Completeness string `json:"completeness,omitempty" yaml:"completeness,omitempty"`
	MaxTokens    int    `json:"maxTokens,omitempty" yaml:"max_tokens,omitempty"`
}

// Metadata summarizes what went into a document. An error result
// carries the zero value.
type Metadata struct {
	FileCount       int    `json:"fileCount" yaml:"file_count"`
	LineCount       int    `json:"lineCount" yaml:"line_count"`
	FunctionCount   int    `json:"functionCount" yaml:"function_count"`
	ClassCount      int    `json:"classCount" yaml:"class_count"`
	PrimaryLanguage string `json:"primaryLanguage" yaml:"primary_language"`
	TokenEstimate   int    `json:"tokenEstimate" yaml:"token_estimate"`
}

// Result is the context-request response. CompressionLevel "error"
// marks a failure result; the failure message is embedded in the
// document body and repeated in Summary.
type Result struct {
	RequestID        string          `json:"requestId" yaml:"request_id"`
	Document         string          `json:"document" yaml:"document"`
	Metadata         Metadata        `json:"metadata" yaml:"metadata"`
	Summary          string          `json:"summary" yaml:"summary"`
	Graph            aggregate.Graph `json:"dependencyGraph" yaml:"dependency_graph"`
	UsagePatterns    []string        `json:"usagePatterns" yaml:"usage_patterns"`
	FilesIncluded    []string        `json:"filesIncluded" yaml:"files_included"`
	CompressionLevel document.Level  `json:"compressionLevel" yaml:"compression_level"`
}

// Assembler serves context requests. By default every request scans
// the project root fresh; a daemon can attach a live index instead and
// keep it current through change notifications.
type Assembler struct {
	lister  *scan.Lister
	idx     *index.Index
	logFunc func(format string, args ...interface{})
}

// New creates an assembler that scans per request using lister. A nil
// lister gets defaults.
func New(lister *scan.Lister) *Assembler {
	if lister == nil {
		lister = &scan.Lister{}
	}
	return &Assembler{lister: lister}
}

// NewWithIndex creates an assembler that serves requests whose project
// root matches idx from its snapshots. Requests for other roots fall
// back to scanning with lister.
func NewWithIndex(idx *index.Index, lister *scan.Lister) *Assembler {
	a := New(lister)
	a.idx = idx
	return a
}

// SetLogger sets a logging function. The assembler is silent without
// one.
func (a *Assembler) SetLogger(fn func(format string, args ...interface{})) {
	a.logFunc = fn
}

func (a *Assembler) log(format string, args ...interface{}) {
	if a.logFunc != nil {
		a.logFunc(format, args...)
	}
}

// Assemble runs the pipeline for req and always returns a well-formed
// result: input problems and internal panics come back as error
// documents, never as Go errors.
func (a *Assembler) Assemble(req *Request) (result *Result) {
	requestID := uuid.NewString()

	defer func() {
		if r := recover(); r != nil {
			a.log("request %s: recovered: %v", requestID, r)
			result = errorResult(requestID, req, fmt.Sprintf("internal error: %v", r))
		}
	}()

	if req == nil {
		return errorResult(requestID, nil, "request must not be nil")
	}
	if strings.TrimSpace(req.Query) == "" {
		return errorResult(requestID, req, "query must not be empty")
	}

	root, err := filepath.Abs(req.ProjectRoot)
	if err != nil {
		return errorResult(requestID, req, fmt.Sprintf("resolve project root %q: %v", req.ProjectRoot, err))
	}
	info, err := os.Stat(root)
	if err != nil {
		return errorResult(requestID, req, fmt.Sprintf("project root %s is not accessible: %v", root, err))
	}
	if !info.IsDir() {
		return errorResult(requestID, req, fmt.Sprintf("project root %s is not a directory", root))
	}

	var snapshot []*extract.SourceFile
	if a.idx != nil && a.idx.Root() == root {
		snapshot = a.idx.Snapshot()
		a.log("request %s: serving %d files from live index", requestID, len(snapshot))
	} else {
		listing, err := a.lister.List(root)
		if err != nil {
			return errorResult(requestID, req, fmt.Sprintf("scan %s: %v", root, err))
		}
		if n := len(listing.SkippedLarge); n > 0 {
			a.log("request %s: skipped %d oversized files", requestID, n)
		}
		idx := index.New(root)
		idx.Build(listing.Paths)
		snapshot = idx.Snapshot()
		a.log("request %s: indexed %d files under %s", requestID, len(snapshot), root)
	}
	if len(snapshot) == 0 {
		return errorResult(requestID, req, fmt.Sprintf("no recognizable source files under %s", root))
	}

	ranked := rank.Rank(snapshot, req.Query, req.Scope)
	facts := aggregate.Aggregate(ranked)
	text := document.Format(ranked, facts, req.Query)
	text, level := document.Compress(text, resolveBudget(req))
	a.log("request %s: %d files ranked, compression %s", requestID, len(ranked), level)

	return &Result{
		RequestID:        requestID,
		Document:         text,
		Metadata:         buildMetadata(ranked, text),
		Summary:          document.Summary(ranked, facts),
		Graph:            facts.Graph,
		UsagePatterns:    facts.Patterns,
		FilesIncluded:    relPaths(ranked),
		CompressionLevel: level,
	}
}

// resolveBudget picks the token budget: an explicit MaxTokens wins,
// then the completeness preset. Thorough means unlimited; anything
// unrecognized falls back to balanced.
func resolveBudget(req *Request) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	switch req.Completeness {
	case CompletenessMinimal:
		return budgetMinimal
	case CompletenessThorough:
		return 0
	default:
		return budgetBalanced
	}
}

func buildMetadata(ranked []*extract.SourceFile, text string) Metadata {
	m := Metadata{
		FileCount:       len(ranked),
		PrimaryLanguage: document.PrimaryLanguage(ranked),
		TokenEstimate:   document.EstimateTokens(text),
	}
	for _, f := range ranked {
		m.LineCount += document.CountLines(f.Content)
		m.FunctionCount += len(f.Functions)
		m.ClassCount += len(f.Classes)
	}
	return m
}

func relPaths(ranked []*extract.SourceFile) []string {
	paths := make([]string, 0, len(ranked))
	for _, f := range ranked {
		paths = append(paths, f.RelPath)
	}
	return paths
}

func errorResult(requestID string, req *Request, message string) *Result {
	query := ""
	if req != nil {
		query = req.Query
	}
	var b strings.Builder
	b.WriteString("# Code Context\n\n")
	fmt.Fprintf(&b, "**Query:** %s\n\n", query)
	b.WriteString("## Error\n\n")
	b.WriteString(message)
	b.WriteString("\n")
	return &Result{
		RequestID:        requestID,
		Document:         b.String(),
		Summary:          message,
		CompressionLevel: document.LevelError,
	}
}
