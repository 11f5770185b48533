// Package extract recovers approximate structural facts from source text
// using line-local pattern matching.
//
// This is deliberately not a parser: there is no AST, no scope resolution,
// and no guarantee of correctness. Multi-line constructs may be missed or
// mis-attributed. The fact lists are a lexical inventory good enough for
// relevance ranking and document assembly, nothing more.
package extract

import (
	"time"

	"github.com/codescout/scout/internal/lang"
)

// ExportKind tags the shape of an exported declaration.
type ExportKind string

const (
	// ExportFunction is an exported function declaration.
	ExportFunction ExportKind = "function"
	// ExportClass is an exported class declaration.
	ExportClass ExportKind = "class"
	// ExportInterface is an exported interface declaration.
	ExportInterface ExportKind = "interface"
	// ExportType is an exported type alias.
	ExportType ExportKind = "type"
	// ExportValue is an exported const/let/var binding.
	ExportValue ExportKind = "value"
	// ExportDefault is a default export.
	ExportDefault ExportKind = "default"
)

// SourceFile is one indexed file together with its extracted facts.
// Instances are immutable once built; re-extraction produces a
// replacement record rather than mutating in place.
type SourceFile struct {
	// Path is the absolute file path.
	Path string
	// RelPath is the path relative to the project root.
	RelPath string
	// Content is the raw file text.
	Content string
	// Size is the file size in bytes.
	Size int64
	// ModTime is the last-modified timestamp at extraction time.
	ModTime time.Time
	// Language is the detected language.
	Language lang.Language

	Imports     []ImportRecord
	Exports     []ExportRecord
	Functions   []FunctionRecord
	Classes     []ClassRecord
	Interfaces  []InterfaceRecord
	TypeAliases []TypeAliasRecord

	// Dependencies is exactly the ordered list of ImportRecord.Path
	// values. Derived at construction, never set independently.
	Dependencies []string
}

// ImportRecord is one detected import statement.
type ImportRecord struct {
	// Path is the target module path as written, not resolved.
	Path string
	// Names are the named bindings imported, if any.
	Names []string
	// Default marks a default-style single binding.
	Default bool
}

// ExportRecord is one detected export statement.
type ExportRecord struct {
	Name string
	Kind ExportKind
	Line int
}

// FunctionRecord is one detected function declaration.
type FunctionRecord struct {
	Name      string
	StartLine int
	// EndLine equals StartLine. Bodies are not tracked; the extractor
	// never sees past the declaration line.
	EndLine  int
	Params   []string
	Async    bool
	Exported bool
}

// ClassRecord is one detected class declaration.
type ClassRecord struct {
	Name      string
	StartLine int
	EndLine   int
	// Methods is never populated; method extraction would need body
	// tracking the line scanner does not do.
	Methods    []string
	Extends    string
	Implements []string
	Exported   bool
}

// InterfaceRecord is one detected interface declaration (typed language only).
type InterfaceRecord struct {
	Name     string
	Line     int
	Exported bool
}

// TypeAliasRecord is one detected type alias (typed language only).
type TypeAliasRecord struct {
	Name       string
	Line       int
	Definition string
	Exported   bool
}

// dependencyPaths derives the flat dependency list from import records,
// preserving order.
func dependencyPaths(imports []ImportRecord) []string {
	if len(imports) == 0 {
		return nil
	}
	deps := make([]string, len(imports))
	for i, imp := range imports {
		deps[i] = imp.Path
	}
	return deps
}
