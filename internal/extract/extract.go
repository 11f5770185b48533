package extract

import (
	"os"
	"path/filepath"

	"github.com/codescout/scout/internal/lang"
)

// Extractor reads files under a project root and produces SourceFile
// records. It holds no state beyond the root; callers own all caching.
type Extractor struct {
	root string
}

// NewExtractor creates an extractor for the given project root.
func NewExtractor(root string) *Extractor {
	return &Extractor{root: root}
}

// ExtractFile reads and stats path, detects its language, and extracts
// structural facts. Read or stat failures never propagate: the result is
// an empty-fact record with size zero and language Other, so downstream
// stages never special-case missing entries.
func (e *Extractor) ExtractFile(path string) *SourceFile {
	relPath, err := filepath.Rel(e.root, path)
	if err != nil {
		relPath = path
	}
	relPath = filepath.ToSlash(relPath)

	file := &SourceFile{
		Path:     path,
		RelPath:  relPath,
		Language: lang.Other,
	}

	info, err := os.Stat(path)
	if err != nil {
		return file
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return file
	}

	file.Content = string(data)
	file.Size = info.Size()
	file.ModTime = info.ModTime()
	file.Language = lang.Detect(path)
	Extract(file)
	return file
}

// Extract populates the fact lists on file from its content and language.
// It dispatches to per-language scanners and derives the dependency list.
func Extract(file *SourceFile) {
	switch file.Language {
	case lang.TypeScript, lang.JavaScript:
		file.Imports = scanScriptImports(file.Content)
		file.Exports = scanExports(file.Content)
		file.Functions = scanFunctions(file.Content)
		file.Classes = scanClasses(file.Content)
		if file.Language == lang.TypeScript {
			file.Interfaces = scanInterfaces(file.Content)
			file.TypeAliases = scanTypeAliases(file.Content)
		}
	case lang.Python:
		file.Imports = scanPythonImports(file.Content)
		file.Functions = scanPythonFunctions(file.Content)
		file.Classes = scanPythonClasses(file.Content)
	}
	file.Dependencies = dependencyPaths(file.Imports)
}
