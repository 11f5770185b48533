// Package lang defines the closed set of languages the indexer recognizes
// and maps file extensions onto it.
package lang

import (
	"path/filepath"
	"strings"
)

// Language identifies one of the recognized source languages.
type Language string

const (
	// TypeScript is the primary typed language.
	TypeScript Language = "typescript"
	// JavaScript is the primary untyped language.
	JavaScript Language = "javascript"
	// Python is the secondary scripting language.
	Python Language = "python"
	// Other covers everything else, including files that could not be read.
	Other Language = "other"
)

// extensions maps file extensions to their language.
var extensions = map[string]Language{
	".ts":  TypeScript,
	".tsx": TypeScript,
	".mts": TypeScript,
	".cts": TypeScript,
	".js":  JavaScript,
	".jsx": JavaScript,
	".mjs": JavaScript,
	".cjs": JavaScript,
	".py":  Python,
}

// fenceTags maps languages to markdown code-fence tags.
// Languages without an entry render an untagged fence.
var fenceTags = map[Language]string{
	TypeScript: "typescript",
	JavaScript: "javascript",
	Python:     "python",
}

// Detect returns the language for a file path based on its extension.
// Unknown extensions map to Other.
func Detect(path string) Language {
	ext := strings.ToLower(filepath.Ext(path))
	if l, ok := extensions[ext]; ok {
		return l
	}
	return Other
}

// Recognized reports whether the path has an extension the indexer scans.
func Recognized(path string) bool {
	_, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// IsPrimary reports whether the language participates in relevance ranking.
// Only the two primary code languages are ranked; everything else is
// indexed but excluded from candidate sets.
func (l Language) IsPrimary() bool {
	return l == TypeScript || l == JavaScript
}

// FenceTag returns the markdown code-fence tag for the language,
// or the empty string if none is mapped.
func (l Language) FenceTag() string {
	return fenceTags[l]
}

// String returns the language name.
func (l Language) String() string {
	return string(l)
}
