// Package rank orders indexed files by lexical relevance to a query.
//
// Relevance is a weighted keyword-match formula over paths, extracted
// names, raw content, and import paths. Scoring is deterministic: the
// same files, query, and scope always produce the same ordered list.
package rank

import (
	"sort"
	"strings"

	"github.com/codescout/scout/internal/extract"
)

const (
	// maxResults caps the ranked list.
	maxResults = 20
	// fallbackCap caps the fallback set used when nothing matches.
	fallbackCap = 10
	// contentOccurrenceCap bounds the per-keyword content score.
	contentOccurrenceCap = 5

	pathWeight     = 10
	functionWeight = 8
	classWeight    = 8
	importWeight   = 5
)

// Keywords tokenizes a query for matching: lowercase whitespace tokens
// longer than two characters.
func Keywords(query string) []string {
	var keywords []string
	for _, token := range strings.Fields(strings.ToLower(query)) {
		if len(token) > 2 {
			keywords = append(keywords, token)
		}
	}
	return keywords
}

// Rank selects and orders the files most relevant to the query.
//
// Only primary-language files are candidates. Files matching no keyword
// at all are replaced by a small fallback set of entry-point-looking
// files. The scope filter ("function" or "class") applies after
// selection; any other scope value is a no-op. The result is scored,
// sorted descending, and truncated to 20 entries.
func Rank(files []*extract.SourceFile, query, scope string) []*extract.SourceFile {
	keywords := Keywords(query)

	var candidates []*extract.SourceFile
	for _, file := range files {
		if file.Language.IsPrimary() {
			candidates = append(candidates, file)
		}
	}

	var selected []*extract.SourceFile
	for _, file := range candidates {
		if isRelevant(file, keywords) {
			selected = append(selected, file)
		}
	}
	if len(selected) == 0 {
		selected = fallback(candidates)
	}
	selected = filterScope(selected, scope)

	type scoredFile struct {
		file  *extract.SourceFile
		score int
	}
	scored := make([]scoredFile, len(selected))
	for i, file := range selected {
		scored[i] = scoredFile{file, Score(file, keywords)}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if len(scored) > maxResults {
		scored = scored[:maxResults]
	}
	ranked := make([]*extract.SourceFile, len(scored))
	for i, s := range scored {
		ranked[i] = s.file
	}
	return ranked
}

// isRelevant reports whether any keyword appears in the file's path,
// function names, class names, content, or import paths. An empty
// keyword set is vacuously relevant.
func isRelevant(file *extract.SourceFile, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	pathLower := strings.ToLower(file.RelPath)
	contentLower := strings.ToLower(file.Content)
	for _, kw := range keywords {
		if strings.Contains(pathLower, kw) ||
			anyFunctionContains(file, kw) ||
			anyClassContains(file, kw) ||
			strings.Contains(contentLower, kw) ||
			anyImportContains(file, kw) {
			return true
		}
	}
	return false
}

// fallback returns entry-point-looking candidates: paths containing
// "index" or "main", or files with at least one function or class.
// Capped at the first ten in original order; no scoring drives the
// selection itself.
func fallback(candidates []*extract.SourceFile) []*extract.SourceFile {
	var set []*extract.SourceFile
	for _, file := range candidates {
		pathLower := strings.ToLower(file.RelPath)
		if strings.Contains(pathLower, "index") || strings.Contains(pathLower, "main") ||
			len(file.Functions) > 0 || len(file.Classes) > 0 {
			set = append(set, file)
			if len(set) == fallbackCap {
				break
			}
		}
	}
	return set
}

// filterScope narrows the selection to files carrying the requested
// declaration kind. Unknown scopes pass everything through.
func filterScope(files []*extract.SourceFile, scope string) []*extract.SourceFile {
	switch scope {
	case "function":
		var kept []*extract.SourceFile
		for _, file := range files {
			if len(file.Functions) > 0 {
				kept = append(kept, file)
			}
		}
		return kept
	case "class":
		var kept []*extract.SourceFile
		for _, file := range files {
			if len(file.Classes) > 0 {
				kept = append(kept, file)
			}
		}
		return kept
	default:
		return files
	}
}

// Score computes the relevance score of one file against the keyword
// set: 10 per keyword found in the path, 8 in any function name, 8 in
// any class name, up to 5 for content occurrences, and 5 in any import
// path.
func Score(file *extract.SourceFile, keywords []string) int {
	pathLower := strings.ToLower(file.RelPath)
	contentLower := strings.ToLower(file.Content)
	score := 0
	for _, kw := range keywords {
		if strings.Contains(pathLower, kw) {
			score += pathWeight
		}
		if anyFunctionContains(file, kw) {
			score += functionWeight
		}
		if anyClassContains(file, kw) {
			score += classWeight
		}
		if n := strings.Count(contentLower, kw); n > 0 {
			if n > contentOccurrenceCap {
				n = contentOccurrenceCap
			}
			score += n
		}
		if anyImportContains(file, kw) {
			score += importWeight
		}
	}
	return score
}

func anyFunctionContains(file *extract.SourceFile, kw string) bool {
	for _, fn := range file.Functions {
		if strings.Contains(strings.ToLower(fn.Name), kw) {
			return true
		}
	}
	return false
}

func anyClassContains(file *extract.SourceFile, kw string) bool {
	for _, cl := range file.Classes {
		if strings.Contains(strings.ToLower(cl.Name), kw) {
			return true
		}
	}
	return false
}

func anyImportContains(file *extract.SourceFile, kw string) bool {
	for _, dep := range file.Dependencies {
		if strings.Contains(strings.ToLower(dep), kw) {
			return true
		}
	}
	return false
}
