package document

import "strings"

// Level reports how much compression was applied to a document.
type Level string

const (
	// LevelFull means the document fit its budget untouched.
	LevelFull Level = "full"
	// LevelCompressed means at least one compression tier ran.
	LevelCompressed Level = "compressed"
	// LevelError marks a document assembled from a failure rather
	// than from ranked files.
	LevelError Level = "error"
)

// Lines beginning with one of these (after trimming indentation)
// survive tier-one compression inside the file-contents section.
var tier1Prefixes = []string{
	"export", "import", "function", "class",
	"interface", "type", "const", "//", "#",
}

// Tier two additionally keeps declaration keywords common in script
// bodies.
var tier2Prefixes = append(tier1Prefixes, "let", "var")

// Compress shrinks doc toward maxTokens and reports the level applied.
// A non-positive budget means unlimited. Tier one strips file contents
// down to structural lines; if the result still exceeds the budget,
// tier two strips the whole document to headers, lists, and keyword
// lines. Tier two is the floor: its output is returned without another
// budget check, so Compress never fails, it only degrades.
func Compress(doc string, maxTokens int) (string, Level) {
	if maxTokens <= 0 || EstimateTokens(doc) <= maxTokens {
		return doc, LevelFull
	}
	tier1 := compressTier1(doc)
	if EstimateTokens(tier1) <= maxTokens {
		return tier1, LevelCompressed
	}
	return compressTier2(tier1), LevelCompressed
}

// compressTier1 filters lines inside the "Complete File Contents"
// section only, keeping fence delimiters, structural declarations,
// comments, and TODO/FIXME markers. Every other section passes through
// untouched.
func compressTier1(doc string) string {
	var out []string
	inContents := false
	for _, line := range strings.Split(doc, "\n") {
		if strings.HasPrefix(line, "## ") {
			inContents = strings.HasPrefix(line, "## Complete File Contents")
			out = append(out, line)
			continue
		}
		if !inContents || keepTier1(line) {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

func keepTier1(line string) bool {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "```") {
		return true
	}
	if strings.Contains(line, "TODO") || strings.Contains(line, "FIXME") {
		return true
	}
	return hasAnyPrefix(trimmed, tier1Prefixes)
}

// compressTier2 re-scans the whole document with fence state. Inside a
// code fence only keyword lines, blank lines, and comment lines
// survive; outside only markdown scaffolding does. The pass is a plain
// line filter, so the result can only be smaller than its input.
func compressTier2(doc string) string {
	var out []string
	inFence := false
	for _, line := range strings.Split(doc, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			out = append(out, line)
			continue
		}
		if inFence {
			if trimmed == "" || hasAnyPrefix(trimmed, tier2Prefixes) {
				out = append(out, line)
			}
			continue
		}
		if keepTier2Prose(line, trimmed) {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

func keepTier2Prose(line, trimmed string) bool {
	if trimmed == "" {
		return true
	}
	if strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "*") ||
		strings.HasPrefix(trimmed, "-") {
		return true
	}
	return strings.Contains(line, "Summary") || strings.Contains(line, "Insights")
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
