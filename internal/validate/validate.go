// Package validate re-scores a finished context document against the
// query that produced it. Scoring is independent of how the document
// was assembled: only the text and the query matter, so any document
// can be checked, including ones produced elsewhere.
package validate

import (
	"math"
	"strings"
)

// Heuristic weights. They sum to 1.0 so the aggregate score stays in
// [0,1] without normalization.
const (
	weightCode       = 0.30
	weightDependency = 0.25
	weightStructure  = 0.20
	weightCoherence  = 0.15
	weightUsage      = 0.10

	completeThreshold  = 0.8
	maxMissingAllowed  = 3
	maxCountedFences   = 5
	shortDocumentChars = 1000
	longDocumentChars  = 10000
)

// Result is the scorer's verdict on a document/query pair. It is the
// record returned verbatim over every transport.
type Result struct {
	IsComplete      bool     `json:"isComplete" yaml:"is_complete"`
	Score           float64  `json:"completenessScore" yaml:"completeness_score"`
	Confidence      float64  `json:"confidenceScore" yaml:"confidence_score"`
	MissingElements []string `json:"missingElements" yaml:"missing_elements"`
	Suggestions     []string `json:"suggestions" yaml:"suggestions"`
	Warnings        []string `json:"warnings" yaml:"warnings"`
	Strengths       []string `json:"strengths" yaml:"strengths"`
}

// Score evaluates document against query across five weighted
// heuristics: code completeness, dependency coverage, document
// structure, query coherence, and usage examples. The aggregate is a
// weighted average rounded to two decimals; a document is complete
// when it scores at least 0.8 with fewer than three missing elements.
func Score(document, query string) *Result {
	desc := DescribeQuery(query)
	r := &Result{}

	code := scoreCode(document)
	dep := scoreDependencies(document)
	structural, structMissing := scoreStructure(document)
	coherence := scoreCoherence(document, desc)
	usage, usageMissing := scoreUsage(document, desc)

	r.MissingElements = append(structMissing, usageMissing...)

	total := code*weightCode + dep*weightDependency + structural*weightStructure +
		coherence*weightCoherence + usage*weightUsage
	r.Score = round2(capScore(total))
	r.Confidence = confidence(r.Score, document)
	r.IsComplete = r.Score >= completeThreshold && len(r.MissingElements) < maxMissingAllowed

	r.Strengths = strengths(code, dep, structural, coherence)
	r.Suggestions = suggestions(code, dep, coherence, usage, desc)
	r.Warnings = warnings(r.Score, document)

	r.MissingElements = dedupe(r.MissingElements)
	r.Suggestions = dedupe(r.Suggestions)
	r.Warnings = dedupe(r.Warnings)
	r.Strengths = dedupe(r.Strengths)
	return r
}

// scoreCode rewards fenced code blocks (saturating at five) and the
// presence of import/export/type keywords anywhere in the text.
func scoreCode(document string) float64 {
	fences := strings.Count(document, "```") / 2
	if fences > maxCountedFences {
		fences = maxCountedFences
	}
	score := float64(fences) * 0.1
	if strings.Contains(document, "import") {
		score += 0.2
	}
	if strings.Contains(document, "export") {
		score += 0.2
	}
	if strings.Contains(document, "type") {
		score += 0.1
	}
	return capScore(score)
}

func scoreDependencies(document string) float64 {
	score := 0.0
	if containsAny(document, "Dependencies", "imports") {
		score += 0.4
	}
	if strings.Contains(document, "Dependency") && strings.Contains(document, "Graph") {
		score += 0.3
	}
	if containsAny(document, "Usage", "Pattern") {
		score += 0.3
	}
	return capScore(score)
}

func scoreStructure(document string) (float64, []string) {
	score := 0.0
	var missing []string
	if countHeaders(document) >= 3 {
		score += 0.3
	}
	if containsAny(document, "File Contents", "Components") {
		score += 0.3
	}
	if containsAny(document, "Summary", "Overview") {
		score += 0.2
	} else {
		missing = append(missing, "summary section")
	}
	if containsAny(document, "Insights", "Analysis") {
		score += 0.2
	}
	return score, missing
}

// scoreCoherence measures what fraction of the query's keywords appear
// in the document, case-insensitively. A query with no keywords is
// vacuously coherent. Any recognized entity adds a bonus.
func scoreCoherence(document string, desc *QueryDescriptor) float64 {
	lower := strings.ToLower(document)
	score := 1.0
	if len(desc.Keywords) > 0 {
		hits := 0
		for _, kw := range desc.Keywords {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		score = float64(hits) / float64(len(desc.Keywords))
	}
	for _, entity := range desc.Entities {
		if strings.Contains(lower, strings.ToLower(entity)) {
			score += 0.2
			break
		}
	}
	return capScore(score)
}

func scoreUsage(document string, desc *QueryDescriptor) (float64, []string) {
	lower := strings.ToLower(document)
	score := 0.0
	var missing []string
	if strings.Contains(lower, "example") {
		score += 0.5
	}
	if desc.WantsTests {
		if strings.Contains(lower, "test") || strings.Contains(lower, "spec") {
			score += 0.3
		} else {
			missing = append(missing, "test coverage")
		}
	}
	if desc.WantsDocs {
		if strings.Contains(lower, "readme") || strings.Contains(lower, "doc") {
			score += 0.2
		} else {
			missing = append(missing, "documentation")
		}
	}
	return score, missing
}

// confidence scales the aggregate score by document length and code
// density. Very short documents lose confidence; long, code-heavy ones
// gain it, capped at 1.0. The multipliers compose.
func confidence(score float64, document string) float64 {
	c := score
	if len(document) < shortDocumentChars {
		c *= 0.7
	} else if len(document) > longDocumentChars {
		c = capScore(c * 1.1)
	}
	if strings.Count(document, "```")/2 >= 3 {
		c = capScore(c * 1.05)
	}
	return round2(c)
}

func strengths(code, dep, structural, coherence float64) []string {
	var out []string
	if code >= 0.8 {
		out = append(out, "rich code coverage")
	}
	if dep >= 0.8 {
		out = append(out, "dependency relationships mapped")
	}
	if structural >= 0.8 {
		out = append(out, "well-structured document")
	}
	if coherence >= 0.8 {
		out = append(out, "closely matches the query")
	}
	return out
}

func suggestions(code, dep, coherence, usage float64, desc *QueryDescriptor) []string {
	var out []string
	if code < 0.5 {
		out = append(out, "include complete file contents for the matched files")
	}
	if dep < 0.5 {
		out = append(out, "include dependency information for the matched files")
	}
	if coherence < 0.5 {
		out = append(out, "refine the query terms; few of them appear in the document")
	}
	if usage < 0.5 && desc.WantsTests {
		out = append(out, "broaden the search to include test files")
	}
	return out
}

func warnings(score float64, document string) []string {
	var out []string
	if len(document) < shortDocumentChars {
		out = append(out, "document is very short; confidence reduced")
	}
	if score < 0.5 {
		out = append(out, "document covers little of the requested context")
	}
	return out
}

func countHeaders(document string) int {
	n := 0
	for _, line := range strings.Split(document, "\n") {
		if strings.HasPrefix(line, "#") {
			n++
		}
	}
	return n
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func capScore(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func dedupe(items []string) []string {
	if len(items) < 2 {
		return items
	}
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
