package validate

import (
	"regexp"
	"strings"

	"github.com/codescout/scout/internal/rank"
)

// QueryType classifies what kind of code artifact a query appears to
// be after. Classification is keyword sniffing, nothing deeper.
type QueryType string

const (
	QueryFunction QueryType = "function"
	QueryClass    QueryType = "class"
	QueryModule   QueryType = "module"
	QueryFeature  QueryType = "feature"
	QueryGeneral  QueryType = "general"
)

// QueryDescriptor is the scorer's parsed view of a query: its type,
// the ranked keywords, heuristically extracted entity names, and
// whether the query asked for tests or documentation.
type QueryDescriptor struct {
	Type       QueryType
	Keywords   []string
	Entities   []string
	WantsTests bool
	WantsDocs  bool
}

var (
	// CamelCase or otherwise capitalized identifiers: UserService,
	// Login, README.
	capitalEntityRe = regexp.MustCompile(`\b[A-Z][A-Za-z0-9]+\b`)
	// Dotted references: auth.login, user.service.ts.
	dottedEntityRe = regexp.MustCompile(`\b[A-Za-z_][A-Za-z0-9_-]*\.[A-Za-z_][A-Za-z0-9_./-]*`)
)

// DescribeQuery derives the descriptor the scorer evaluates against.
// Keywords follow the ranking rules: lowercase whitespace tokens
// longer than two characters.
func DescribeQuery(query string) *QueryDescriptor {
	lower := strings.ToLower(query)
	desc := &QueryDescriptor{
		Type:       classify(lower),
		Keywords:   rank.Keywords(query),
		WantsTests: strings.Contains(lower, "test") || strings.Contains(lower, "spec"),
		WantsDocs:  strings.Contains(lower, "doc") || strings.Contains(lower, "readme"),
	}

	seen := make(map[string]struct{})
	for _, m := range capitalEntityRe.FindAllString(query, -1) {
		if _, ok := seen[m]; !ok {
			seen[m] = struct{}{}
			desc.Entities = append(desc.Entities, m)
		}
	}
	for _, m := range dottedEntityRe.FindAllString(query, -1) {
		if _, ok := seen[m]; !ok {
			seen[m] = struct{}{}
			desc.Entities = append(desc.Entities, m)
		}
	}
	return desc
}

func classify(lower string) QueryType {
	switch {
	case strings.Contains(lower, "function") || strings.Contains(lower, "method"):
		return QueryFunction
	case strings.Contains(lower, "class"):
		return QueryClass
	case strings.Contains(lower, "module") || strings.Contains(lower, "package") ||
		strings.Contains(lower, "import"):
		return QueryModule
	case strings.Contains(lower, "feature") || strings.Contains(lower, "implement") ||
		strings.Contains(lower, "add"):
		return QueryFeature
	default:
		return QueryGeneral
	}
}
