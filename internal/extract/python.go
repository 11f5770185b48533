package extract

import (
	"regexp"
	"strings"
)

// Python shapes. Module imports match at line start only; backslash
// continuations and parenthesized import lists are not followed.
var (
	pythonImportRe = regexp.MustCompile(`^import\s+([\w.]+)`)
	pythonFromRe   = regexp.MustCompile(`^from\s+([\w.]+)\s+import\s+(.+)$`)
	pythonDefRe    = regexp.MustCompile(`^\s*(async\s+)?def\s+([A-Za-z_]\w*)\s*\(([^)]*)\)`)
	pythonClassRe  = regexp.MustCompile(`^\s*class\s+([A-Za-z_]\w*)\s*(?:\(([^)]*)\))?\s*:`)
)

// scanPythonImports detects module imports in python content.
func scanPythonImports(content string) []ImportRecord {
	var records []ImportRecord
	for _, line := range strings.Split(content, "\n") {
		if m := pythonImportRe.FindStringSubmatch(line); m != nil {
			records = append(records, ImportRecord{Path: m[1]})
			continue
		}
		if m := pythonFromRe.FindStringSubmatch(line); m != nil {
			records = append(records, ImportRecord{Path: m[1], Names: splitBindings(m[2])})
		}
	}
	return records
}

// scanPythonFunctions detects def statements, including indented methods.
// Leading-underscore names are treated as unexported by convention.
func scanPythonFunctions(content string) []FunctionRecord {
	var records []FunctionRecord
	for i, line := range strings.Split(content, "\n") {
		m := pythonDefRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		records = append(records, FunctionRecord{
			Name:      m[2],
			StartLine: i + 1,
			EndLine:   i + 1,
			Params:    splitParams(m[3]),
			Async:     m[1] != "",
			Exported:  !strings.HasPrefix(m[2], "_"),
		})
	}
	return records
}

// scanPythonClasses detects class statements. Only the first base class
// is recorded as the superclass.
func scanPythonClasses(content string) []ClassRecord {
	var records []ClassRecord
	for i, line := range strings.Split(content, "\n") {
		m := pythonClassRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		extends := ""
		if bases := splitBindings(m[2]); len(bases) > 0 {
			extends = bases[0]
		}
		records = append(records, ClassRecord{
			Name:      m[1],
			StartLine: i + 1,
			EndLine:   i + 1,
			Extends:   extends,
			Exported:  !strings.HasPrefix(m[1], "_"),
		})
	}
	return records
}
