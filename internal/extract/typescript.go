package extract

import (
	"regexp"
	"strings"
)

// Import shapes for the primary languages. Four forms: default binding,
// named binding list, namespace binding, and CommonJS require (single
// variable or destructured).
var (
	importNamedRe     = regexp.MustCompile(`^import\s+\{([^}]*)\}\s+from\s+['"]([^'"]+)['"]`)
	importNamespaceRe = regexp.MustCompile(`^import\s+\*\s+as\s+([A-Za-z_$][\w$]*)\s+from\s+['"]([^'"]+)['"]`)
	importDefaultRe   = regexp.MustCompile(`^import\s+([A-Za-z_$][\w$]*)\s+from\s+['"]([^'"]+)['"]`)
	requireNamedRe    = regexp.MustCompile(`^(?:const|let|var)\s+\{([^}]*)\}\s*=\s*require\(\s*['"]([^'"]+)['"]\s*\)`)
	requireDefaultRe  = regexp.MustCompile(`^(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*=\s*require\(\s*['"]([^'"]+)['"]\s*\)`)
)

// Declaration shapes. The function scanner runs two independent patterns
// per line; both may fire on one construct and no de-duplication is done.
var (
	functionDeclRe  = regexp.MustCompile(`(export\s+)?(async\s+)?function\s+([A-Za-z_$][\w$]*)\s*\(([^)]*)\)`)
	arrowAssignRe   = regexp.MustCompile(`^(export\s+)?(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*=\s*(async\s+)?(?:\(([^)]*)\)|([A-Za-z_$][\w$]*))\s*=>`)
	classDeclRe     = regexp.MustCompile(`^(export\s+)?(?:abstract\s+)?class\s+([A-Za-z_$][\w$]*)(?:\s+extends\s+([A-Za-z_$][\w$.]*))?(?:\s+implements\s+([\w$.,\s]+))?`)
	interfaceDeclRe = regexp.MustCompile(`^(export\s+)?interface\s+([A-Za-z_$][\w$]*)`)
	typeAliasRe     = regexp.MustCompile(`^(export\s+)?type\s+([A-Za-z_$][\w$]*)(?:<[^>]*>)?\s*=\s*(.+)$`)
	exportNameRe    = regexp.MustCompile(`^[A-Za-z_$][\w$]*`)
)

// exportPrefixes maps literal line prefixes to export kinds. Tested in
// order; the first matching prefix wins and a line registers at most one
// export record.
var exportPrefixes = []struct {
	prefix string
	kind   ExportKind
}{
	{"export async function ", ExportFunction},
	{"export function ", ExportFunction},
	{"export class ", ExportClass},
	{"export interface ", ExportInterface},
	{"export type ", ExportType},
	{"export const ", ExportValue},
	{"export let ", ExportValue},
	{"export var ", ExportValue},
	{"export default ", ExportDefault},
}

// scanScriptImports detects import statements in typescript/javascript
// content. Each line yields at most one record; the first matching shape
// wins.
func scanScriptImports(content string) []ImportRecord {
	var records []ImportRecord
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if m := importNamedRe.FindStringSubmatch(trimmed); m != nil {
			records = append(records, ImportRecord{Path: m[2], Names: splitBindings(m[1])})
			continue
		}
		if m := importNamespaceRe.FindStringSubmatch(trimmed); m != nil {
			records = append(records, ImportRecord{Path: m[2], Names: []string{m[1]}})
			continue
		}
		if m := importDefaultRe.FindStringSubmatch(trimmed); m != nil {
			records = append(records, ImportRecord{Path: m[2], Names: []string{m[1]}, Default: true})
			continue
		}
		if m := requireNamedRe.FindStringSubmatch(trimmed); m != nil {
			records = append(records, ImportRecord{Path: m[2], Names: splitBindings(m[1])})
			continue
		}
		if m := requireDefaultRe.FindStringSubmatch(trimmed); m != nil {
			records = append(records, ImportRecord{Path: m[2], Names: []string{m[1]}, Default: true})
		}
	}
	return records
}

// scanExports detects export statements by literal prefix test per line.
func scanExports(content string) []ExportRecord {
	var records []ExportRecord
	for i, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		for _, p := range exportPrefixes {
			if !strings.HasPrefix(trimmed, p.prefix) {
				continue
			}
			rest := strings.TrimSpace(strings.TrimPrefix(trimmed, p.prefix))
			name := exportedName(rest, p.kind)
			records = append(records, ExportRecord{Name: name, Kind: p.kind, Line: i + 1})
			break
		}
	}
	return records
}

// exportedName pulls the declared name out of the text following an
// export prefix. Default exports of anonymous values fall back to the
// literal name "default".
func exportedName(rest string, kind ExportKind) string {
	if kind == ExportDefault {
		rest = strings.TrimPrefix(rest, "async ")
		rest = strings.TrimSpace(rest)
		for _, kw := range []string{"function", "class"} {
			if strings.HasPrefix(rest, kw) {
				rest = strings.TrimSpace(strings.TrimPrefix(rest, kw))
			}
		}
	}
	if m := exportNameRe.FindString(rest); m != "" {
		return m
	}
	return "default"
}

// scanFunctions detects function declarations with two independent
// line-local patterns: named declarations anywhere in the line, and
// assignment-to-arrow at line start. End lines always equal start lines.
func scanFunctions(content string) []FunctionRecord {
	var records []FunctionRecord
	for i, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if m := functionDeclRe.FindStringSubmatch(trimmed); m != nil {
			records = append(records, FunctionRecord{
				Name:      m[3],
				StartLine: i + 1,
				EndLine:   i + 1,
				Params:    splitParams(m[4]),
				Async:     m[2] != "",
				Exported:  m[1] != "" || strings.HasPrefix(trimmed, "export "),
			})
		}
		if m := arrowAssignRe.FindStringSubmatch(trimmed); m != nil {
			params := m[4]
			if params == "" && m[5] != "" {
				params = m[5]
			}
			records = append(records, FunctionRecord{
				Name:      m[2],
				StartLine: i + 1,
				EndLine:   i + 1,
				Params:    splitParams(params),
				Async:     m[3] != "",
				Exported:  m[1] != "",
			})
		}
	}
	return records
}

// scanClasses detects class declarations. Methods are never populated.
func scanClasses(content string) []ClassRecord {
	var records []ClassRecord
	for i, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		m := classDeclRe.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		records = append(records, ClassRecord{
			Name:       m[2],
			StartLine:  i + 1,
			EndLine:    i + 1,
			Extends:    m[3],
			Implements: splitBindings(m[4]),
			Exported:   m[1] != "",
		})
	}
	return records
}

// scanInterfaces detects interface declarations (typed language only).
func scanInterfaces(content string) []InterfaceRecord {
	var records []InterfaceRecord
	for i, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		m := interfaceDeclRe.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		records = append(records, InterfaceRecord{
			Name:     m[2],
			Line:     i + 1,
			Exported: m[1] != "",
		})
	}
	return records
}

// scanTypeAliases detects type alias declarations (typed language only).
func scanTypeAliases(content string) []TypeAliasRecord {
	var records []TypeAliasRecord
	for i, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		m := typeAliasRe.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		records = append(records, TypeAliasRecord{
			Name:       m[2],
			Line:       i + 1,
			Definition: strings.TrimSuffix(strings.TrimSpace(m[3]), ";"),
			Exported:   m[1] != "",
		})
	}
	return records
}

// splitBindings splits a comma-separated binding list, resolving
// "original as alias" to the local alias name.
func splitBindings(list string) []string {
	var names []string
	for _, part := range strings.Split(list, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if idx := strings.Index(name, " as "); idx >= 0 {
			name = strings.TrimSpace(name[idx+4:])
		}
		names = append(names, name)
	}
	return names
}

// splitParams splits a parameter list into bare parameter names,
// stripping type annotations, defaults, and rest markers.
func splitParams(list string) []string {
	var params []string
	for _, part := range strings.Split(list, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if idx := strings.IndexAny(name, ":="); idx >= 0 {
			name = strings.TrimSpace(name[:idx])
		}
		name = strings.TrimPrefix(name, "...")
		if name == "" {
			continue
		}
		params = append(params, name)
	}
	return params
}
