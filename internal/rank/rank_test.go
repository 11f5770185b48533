package rank

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/codescout/scout/internal/extract"
	"github.com/codescout/scout/internal/lang"
)

func makeFile(t *testing.T, relPath string, language lang.Language, content string) *extract.SourceFile {
	t.Helper()
	file := &extract.SourceFile{
		Path:     "/project/" + relPath,
		RelPath:  relPath,
		Content:  content,
		Size:     int64(len(content)),
		Language: language,
	}
	extract.Extract(file)
	return file
}

func relPaths(files []*extract.SourceFile) []string {
	var rels []string
	for _, f := range files {
		rels = append(rels, f.RelPath)
	}
	return rels
}

func TestKeywords(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"user authentication flow", []string{"user", "authentication", "flow"}},
		{"How Does The Parser Work", []string{"how", "does", "the", "parser", "work"}},
		{"a is on", nil},
		{"", nil},
		{"  spaced   out  ", []string{"spaced", "out"}},
		{"db io fs auth", []string{"auth"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := Keywords(tt.query); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Keywords(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestRankPrefersPathAndNameMatches(t *testing.T) {
	files := []*extract.SourceFile{
		makeFile(t, "src/auth/login.ts", lang.TypeScript,
			"export function login(user) {}\n"),
		makeFile(t, "src/misc/colors.ts", lang.TypeScript,
			"// login appears once in a comment: login\nexport const palette = []\n"),
		makeFile(t, "src/unrelated.ts", lang.TypeScript,
			"export function render() {}\n"),
	}

	ranked := Rank(files, "login", "")
	if len(ranked) != 2 {
		t.Fatalf("ranked = %v, want 2 files", relPaths(ranked))
	}
	if ranked[0].RelPath != "src/auth/login.ts" {
		t.Errorf("top file = %s, want src/auth/login.ts", ranked[0].RelPath)
	}
}

func TestRankExcludesNonPrimaryLanguages(t *testing.T) {
	files := []*extract.SourceFile{
		makeFile(t, "src/search.ts", lang.TypeScript, "export function search() {}\n"),
		makeFile(t, "tools/search.py", lang.Python, "def search():\n    pass\n"),
		makeFile(t, "notes/search.md", lang.Other, "search search search\n"),
	}

	ranked := Rank(files, "search", "")
	if len(ranked) != 1 || ranked[0].RelPath != "src/search.ts" {
		t.Errorf("ranked = %v, want only src/search.ts", relPaths(ranked))
	}
}

func TestRankDeterministic(t *testing.T) {
	var files []*extract.SourceFile
	for i := 0; i < 30; i++ {
		files = append(files, makeFile(t, fmt.Sprintf("src/mod%02d.ts", i), lang.TypeScript,
			fmt.Sprintf("export function handler%02d(event) { return event }\n", i)))
	}

	first := relPaths(Rank(files, "event handler", ""))
	for run := 0; run < 5; run++ {
		again := relPaths(Rank(files, "event handler", ""))
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d produced different order:\n%v\n%v", run, first, again)
		}
	}
}

func TestRankCap(t *testing.T) {
	var files []*extract.SourceFile
	for i := 0; i < 50; i++ {
		files = append(files, makeFile(t, fmt.Sprintf("src/widget%02d.ts", i), lang.TypeScript,
			"export function widget() {}\n"))
	}

	ranked := Rank(files, "widget", "")
	if len(ranked) != 20 {
		t.Errorf("len = %d, want 20", len(ranked))
	}
}

func TestRankFallback(t *testing.T) {
	var files []*extract.SourceFile
	// None of these can match the query keyword.
	files = append(files, makeFile(t, "src/index.ts", lang.TypeScript, "const boot = 1\n"))
	files = append(files, makeFile(t, "src/main.ts", lang.TypeScript, "const boot = 2\n"))
	for i := 0; i < 12; i++ {
		files = append(files, makeFile(t, fmt.Sprintf("src/part%02d.ts", i), lang.TypeScript,
			"export function part() {}\n"))
	}
	files = append(files, makeFile(t, "src/plain.ts", lang.TypeScript, "const data = []\n"))

	ranked := Rank(files, "zzzzzz", "")
	if len(ranked) == 0 {
		t.Fatal("fallback should produce results")
	}
	if len(ranked) > 10 {
		t.Errorf("fallback set = %d files, want at most 10", len(ranked))
	}
	for _, f := range ranked {
		if !f.Language.IsPrimary() {
			t.Errorf("fallback included non-primary file %s", f.RelPath)
		}
		if f.RelPath == "src/plain.ts" {
			t.Error("fallback included a file with no functions, classes, or entry-point path")
		}
	}
}

func TestRankScopeFilter(t *testing.T) {
	files := []*extract.SourceFile{
		makeFile(t, "src/service.ts", lang.TypeScript,
			"export class DataService {}\n"),
		makeFile(t, "src/helpers.ts", lang.TypeScript,
			"export function formatData() {}\n"),
	}

	classOnly := Rank(files, "data", "class")
	if len(classOnly) != 1 || classOnly[0].RelPath != "src/service.ts" {
		t.Errorf("class scope = %v", relPaths(classOnly))
	}

	funcOnly := Rank(files, "data", "function")
	if len(funcOnly) != 1 || funcOnly[0].RelPath != "src/helpers.ts" {
		t.Errorf("function scope = %v", relPaths(funcOnly))
	}

	noop := Rank(files, "data", "everything")
	if len(noop) != 2 {
		t.Errorf("unknown scope should be a no-op, got %v", relPaths(noop))
	}
}

func TestRankZeroKeywordsMatchesAllPrimary(t *testing.T) {
	files := []*extract.SourceFile{
		makeFile(t, "src/a.ts", lang.TypeScript, "const a = 1\n"),
		makeFile(t, "src/b.js", lang.JavaScript, "const b = 2\n"),
		makeFile(t, "tools/c.py", lang.Python, "c = 3\n"),
	}

	ranked := Rank(files, "a is on", "")
	if len(ranked) != 2 {
		t.Fatalf("ranked = %v, want both primary files", relPaths(ranked))
	}
	// All scores are zero, so insertion order is preserved.
	if ranked[0].RelPath != "src/a.ts" || ranked[1].RelPath != "src/b.js" {
		t.Errorf("order = %v, want insertion order", relPaths(ranked))
	}
}

func TestScoreWeights(t *testing.T) {
	file := makeFile(t, "src/billing/invoice.ts", lang.TypeScript,
		`import { tax } from './tax'

export function invoiceTotal(items) {
  // invoice invoice invoice invoice invoice invoice
  return items
}
export class InvoicePrinter {}
`)

	// "invoice": path +10, function name +8, class name +8, content
	// capped +5, import path misses.
	got := Score(file, []string{"invoice"})
	want := 10 + 8 + 8 + 5
	if got != want {
		t.Errorf("Score = %d, want %d", got, want)
	}

	// "tax": only the import path and two content occurrences match.
	got = Score(file, []string{"tax"})
	want = 5 + 2
	if got != want {
		t.Errorf("Score(tax) = %d, want %d", got, want)
	}

	if Score(file, nil) != 0 {
		t.Errorf("Score with no keywords = %d, want 0", Score(file, nil))
	}
}
