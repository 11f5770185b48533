package scan

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func relPaths(t *testing.T, root string, paths []string) []string {
	t.Helper()
	var rels []string
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		if err != nil {
			t.Fatalf("rel %s: %v", p, err)
		}
		rels = append(rels, filepath.ToSlash(rel))
	}
	return rels
}

func TestListRecognizedSorted(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "src/z.ts", "")
	writeTestFile(t, dir, "src/a.tsx", "")
	writeTestFile(t, dir, "lib/m.js", "")
	writeTestFile(t, dir, "tools/x.py", "")
	writeTestFile(t, dir, "README.md", "")
	writeTestFile(t, dir, "go.sum", "")

	l := &Lister{}
	result, err := l.List(dir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	got := relPaths(t, dir, result.Paths)
	want := []string{"lib/m.js", "src/a.tsx", "src/z.ts", "tools/x.py"}
	if len(got) != len(want) {
		t.Fatalf("paths = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestListSkipsDependencyDirs(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "src/app.ts", "")
	writeTestFile(t, dir, "node_modules/react/index.js", "")
	writeTestFile(t, dir, "dist/bundle.js", "")
	writeTestFile(t, dir, "__pycache__/mod.py", "")
	writeTestFile(t, dir, ".hidden/secret.ts", "")

	result, err := (&Lister{}).List(dir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(result.Paths) != 1 {
		t.Fatalf("paths = %v, want only src/app.ts", relPaths(t, dir, result.Paths))
	}
}

func TestListHonorsGitignore(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, ".gitignore", "generated/\n*.min.js\n")
	writeTestFile(t, dir, "src/app.ts", "")
	writeTestFile(t, dir, "generated/schema.ts", "")
	writeTestFile(t, dir, "lib/app.min.js", "")

	result, err := (&Lister{}).List(dir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	got := relPaths(t, dir, result.Paths)
	if len(got) != 1 || got[0] != "src/app.ts" {
		t.Errorf("paths = %v, want [src/app.ts]", got)
	}

	// Disabling gitignore exposes the ignored files again.
	result, err = (&Lister{NoGitignore: true}).List(dir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(result.Paths) != 3 {
		t.Errorf("paths with NoGitignore = %v, want 3 entries", relPaths(t, dir, result.Paths))
	}
}

func TestListConfiguredExcludes(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "src/app.ts", "")
	writeTestFile(t, dir, "src/app.test.ts", "")
	writeTestFile(t, dir, "e2e/flow.spec.ts", "")

	l := &Lister{Excludes: []string{"*.test.ts", "e2e/"}}
	result, err := l.List(dir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	got := relPaths(t, dir, result.Paths)
	if len(got) != 1 || got[0] != "src/app.ts" {
		t.Errorf("paths = %v, want [src/app.ts]", got)
	}
}

func TestListSizeGuard(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "small.ts", "export const a = 1\n")
	writeTestFile(t, dir, "big.ts", strings.Repeat("// filler\n", 200))

	l := &Lister{MaxFileSize: 128}
	result, err := l.List(dir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(result.Paths) != 1 || !strings.HasSuffix(result.Paths[0], "small.ts") {
		t.Errorf("paths = %v, want only small.ts", result.Paths)
	}
	if len(result.SkippedLarge) != 1 || !strings.HasSuffix(result.SkippedLarge[0], "big.ts") {
		t.Errorf("skipped = %v, want only big.ts", result.SkippedLarge)
	}
}

func TestListMissingRoot(t *testing.T) {
	_, err := (&Lister{}).List(filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatal("missing root must return an error")
	}
}

func TestListRootNotDirectory(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "file.ts", "")
	_, err := (&Lister{}).List(path)
	if err == nil {
		t.Fatal("file root must return an error")
	}
}
