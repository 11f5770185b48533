package tree

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/codescout/scout/internal/scan"
)

func writeTreeFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	files := map[string]string{
		"src/services/user.ts": "export class UserService {}\n",
		"src/index.ts":         "import { UserService } from './services/user';\n",
		"lib/util.py":          "def helper():\n    pass\n",
	}
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	return root
}

func TestBuildArrangesDirsBeforeFiles(t *testing.T) {
	root := writeTreeFixture(t)

	tree, err := Build(root, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if !tree.IsDir || tree.Path != "." {
		t.Errorf("root node = %+v, want directory with path '.'", tree)
	}
	if len(tree.Children) != 2 {
		t.Fatalf("root children = %d, want 2", len(tree.Children))
	}
	if tree.Children[0].Name != "lib" || tree.Children[1].Name != "src" {
		t.Errorf("top-level order = %q, %q, want lib, src", tree.Children[0].Name, tree.Children[1].Name)
	}

	src := tree.Children[1]
	if len(src.Children) != 2 {
		t.Fatalf("src children = %d, want 2", len(src.Children))
	}
	// services directory sorts before index.ts
	if !src.Children[0].IsDir || src.Children[0].Name != "services" {
		t.Errorf("src.Children[0] = %+v, want services directory", src.Children[0])
	}
	if src.Children[1].IsDir || src.Children[1].Name != "index.ts" {
		t.Errorf("src.Children[1] = %+v, want index.ts file", src.Children[1])
	}

	user := src.Children[0].Children[0]
	if user.Path != "src/services/user.ts" {
		t.Errorf("leaf path = %q, want src/services/user.ts", user.Path)
	}
}

func TestRender(t *testing.T) {
	root := writeTreeFixture(t)

	tree, err := Build(root, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	tree.Name = "proj" // temp dir names are random

	got := Render(tree)
	want := "proj/\n" +
		"├── lib/\n" +
		"│   └── util.py\n" +
		"└── src/\n" +
		"    ├── services/\n" +
		"    │   └── user.ts\n" +
		"    └── index.ts\n"
	if got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderEmptyName(t *testing.T) {
	got := Render(&Node{IsDir: true})
	if got != "./\n" {
		t.Errorf("Render() = %q, want \"./\\n\"", got)
	}
}

func TestStats(t *testing.T) {
	root := writeTreeFixture(t)

	tree, err := Build(root, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	dirs, files := Stats(tree)
	if dirs != 3 {
		t.Errorf("dirs = %d, want 3", dirs)
	}
	if files != 3 {
		t.Errorf("files = %d, want 3", files)
	}
}

func TestBuildHonorsExcludes(t *testing.T) {
	root := writeTreeFixture(t)

	lister := &scan.Lister{Excludes: []string{"lib/**"}}
	tree, err := Build(root, lister)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if len(tree.Children) != 1 || tree.Children[0].Name != "src" {
		t.Errorf("expected only src after exclude, got %d children", len(tree.Children))
	}
}

func TestBuildMissingRoot(t *testing.T) {
	_, err := Build(filepath.Join(t.TempDir(), "missing"), nil)
	if err == nil {
		t.Error("expected error for missing root")
	}
}
