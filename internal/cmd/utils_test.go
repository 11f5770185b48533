package cmd

import (
	"testing"
	"time"

	"github.com/codescout/scout/internal/cache"
	"github.com/codescout/scout/internal/config"
	"github.com/codescout/scout/internal/extract"
	"github.com/codescout/scout/internal/lang"
	"github.com/codescout/scout/internal/output"
)

func TestFileRecord(t *testing.T) {
	now := time.Now()
	sf := &extract.SourceFile{
		Path:      "/proj/src/user.ts",
		RelPath:   "src/user.ts",
		Content:   "export function findUser() {}\n",
		Size:      30,
		ModTime:   now,
		Language:  lang.TypeScript,
		Functions: []extract.FunctionRecord{{Name: "findUser"}},
	}

	rec := fileRecord(sf)
	if rec.FilePath != "src/user.ts" {
		t.Errorf("FilePath = %q, want src/user.ts", rec.FilePath)
	}
	if rec.ContentHash != cache.HashContent(sf.Content) {
		t.Errorf("ContentHash = %q", rec.ContentHash)
	}
	if rec.Size != 30 {
		t.Errorf("Size = %d, want 30", rec.Size)
	}
	if !rec.ModTime.Equal(now) {
		t.Errorf("ModTime = %v, want %v", rec.ModTime, now)
	}
	if rec.Language != "typescript" {
		t.Errorf("Language = %q, want typescript", rec.Language)
	}
	if rec.FunctionCount != 1 || rec.ClassCount != 0 {
		t.Errorf("counts = %d/%d, want 1/0", rec.FunctionCount, rec.ClassCount)
	}
}

func TestResolveFormat(t *testing.T) {
	origFormat := outputFormat
	defer func() { outputFormat = origFormat }()

	cfg := config.DefaultConfig()
	cfg.Output.Format = "yaml"

	outputFormat = ""
	got, err := resolveFormat(cfg)
	if err != nil || got != output.FormatYAML {
		t.Errorf("config format: got %v, %v", got, err)
	}

	outputFormat = "json"
	got, err = resolveFormat(cfg)
	if err != nil || got != output.FormatJSON {
		t.Errorf("flag override: got %v, %v", got, err)
	}

	outputFormat = "bogus"
	if _, err := resolveFormat(cfg); err == nil {
		t.Error("expected error for bogus format")
	}
}

func TestListerFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Scan.Exclude = []string{"**/*.gen.ts"}
	cfg.Scan.MaxFileSizeKB = 2
	cfg.Scan.NoGitignore = true

	lister := listerFromConfig(cfg)
	if len(lister.Excludes) != 1 || lister.Excludes[0] != "**/*.gen.ts" {
		t.Errorf("Excludes = %v", lister.Excludes)
	}
	if lister.MaxFileSize != 2048 {
		t.Errorf("MaxFileSize = %d, want 2048", lister.MaxFileSize)
	}
	if !lister.NoGitignore {
		t.Error("NoGitignore not carried over")
	}
}

func TestParseTimeout(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"", 0, false},
		{"0", 0, false},
		{"30m", 30 * time.Minute, false},
		{"1h", time.Hour, false},
		{"soon", 0, true},
	}

	for _, tt := range tests {
		got, err := parseTimeout(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseTimeout(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseTimeout(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
