package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestRunMapRendersTree(t *testing.T) {
	root := writeScanFixture(t)

	var buf bytes.Buffer
	mapCmd.SetOut(&buf)
	defer mapCmd.SetOut(nil)

	if err := runMap(mapCmd, []string{root}); err != nil {
		t.Fatalf("runMap() error = %v", err)
	}

	got := buf.String()
	for _, want := range []string{"lib/", "src/", "util.py", "user.ts"} {
		if !strings.Contains(got, want) {
			t.Errorf("tree missing %q:\n%s", want, got)
		}
	}
	if !strings.Contains(got, "2 directories, 2 files") {
		t.Errorf("stats line missing: %q", got)
	}
}

func TestRunMapMissingPath(t *testing.T) {
	if err := runMap(mapCmd, []string{"/no/such/dir"}); err == nil {
		t.Fatal("expected error for missing path")
	}
}
