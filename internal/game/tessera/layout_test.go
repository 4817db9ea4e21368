package tessera

import (
	"os"
	"path/filepath"
	"testing"
)

const validLayoutsYAML = `
layouts:
  - name: standard
    counts: {1: 4, 2: 4, 3: 4, 4: 2}
  - name: sprint
    counts: {1: 8, 2: 6}
`

func TestParseLayouts(t *testing.T) {
	layouts, err := ParseLayouts([]byte(validLayoutsYAML))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(layouts) != 2 {
		t.Fatalf("expected 2 layouts, got %d", len(layouts))
	}
	std, ok := layouts["standard"]
	if !ok {
		t.Fatal("standard layout missing")
	}
	if std.Counts[4] != 2 {
		t.Fatalf("standard 4-count = %d, want 2", std.Counts[4])
	}
	if _, ok := layouts["sprint"]; !ok {
		t.Fatal("sprint layout missing")
	}
}

func TestParseLayoutsErrors(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"not yaml", `{{{`},
		{"empty", `layouts: []`},
		{"unnamed", "layouts:\n  - counts: {1: 14}"},
		{"duplicate", "layouts:\n  - name: a\n    counts: {1: 14}\n  - name: a\n    counts: {2: 14}"},
		{"wrong total", "layouts:\n  - name: a\n    counts: {1: 3}"},
		{"bad value", "layouts:\n  - name: a\n    counts: {9: 14}"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseLayouts([]byte(tc.yaml)); err == nil {
				t.Fatalf("expected error for %s", tc.name)
			}
		})
	}
}

func TestLoadLayouts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layouts.yaml")
	if err := os.WriteFile(path, []byte(validLayoutsYAML), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	layouts, err := LoadLayouts(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := layouts["standard"]; !ok {
		t.Fatal("standard layout missing after load")
	}

	if _, err := LoadLayouts(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
