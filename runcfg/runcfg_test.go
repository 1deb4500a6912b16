package runcfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lehigh-university-libraries/valuegraph/profile"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")

	content := `description: Crossref April snapshot
tasks:
  - description: member 311 only
    profile: crossref
    input_dir: /data/crossref
    filters:
      member: "311"
  - description: everything
    profile: ./profiles/custom.json
    input_dir: /data/openalex
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(cfg.Tasks) != 2 {
		t.Fatalf("tasks = %d, want 2", len(cfg.Tasks))
	}
	task := cfg.Tasks[0]
	if task.Profile != "crossref" || task.InputDir != "/data/crossref" {
		t.Errorf("task[0] = %+v", task)
	}
	if task.Filters["member"] != "311" {
		t.Errorf("filters = %v", task.Filters)
	}
	if cfg.Tasks[1].Filters != nil {
		t.Errorf("task[1] filters = %v, want none", cfg.Tasks[1].Filters)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"no tasks", "description: empty\ntasks: []\n"},
		{"missing profile", "tasks:\n  - input_dir: /data\n"},
		{"missing input_dir", "tasks:\n  - profile: crossref\n"},
		{"not yaml", "{{{"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected load error")
			}
		})
	}
}

func TestCheckFilters(t *testing.T) {
	p := &profile.Profile{
		Filters: []profile.Filter{{CLIArg: "member", Path: "member"}},
	}

	ok := &Task{Profile: "crossref", Filters: map[string]string{"member": "311"}}
	if err := CheckFilters(ok, p); err != nil {
		t.Errorf("declared filter rejected: %v", err)
	}

	bad := &Task{Profile: "crossref", Filters: map[string]string{"journal": "x"}}
	if err := CheckFilters(bad, p); err == nil {
		t.Error("undeclared filter accepted")
	}
}
