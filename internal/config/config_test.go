package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadProjectConfigDefaultsWhenMissing(t *testing.T) {
	projectDir := t.TempDir()
	sacDir := filepath.Join(projectDir, SacDir)
	if err := os.MkdirAll(sacDir, 0o755); err != nil {
		t.Fatal(err)
	}
	c := &Config{ProjectDir: projectDir, SacProjectDir: sacDir, Project: defaultProjectConfig()}
	if err := c.loadProjectConfig(); err != nil {
		t.Fatalf("loadProjectConfig returned error: %v", err)
	}
	if c.Project.Version != 1 {
		t.Fatalf("expected default version == 1, got %d", c.Project.Version)
	}
	if c.DefaultRating() != "N/A" {
		t.Fatalf("expected default rating N/A, got %q", c.DefaultRating())
	}
	if c.DuplicatePolicy() != "not-applicable" {
		t.Fatalf("expected default duplicate policy, got %q", c.DuplicatePolicy())
	}
	if c.ValidateOnEdit() {
		t.Fatalf("validate_on_edit must default to false")
	}
	if got := filepath.Base(c.DatabasePath()); got != "respostas_sac_deq.csv" {
		t.Fatalf("database path = %q", got)
	}
	if !strings.HasPrefix(c.DraftPath(), sacDir) {
		t.Fatalf("draft path %q not under .sac", c.DraftPath())
	}
}

func TestLoadProjectConfigParsesYaml(t *testing.T) {
	projectDir := t.TempDir()
	sacDir := filepath.Join(projectDir, SacDir)
	if err := os.MkdirAll(sacDir, 0o755); err != nil {
		t.Fatal(err)
	}
	configYAML := strings.TrimSpace(`
version: 1
storage:
  database: dados/avaliacoes.csv
form:
  default_rating: "0"
  duplicate_policy: higher
  validate_on_edit: true
rosters:
  evaluators:
    - "  Maria  "
    - Pedro
`)
	if err := os.WriteFile(filepath.Join(sacDir, "config.yaml"), []byte(configYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	c := &Config{ProjectDir: projectDir, SacProjectDir: sacDir, Project: defaultProjectConfig()}
	if err := c.loadProjectConfig(); err != nil {
		t.Fatalf("loadProjectConfig returned error: %v", err)
	}
	if c.DefaultRating() != "0" {
		t.Fatalf("default rating = %q, want 0", c.DefaultRating())
	}
	if c.DuplicatePolicy() != "higher" {
		t.Fatalf("duplicate policy = %q, want higher", c.DuplicatePolicy())
	}
	if !c.ValidateOnEdit() {
		t.Fatalf("validate_on_edit should be true")
	}
	if !strings.HasPrefix(c.DatabasePath(), projectDir) {
		t.Fatalf("expected database path resolved under project dir, got %s", c.DatabasePath())
	}
	if got := c.Evaluators(); len(got) != 2 || got[0] != "Maria" {
		t.Fatalf("evaluators = %v, want trimmed roster", got)
	}
	// Unlisted rosters fall back to defaults.
	if len(c.Semesters()) == 0 || len(c.Curricula()) == 0 {
		t.Fatalf("expected default semester and curriculum rosters")
	}
}

func TestLoadProjectConfigValidation(t *testing.T) {
	projectDir := t.TempDir()
	sacDir := filepath.Join(projectDir, SacDir)
	if err := os.MkdirAll(sacDir, 0o755); err != nil {
		t.Fatal(err)
	}
	configYAML := strings.TrimSpace(`
version: 1
form:
  default_rating: "3"
`)
	if err := os.WriteFile(filepath.Join(sacDir, "config.yaml"), []byte(configYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	c := &Config{ProjectDir: projectDir, SacProjectDir: sacDir, Project: defaultProjectConfig()}
	if err := c.loadProjectConfig(); err == nil {
		t.Fatalf("expected validation error but got none")
	}
}

func TestInitSacDirWritesDefaultConfig(t *testing.T) {
	projectDir := t.TempDir()
	if err := InitSacDir(projectDir); err != nil {
		t.Fatalf("InitSacDir: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(projectDir, SacDir, "config.yaml"))
	if err != nil {
		t.Fatalf("default config missing: %v", err)
	}
	if !strings.Contains(string(data), "default_rating") {
		t.Fatalf("default config lacks form flags:\n%s", data)
	}
	cfg, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("NewConfig after init: %v", err)
	}
	if cfg.DefaultRating() != "N/A" {
		t.Fatalf("round-tripped default rating = %q", cfg.DefaultRating())
	}
}
