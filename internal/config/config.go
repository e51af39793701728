// internal/config/config.go
//
// This package handles configuration and the .sac directory structure.
// Every directory the transcription desk runs in gets a .sac/ folder
// holding config.yaml, the activity log and the draft autosave file.
// The CSV database itself lives next to .sac/ so operators can grab it
// with a file manager.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"sac/internal/schema"
)

const (
	// SacDir is the name of the directory created in each project.
	SacDir = ".sac"

	defaultDatabaseFile = "respostas_sac_deq.csv"
	defaultDraftFile    = "_backup_autosave.json"

	defaultRating          = "N/A"
	defaultDuplicatePolicy = "not-applicable"
)

// FormConfig carries the behavior flags the source iterations disagreed
// on. They are configuration, not guesses baked into code.
type FormConfig struct {
	// DefaultRating is what an untouched item starts at: "N/A" or "0".
	DefaultRating string `yaml:"default_rating"`
	// DuplicatePolicy resolves double-marked paper items: "higher" or
	// "not-applicable".
	DuplicatePolicy string `yaml:"duplicate_policy"`
	// ValidateOnEdit applies the mandatory-reflection rule to edits,
	// not only to new submissions.
	ValidateOnEdit bool `yaml:"validate_on_edit"`
}

// StorageConfig names the two data files. Relative paths resolve
// against the project directory.
type StorageConfig struct {
	Database string `yaml:"database"`
	Draft    string `yaml:"draft"`
}

// RosterConfig lists the fixed selection options on the identity tab.
type RosterConfig struct {
	Evaluators []string `yaml:"evaluators"`
	Semesters  []string `yaml:"semesters"`
	Curricula  []string `yaml:"curricula"`
}

// ProjectConfig models .sac/config.yaml.
type ProjectConfig struct {
	Version int           `yaml:"version"`
	Storage StorageConfig `yaml:"storage"`
	Form    FormConfig    `yaml:"form"`
	Rosters RosterConfig  `yaml:"rosters"`
}

// Config holds the runtime configuration for the transcription desk.
type Config struct {
	// ProjectDir is the directory where the user ran `sac` from.
	ProjectDir string

	// SacProjectDir is ProjectDir/.sac.
	SacProjectDir string

	Project ProjectConfig
}

// InitSacDir creates the .sac directory structure and a default
// config.yaml if one does not exist yet.
//
// Structure created:
// .sac/
// ├── config.yaml  <- behavior flags, rosters, file locations
// ├── logs/        <- activity log shown in the TUI panel
// └── exports/     <- default target for `sac export`
func InitSacDir(projectDir string) error {
	sacDir := filepath.Join(projectDir, SacDir)
	dirs := []string{
		filepath.Join(sacDir, "logs"),
		filepath.Join(sacDir, "exports"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return ensureProjectConfig(filepath.Join(sacDir, "config.yaml"))
}

// NewConfig creates a Config populated from .sac/config.yaml, falling
// back to defaults when the file is absent.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:    projectDir,
		SacProjectDir: filepath.Join(projectDir, SacDir),
		Project:       defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DatabasePath returns the CSV database location.
func (c *Config) DatabasePath() string {
	return resolvePath(c.ProjectDir, c.Project.Storage.Database)
}

// DraftPath returns the autosave side-channel location.
func (c *Config) DraftPath() string {
	return resolvePath(c.SacProjectDir, c.Project.Storage.Draft)
}

// LogsDir returns the activity log directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.SacProjectDir, "logs")
}

// ExportsDir returns the default export target directory.
func (c *Config) ExportsDir() string {
	return filepath.Join(c.SacProjectDir, "exports")
}

// ProjectConfigPath returns the on-disk location for config.yaml.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.SacProjectDir, "config.yaml")
}

// DefaultRating returns the pre-selected symbol for untouched items.
func (c *Config) DefaultRating() string {
	return c.Project.Form.DefaultRating
}

// DuplicatePolicy returns the double-mark resolution flag.
func (c *Config) DuplicatePolicy() string {
	return c.Project.Form.DuplicatePolicy
}

// ValidateOnEdit reports whether edits re-check mandatory fields.
func (c *Config) ValidateOnEdit() bool {
	return c.Project.Form.ValidateOnEdit
}

// Evaluators returns the roster for the evaluator selector.
func (c *Config) Evaluators() []string {
	return c.Project.Rosters.Evaluators
}

// Semesters returns the semester options.
func (c *Config) Semesters() []string {
	return c.Project.Rosters.Semesters
}

// Curricula returns the curriculum variant options.
func (c *Config) Curricula() []string {
	return c.Project.Rosters.Curricula
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version: 1,
		Storage: StorageConfig{
			Database: defaultDatabaseFile,
			Draft:    defaultDraftFile,
		},
		Form: FormConfig{
			DefaultRating:   defaultRating,
			DuplicatePolicy: defaultDuplicatePolicy,
		},
		Rosters: RosterConfig{
			Evaluators: schema.DefaultEvaluators,
			Semesters:  schema.DefaultSemesters,
			Curricula:  schema.DefaultCurricula,
		},
	}
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if pc.Storage.Database == "" {
		pc.Storage.Database = defaultDatabaseFile
	}
	if pc.Storage.Draft == "" {
		pc.Storage.Draft = defaultDraftFile
	}
	if pc.Form.DefaultRating == "" {
		pc.Form.DefaultRating = defaultRating
	}
	if pc.Form.DuplicatePolicy == "" {
		pc.Form.DuplicatePolicy = defaultDuplicatePolicy
	}
	if len(pc.Rosters.Evaluators) == 0 {
		pc.Rosters.Evaluators = schema.DefaultEvaluators
	}
	if len(pc.Rosters.Semesters) == 0 {
		pc.Rosters.Semesters = schema.DefaultSemesters
	}
	if len(pc.Rosters.Curricula) == 0 {
		pc.Rosters.Curricula = schema.DefaultCurricula
	}
}

func (pc *ProjectConfig) normalize() {
	pc.Storage.Database = strings.TrimSpace(pc.Storage.Database)
	pc.Storage.Draft = strings.TrimSpace(pc.Storage.Draft)
	pc.Form.DefaultRating = strings.TrimSpace(pc.Form.DefaultRating)
	pc.Form.DuplicatePolicy = strings.ToLower(strings.TrimSpace(pc.Form.DuplicatePolicy))
	pc.Rosters.Evaluators = trimAll(pc.Rosters.Evaluators)
	pc.Rosters.Semesters = trimAll(pc.Rosters.Semesters)
	pc.Rosters.Curricula = trimAll(pc.Rosters.Curricula)
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	switch pc.Form.DefaultRating {
	case "N/A", "0":
	default:
		return fmt.Errorf("form.default_rating must be 'N/A' or '0'")
	}
	switch pc.Form.DuplicatePolicy {
	case "higher", "not-applicable":
	default:
		return fmt.Errorf("form.duplicate_policy must be 'higher' or 'not-applicable'")
	}
	return nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return base
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	data, err := yaml.Marshal(defaultProjectConfig())
	if err != nil {
		return fmt.Errorf("config: encode defaults: %w", err)
	}
	header := "# sac project configuration\n"
	return os.WriteFile(path, append([]byte(header), data...), 0o644)
}
