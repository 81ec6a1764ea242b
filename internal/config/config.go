package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"speccheck/internal/clierr"
	"speccheck/internal/tier"
)

// Sentinel errors.
var (
	ErrNotFound = errors.New("no speccheck config found")
	ErrInvalid  = errors.New("invalid config")
)

// Config is the optional workspace configuration. Absent config means
// built-in defaults; after Load the derived rule table never changes.
type Config struct {
	Version int `yaml:"version"`
	// WorkspaceAlias is the import prefix that maps to the workspace root.
	WorkspaceAlias string `yaml:"workspace_alias,omitempty"`
	// SpecSuffix is the filename suffix marking component spec documents.
	SpecSuffix string `yaml:"spec_suffix,omitempty"`
	// Rules are matched before the built-in table, so a workspace can
	// reclassify paths without restating the defaults.
	Rules    []tier.Rule      `yaml:"rules,omitempty"`
	Handlers []string         `yaml:"handlers,omitempty"`
	Sections map[int][]string `yaml:"sections,omitempty"`

	// dir is the directory the config was loaded from (not serialized).
	dir string `yaml:"-"`
}

// NewDefault returns a Config with default values.
func NewDefault() *Config {
	return &Config{
		Version:        CurrentVersion,
		WorkspaceAlias: DefaultWorkspaceAlias,
		SpecSuffix:     DefaultSpecSuffix,
	}
}

// Dir returns the directory the config was loaded from ("" for defaults).
func (c *Config) Dir() string {
	return c.dir
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if c.SpecSuffix == "" {
		return fmt.Errorf("%w: spec_suffix is required", ErrInvalid)
	}
	if !strings.HasSuffix(c.SpecSuffix, ".md") {
		return fmt.Errorf("%w: spec_suffix %q must end in .md", ErrInvalid, c.SpecSuffix)
	}
	for _, r := range c.Rules {
		if !r.Tier.Valid() {
			return fmt.Errorf("%w: rule tier %d out of range 0-6", ErrInvalid, r.Tier)
		}
		if len(r.Patterns) == 0 {
			return fmt.Errorf("%w: rule for tier %d has no patterns", ErrInvalid, r.Tier)
		}
	}
	for n := range c.Sections {
		if !tier.Tier(n).Valid() {
			return fmt.Errorf("%w: sections key %d out of range 0-6", ErrInvalid, n)
		}
	}
	return nil
}

// Table materializes the tier rule table: workspace rules first, then the
// built-in defaults. Handler patterns and per-tier required sections are
// replaced wholesale when set.
func (c *Config) Table() tier.Table {
	tb := tier.DefaultTable()
	if len(c.Rules) > 0 {
		tb.Rules = append(append([]tier.Rule{}, c.Rules...), tb.Rules...)
	}
	if len(c.Handlers) > 0 {
		tb.Handlers = append([]string{}, c.Handlers...)
	}
	for n, sections := range c.Sections {
		tb.Sections[n] = append([]string{}, sections...)
	}
	return tb
}

// Load reads and validates a config file.
func Load(path string) (*Config, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	data, err := os.ReadFile(absPath) //nolint:gosec // config path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, clierr.Newf(clierr.ConfigNotFound, "config file not found: %s", path)
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := NewDefault()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, clierr.Newf(clierr.ConfigInvalid, "parsing config: %v", err)
	}

	cfg.dir = filepath.Dir(absPath)

	if err := cfg.Validate(); err != nil {
		return nil, clierr.Newf(clierr.ConfigInvalid, "%v", err)
	}

	return cfg, nil
}

// Discover walks upward from startDir looking for a config file. When no
// config exists anywhere up the tree, the built-in defaults are returned.
func Discover(startDir string) (*Config, error) {
	absStart, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	dir := absStart
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return Load(candidate)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return NewDefault(), nil
		}
		dir = parent
	}
}
