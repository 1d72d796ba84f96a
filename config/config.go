package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cloudsweep/cloudsweep/types"
)

// Config is the process-wide configuration, loaded once per run and
// treated as immutable afterwards. Flags may override fields before
// the run starts; nothing mutates it once collection begins.
type Config struct {
	Version  string `yaml:"version"`
	Provider string `yaml:"provider"`
	Region   string `yaml:"region"`
	Project  string `yaml:"project"`
	Policy   Policy `yaml:"policy"`
}

// Policy holds the classification and cleanup policy.
type Policy struct {
	// EssentialAllowlist lists resource IDs or names that can never be
	// removed. Matching is verbatim, no globs.
	EssentialAllowlist []string `yaml:"essential_allowlist"`

	// RetentionDays per category. A category without an entry has no
	// staleness rule.
	RetentionDays map[types.Category]int `yaml:"retention_days"`

	DryRun                  bool `yaml:"dry_run"`
	ExpensiveCleanupEnabled bool `yaml:"expensive_cleanup"`

	// Categories toggles collection per category. An empty map enables
	// everything.
	Categories map[types.Category]bool `yaml:"categories"`
}

// DefaultPolicy returns the policy used when no config file is given:
// dry-run on, expensive cleanup off, stock retention for snapshots
// and images.
func DefaultPolicy() Policy {
	return Policy{
		DryRun: true,
		RetentionDays: map[types.Category]int{
			types.CategorySnapshot: 30,
			types.CategoryImage:    90,
		},
	}
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is intentional user input
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Validate ensures config has required fields.
func (c *Config) Validate() error {
	if c.Version == "" {
		return fmt.Errorf("version is required")
	}
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if c.Project == "" {
		return fmt.Errorf("project is required")
	}
	for cat := range c.Policy.Categories {
		if !cat.Valid() {
			return fmt.Errorf("unknown category in config: %q", cat)
		}
	}
	for cat, days := range c.Policy.RetentionDays {
		if !cat.Valid() {
			return fmt.Errorf("unknown category in retention_days: %q", cat)
		}
		if days < 0 {
			return fmt.Errorf("retention_days for %s cannot be negative", cat)
		}
	}
	return nil
}

// IsEssential reports whether a resource ID or name matches the
// allowlist verbatim. This check is absolute: nothing overrides it.
func (p Policy) IsEssential(id, name string) bool {
	for _, entry := range p.EssentialAllowlist {
		if entry == id || (name != "" && entry == name) {
			return true
		}
	}
	return false
}

// Retention returns the retention period for a category, if one is
// configured.
func (p Policy) Retention(c types.Category) (int, bool) {
	days, ok := p.RetentionDays[c]
	return days, ok
}

// CategoryEnabled reports whether a category participates in the run.
func (p Policy) CategoryEnabled(c types.Category) bool {
	if len(p.Categories) == 0 {
		return true
	}
	enabled, ok := p.Categories[c]
	return ok && enabled
}

// EnabledCategories returns enabled categories in fixed order.
func (p Policy) EnabledCategories() []types.Category {
	var out []types.Category
	for _, c := range types.AllCategories() {
		if p.CategoryEnabled(c) {
			out = append(out, c)
		}
	}
	return out
}
