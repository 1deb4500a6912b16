// Package runcfg loads the YAML run configuration: a description plus an
// ordered list of extraction tasks executed sequentially into one output
// directory.
package runcfg

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/valuegraph/profile"
)

// Config is the top-level run configuration.
type Config struct {
	Description string `yaml:"description,omitempty"`
	Tasks       []Task `yaml:"tasks"`
}

// Task names one profile, one input directory, and the filter bindings
// for a single extraction pass.
type Task struct {
	Description string `yaml:"description,omitempty"`

	// Profile is a built-in profile name or a path to a profile JSON file.
	Profile string `yaml:"profile"`

	InputDir string `yaml:"input_dir"`

	// Filters binds profile cli_args to literal values. Unbound filters
	// are inactive.
	Filters map[string]string `yaml:"filters,omitempty"`
}

// Load reads and validates a run configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing run config YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the structural rules a config must satisfy before any
// profile is opened.
func (c *Config) Validate() error {
	if len(c.Tasks) == 0 {
		return fmt.Errorf("run config declares no tasks")
	}
	for i, t := range c.Tasks {
		if t.Profile == "" {
			return fmt.Errorf("task %d: profile must not be empty", i)
		}
		if t.InputDir == "" {
			return fmt.Errorf("task %d: input_dir must not be empty", i)
		}
	}
	return nil
}

// CheckFilters verifies that every bound filter names a cli_arg the
// profile declares. Unknown bindings are configuration errors, not
// silently inactive filters.
func CheckFilters(t *Task, p *profile.Profile) error {
	for arg := range t.Filters {
		if _, ok := p.FilterByArg(arg); !ok {
			return fmt.Errorf("filter %q is not declared by profile %s", arg, t.Profile)
		}
	}
	return nil
}
