// Package config loads the engine's own configuration — which
// commands/contexts/actions it recognizes, how commands map to actions,
// and where durable state lives — from YAML. This is engine configuration,
// not manifest parsing: it never touches task specs (spec's Non-goals
// explicitly exclude schema validation of manifest content).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Engine is the top-level engine configuration document.
type Engine struct {
	SupportedCommands []string          `yaml:"supportedCommands"`
	SupportedContexts []string          `yaml:"supportedContexts"`
	SupportedActions  []string          `yaml:"supportedActions"`
	CommandActionMap  map[string]string `yaml:"commandActionMap"`
	Persistence       Persistence       `yaml:"persistence"`
}

// Persistence selects and configures a durable-state backend.
type Persistence struct {
	// Driver is "memory", "sqlite", or "file". Defaults to "memory" when empty.
	Driver string `yaml:"driver"`
	// Path is the sqlite database file (or ":memory:") for the sqlite
	// driver, or the base directory for the file driver. Ignored for the
	// memory driver.
	Path string `yaml:"path"`
}

// Load reads and parses an Engine configuration document from path.
func Load(path string) (*Engine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes an Engine configuration document from raw YAML bytes.
func Parse(data []byte) (*Engine, error) {
	var e Engine
	if err := yaml.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("config: parsing engine config: %w", err)
	}
	if e.Persistence.Driver == "" {
		e.Persistence.Driver = "memory"
	}
	return &e, nil
}
