package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"taskctl/internal/task"
)

// manifestDoc is the on-disk shape of a task manifest file: a sequence of
// task definitions. Deserialization only — no schema validation of spec
// content (spec's Non-goals explicitly exclude that).
type manifestDoc struct {
	Tasks []manifestTask `yaml:"tasks"`
}

type manifestTask struct {
	APIVersion string         `yaml:"apiVersion"`
	Kind       string         `yaml:"kind"`
	Metadata   map[string]any `yaml:"metadata"`
	Spec       map[string]any `yaml:"spec"`
}

// loadTaskSet reads a manifest file and builds a task.Set from it.
func loadTaskSet(path string) (*task.Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: reading %s: %w", path, err)
	}

	var doc manifestDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("manifest: parsing %s: %w", path, err)
	}

	set := task.NewSet()
	for _, mt := range doc.Tasks {
		set.Add(task.New(mt.APIVersion, mt.Kind, mt.Metadata, mt.Spec))
	}
	return set, nil
}
