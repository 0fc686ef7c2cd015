package workflow

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// NodeDefinition declares one node of a workflow definition. Exactly one of
// Task and Workflow must be set.
type NodeDefinition struct {
	ID       string   `yaml:"id"`
	Task     string   `yaml:"task,omitempty"`
	Workflow string   `yaml:"workflow,omitempty"`
	After    []string `yaml:"after,omitempty"`
}

// Entity returns the referenced task or workflow name.
func (n NodeDefinition) Entity() string {
	if n.Task != "" {
		return n.Task
	}
	return n.Workflow
}

// Definition declares a workflow in YAML:
//
//	name: chain_tasks_wf
//	nodes:
//	  - id: create_bucket
//	    task: create_bucket
//	  - id: write
//	    task: write
//	    after: [create_bucket]
//	output: write
type Definition struct {
	Name   string           `yaml:"name"`
	Nodes  []NodeDefinition `yaml:"nodes"`
	Output string           `yaml:"output,omitempty"`
}

// Validate ensures the definition is self-consistent. It does not resolve
// entity names; Registry.Build does that.
func (def Definition) Validate() error {
	if def.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDefinition)
	}
	seen := make(map[string]struct{}, len(def.Nodes))
	for idx, n := range def.Nodes {
		if n.ID == "" {
			return fmt.Errorf("%w: workflow %s node[%d]: id is required", ErrInvalidDefinition, def.Name, idx)
		}
		if (n.Task == "") == (n.Workflow == "") {
			return fmt.Errorf("%w: workflow %s node %s: exactly one of task or workflow is required", ErrInvalidDefinition, def.Name, n.ID)
		}
		if _, dup := seen[n.ID]; dup {
			return fmt.Errorf("%w: workflow %s: duplicate node id %s", ErrInvalidDefinition, def.Name, n.ID)
		}
		seen[n.ID] = struct{}{}
	}
	for _, n := range def.Nodes {
		for _, dep := range n.After {
			if _, ok := seen[dep]; !ok {
				return fmt.Errorf("%w: workflow %s node %s references unknown node %s", ErrInvalidDefinition, def.Name, n.ID, dep)
			}
		}
	}
	if def.Output != "" {
		if _, ok := seen[def.Output]; !ok {
			return fmt.Errorf("%w: workflow %s output references unknown node %s", ErrInvalidDefinition, def.Name, def.Output)
		}
	}
	return nil
}

// ParseDefinitionYAML decodes and validates a workflow definition.
func ParseDefinitionYAML(data []byte) (Definition, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Definition{}, fmt.Errorf("%w: definition payload is empty", ErrInvalidDefinition)
	}
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return Definition{}, fmt.Errorf("workflow: decode definition: %w", err)
	}
	if err := def.Validate(); err != nil {
		return Definition{}, err
	}
	return def, nil
}

// LoadDefinitionReader reads a workflow definition from r.
func LoadDefinitionReader(r io.Reader) (Definition, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return Definition{}, fmt.Errorf("workflow: read definition: %w", err)
	}
	return ParseDefinitionYAML(content)
}

// LoadDefinitionFile loads a workflow definition from a file.
func LoadDefinitionFile(path string) (Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return Definition{}, fmt.Errorf("workflow: read %s: %w", path, err)
	}
	defer f.Close()

	def, err := LoadDefinitionReader(f)
	if err != nil {
		return Definition{}, fmt.Errorf("workflow: %s: %w", path, err)
	}
	return def, nil
}

// LoadDefinitionDir loads every *.yaml and *.yml file in dir, sorted by name.
func LoadDefinitionDir(dir string) ([]Definition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("workflow: read dir %s: %w", dir, err)
	}
	var defs []Definition
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		def, err := LoadDefinitionFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}
