package agent

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// LoadInventory reads a checkpointed inventory from path.
func LoadInventory(path string) (*AgentInventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read inventory: %w", err)
	}
	inv := NewInventory()
	if err := json.Unmarshal(data, inv); err != nil {
		return nil, fmt.Errorf("parse inventory %s: %w", path, err)
	}
	return inv, nil
}

// Save writes the inventory to path, pretty-printed.
func (inv *AgentInventory) Save(path string) error {
	data, err := json.MarshalIndent(inv, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal inventory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write inventory: %w", err)
	}
	return nil
}

// Snapshot streams the inventory as a single JSON line, the checkpoint
// format the trade loop emits after each fill.
func (inv *AgentInventory) Snapshot(w io.Writer) error {
	data, err := json.Marshal(inv)
	if err != nil {
		return fmt.Errorf("marshal inventory: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// BuilderFile is a file of named agent specs, the ergonomic form an
// operator writes by hand: {"agents": {<name>: <GAgent>, ...}}.
type BuilderFile struct {
	Agents map[string]GAgent `json:"agents"`
}

// LoadBuilders reads a builder file from path.
func LoadBuilders(path string) (*BuilderFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read agent specs: %w", err)
	}
	var bf BuilderFile
	if err := json.Unmarshal(data, &bf); err != nil {
		return nil, fmt.Errorf("parse agent specs %s: %w", path, err)
	}
	return &bf, nil
}

// Build constructs a fresh inventory from the named specs.
func (bf *BuilderFile) Build() (*AgentInventory, error) {
	inv := NewInventory()
	for name, spec := range bf.Agents {
		h, err := spec.Build()
		if err != nil {
			return nil, fmt.Errorf("build agent %q: %w", name, err)
		}
		inv.Agents[name] = h
	}
	return inv, nil
}
