package fsynth

import (
	"fmt"
	"io/fs"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/fsynth-go/fsynth/pkg/fsynth/operation"
)

// Plan is a YAML-serializable queue of operations, the format the CLI
// reads and writes.
type Plan struct {
	Version     string          `yaml:"version"`
	Description string          `yaml:"description,omitempty"`
	Model       string          `yaml:"model,omitempty"`
	Operations  []PlanOperation `yaml:"operations"`
}

// PlanOperation is one entry in a plan file. Only the fields relevant
// to Type are read when Build converts it to an Operation.
type PlanOperation struct {
	Type             string   `yaml:"type"`
	Source           string   `yaml:"source,omitempty"`
	Target           string   `yaml:"target,omitempty"`
	Content          string   `yaml:"content,omitempty"`
	LinkText         string   `yaml:"link_text,omitempty"`
	Mode             string   `yaml:"mode,omitempty"` // octal, e.g. "0644"
	Sources          []string `yaml:"sources,omitempty"`
	Format           string   `yaml:"format,omitempty"`
	Patterns         []string `yaml:"patterns,omitempty"`
	Overwrite        bool     `yaml:"overwrite,omitempty"`
	CreateParentDirs bool     `yaml:"create_parent_dirs,omitempty"`
}

// LoadPlan parses a YAML plan document.
func LoadPlan(data []byte) (*Plan, error) {
	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("fsynth: failed to parse plan: %w", err)
	}
	if len(plan.Operations) == 0 {
		return nil, fmt.Errorf("fsynth: plan has no operations")
	}
	return &plan, nil
}

// MarshalPlan serializes a plan back to YAML.
func MarshalPlan(plan *Plan) ([]byte, error) {
	return yaml.Marshal(plan)
}

// Build converts every PlanOperation into a runnable Operation, in
// order.
func (p *Plan) Build() ([]Operation, error) {
	ops := make([]Operation, 0, len(p.Operations))
	for i, po := range p.Operations {
		op, err := po.build()
		if err != nil {
			return nil, fmt.Errorf("fsynth: operation %d (%s): %w", i+1, po.Type, err)
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func (po *PlanOperation) mode(def fs.FileMode) (fs.FileMode, error) {
	if po.Mode == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(po.Mode, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid mode %q: %w", po.Mode, err)
	}
	return fs.FileMode(v), nil
}

func (po *PlanOperation) build() (Operation, error) {
	switch po.Type {
	case "create_file":
		mode, err := po.mode(0o644)
		if err != nil {
			return nil, err
		}
		return CreateFile(po.Target, []byte(po.Content), mode, po.CreateParentDirs), nil
	case "create_directory", "create_dir":
		mode, err := po.mode(0o755)
		if err != nil {
			return nil, err
		}
		return CreateDir(po.Target, mode, po.CreateParentDirs), nil
	case "copy", "copy_file":
		return Copy(po.Source, po.Target, po.Overwrite), nil
	case "move":
		return Move(po.Source, po.Target), nil
	case "symlink":
		return Symlink(po.Target, po.LinkText, po.Overwrite, po.CreateParentDirs), nil
	case "delete":
		return Delete(po.Target), nil
	case "create_archive":
		return CreateArchive(po.Target, po.Sources, operation.ArchiveFormat(po.Format)), nil
	case "unarchive":
		return Unarchive(po.Source, po.Target, po.Patterns, po.Overwrite), nil
	default:
		return nil, fmt.Errorf("unknown operation type %q", po.Type)
	}
}
