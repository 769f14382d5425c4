// Package report persists a durable record of one exploration pass: which
// dataset was profiled, what was computed and which plot files were
// written.
package report

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/edalab/edakit/internal/utils"
)

// ColumnInfo summarizes one column in the run record.
type ColumnInfo struct {
	Name    string  `yaml:"name"`
	Kind    string  `yaml:"kind"`
	Missing int     `yaml:"missing"`
	Percent float64 `yaml:"missing_percent"`
}

// Run is the persisted record of one exploration pass.
type Run struct {
	ID        string       `yaml:"id"`
	CreatedAt time.Time    `yaml:"created_at"`
	Dataset   string       `yaml:"dataset"`
	Rows      int          `yaml:"rows"`
	Columns   []ColumnInfo `yaml:"columns"`
	Plots     []string     `yaml:"plots,omitempty"`
	Warnings  []string     `yaml:"warnings,omitempty"`
}

// NewRun constructs a run record with a fresh ID.
func NewRun(dataset string) *Run {
	return &Run{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Dataset:   dataset,
	}
}

// Save writes the run as YAML, atomically.
func (r *Run) Save(path string) error {
	b, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}
	return utils.SafeWriteFile(path, b)
}

// Load reads a run record back from disk.
func Load(path string) (*Run, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read run: %w", err)
	}
	var r Run
	if err := yaml.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("unmarshal run: %w", err)
	}
	return &r, nil
}
