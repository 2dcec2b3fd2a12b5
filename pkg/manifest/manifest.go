// Package manifest records what one pipeline run did: which snapshots were
// compared, how many records were parsed and exported, and which files
// each region group produced. The manifest is written as YAML so other
// tooling can pick up a run's outputs without re-deriving anything.
package manifest

import (
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/google/uuid"

	"github.com/openmuni/munimap/pkg/constants"
	"github.com/openmuni/munimap/pkg/errors"
)

// Manifest summarizes a single pipeline run.
type Manifest struct {
	RunID      string    `yaml:"run_id" json:"run_id"`
	StartedAt  time.Time `yaml:"started_at" json:"started_at"`
	FinishedAt time.Time `yaml:"finished_at" json:"finished_at"`
	SourceURL  string    `yaml:"source_url,omitempty" json:"source_url,omitempty"`
	BasePath   string    `yaml:"base_snapshot" json:"base_snapshot"`
	NewPath    string    `yaml:"new_snapshot" json:"new_snapshot"`
	FirstRun   bool      `yaml:"first_run" json:"first_run"`
	Records    Counts    `yaml:"records" json:"records"`
	Diff       Totals    `yaml:"diff" json:"diff"`
	ReportPath string    `yaml:"report,omitempty" json:"report,omitempty"`
	Groups     []Group   `yaml:"groups" json:"groups"`
}

// Counts carries the record tallies of a run.
type Counts struct {
	Parsed           int `yaml:"parsed" json:"parsed"`
	Skipped          int `yaml:"skipped" json:"skipped"`
	Exported         int `yaml:"exported" json:"exported"`
	Extraterritorial int `yaml:"extraterritorial" json:"extraterritorial"`
}

// Totals carries the line-level diff result of a run.
type Totals struct {
	Added   int `yaml:"added" json:"added"`
	Removed int `yaml:"removed" json:"removed"`
}

// Group lists the files written for one federative unit.
type Group struct {
	UF      string   `yaml:"uf" json:"uf"`
	Records int      `yaml:"records" json:"records"`
	Files   []string `yaml:"files" json:"files"`
}

// New creates a manifest with a fresh run ID.
func New() *Manifest {
	return &Manifest{RunID: uuid.NewString()}
}

// Write marshals the manifest as YAML to path, creating parent directories
// as needed.
func (m *Manifest) Write(path string) error {
	data, err := yaml.MarshalWithOptions(m,
		yaml.Indent(2),
		yaml.IndentSequence(false),
	)
	if err != nil {
		return errors.WrapParse("yaml", path, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("create", dir, err)
		}
	}
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// Read loads a manifest file back. Mostly useful for tooling and tests.
func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return &m, nil
}
