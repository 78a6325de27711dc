package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Manifest records one export run.
type Manifest struct {
	RunID    string        `yaml:"run_id"`
	Started  time.Time     `yaml:"started"`
	Finished time.Time     `yaml:"finished"`
	Source   string        `yaml:"source"`
	Results  []TableResult `yaml:"results"`
}

// NewManifest starts a manifest with a fresh run id.
func NewManifest(source string) *Manifest {
	return &Manifest{
		RunID:   uuid.NewString(),
		Started: time.Now().UTC(),
		Source:  source,
	}
}

// Add appends table results.
func (m *Manifest) Add(results ...TableResult) {
	m.Results = append(m.Results, results...)
}

// TotalRows sums written rows across results.
func (m *Manifest) TotalRows() (rows, skipped int) {
	for _, r := range m.Results {
		rows += r.Rows
		skipped += r.Skipped
	}
	return rows, skipped
}

// Write stamps Finished and writes <dir>/<run_id>.manifest.yaml.
func (m *Manifest) Write(dir string) (string, error) {
	m.Finished = time.Now().UTC()
	data, err := yaml.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create manifest dir: %w", err)
	}
	path := filepath.Join(dir, m.RunID+".manifest.yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write manifest: %w", err)
	}
	return path, nil
}

// ReadManifest loads a manifest written by Write.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}
