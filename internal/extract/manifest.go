package extract

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"geovector/internal/georef"

	"github.com/google/uuid"
)

// Manifest records one pipeline invocation: its inputs, parameters, durable
// artifacts, and stage counts. It is persisted next to the artifacts so a
// staged run can be inspected or reused after the fact.
type Manifest struct {
	Version     int       `json:"version"`
	ID          string    `json:"id"`
	Created     time.Time `json:"created"`
	Source      string    `json:"source"`
	OutputDir   string    `json:"output_dir"`
	FeatureType string    `json:"feature_type"`

	Georef struct {
		Method   string            `json:"method"`
		Degraded bool              `json:"degraded"`
		Bounds   georef.BoundingBox `json:"bounds"`
	} `json:"georef"`

	Artifacts Artifacts `json:"artifacts"`
	Counts    Counts    `json:"counts"`
}

// Artifacts are the durable intermediate products of a run.
type Artifacts struct {
	Preprocessed string `json:"preprocessed,omitempty"`
	Mask         string `json:"mask,omitempty"`
	GeoJSON      string `json:"geojson,omitempty"`
}

// Counts tracks how the polygon set evolved through the stages.
type Counts struct {
	Traced  int `json:"traced"`
	Dropped int `json:"dropped"`
	Merged  int `json:"merged"`
}

// NewManifest creates a manifest for a fresh invocation with a unique ID.
func NewManifest(source, outputDir, featureType string) *Manifest {
	return &Manifest{
		Version:     1,
		ID:          uuid.New().String(),
		Created:     time.Now(),
		Source:      source,
		OutputDir:   outputDir,
		FeatureType: featureType,
	}
}

// Path returns where the manifest is persisted.
func (m *Manifest) Path() string {
	return filepath.Join(m.OutputDir, fmt.Sprintf("run_%s.json", m.ID))
}

// Save writes the manifest as indented JSON.
func (m *Manifest) Save() error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("extract: encoding manifest: %w", err)
	}
	if err := os.WriteFile(m.Path(), data, 0o644); err != nil {
		return fmt.Errorf("extract: writing manifest: %w", err)
	}
	return nil
}

// LoadManifest reads a previously persisted manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("extract: reading manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("extract: decoding manifest %s: %w", path, err)
	}
	return &m, nil
}
