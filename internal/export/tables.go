// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/scholar-harvest/pkg/types"
)

// TablesFile is the on-disk form of the merged tables.
type TablesFile struct {
	RunID     string             `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Generated time.Time          `json:"generated" yaml:"generated"`
	Articles  []types.ArticleRow `json:"articles" yaml:"articles"`
	Authors   []types.AuthorRow  `json:"authors" yaml:"authors"`
}

// NewTablesFile wraps tables for export.
func NewTablesFile(runID string, tables types.Tables, at time.Time) TablesFile {
	return TablesFile{
		RunID:     runID,
		Generated: at.UTC(),
		Articles:  tables.Articles,
		Authors:   tables.Authors,
	}
}

// WriteYAML writes the tables to path.
func WriteYAML(path string, tf TablesFile) error {
	data, err := yaml.Marshal(tf)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return writeFile(path, data)
}

// WriteJSON writes the tables to path, indented.
func WriteJSON(path string, tf TablesFile) error {
	data, err := json.MarshalIndent(tf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return writeFile(path, data)
}

// ReadYAML loads tables previously written by WriteYAML.
func ReadYAML(path string) (TablesFile, error) {
	var tf TablesFile
	data, err := os.ReadFile(path)
	if err != nil {
		return tf, fmt.Errorf("reading tables file: %w", err)
	}
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return tf, fmt.Errorf("parsing tables file: %w", err)
	}
	return tf, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
