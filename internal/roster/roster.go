// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package roster loads the researchers to harvest and the controlled theme
// vocabulary, either from a YAML file or from a workbook with a
// "researchers" sheet and a "themes" sheet.
package roster

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/scholar-harvest/pkg/types"
)

// ErrNoIdentities is returned when a roster lists no researchers.
var ErrNoIdentities = errors.New("roster lists no researchers")

// Workbook sheet and column names.
const (
	ResearchersSheet = "researchers"
	ThemesSheet      = "themes"

	ColFirstName   = "first_name"
	ColLastName    = "last_name"
	ColInstitution = "researcher_university"
	ColRole        = "position_institute"
	ColTheme       = "subtheme"
)

// Roster is the configuration input of a run.
type Roster struct {
	Identities []types.IdentityQuery `yaml:"researchers"`
	Vocabulary []string              `yaml:"themes"`
}

// Load reads a roster from path. Files ending in .xlsx are read as
// workbooks; anything else is parsed as YAML.
func Load(path string) (*Roster, error) {
	var (
		r   *Roster
		err error
	)
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		r, err = loadWorkbook(path)
	} else {
		r, err = loadYAML(path)
	}
	if err != nil {
		return nil, err
	}

	r.Vocabulary = clean(r.Vocabulary)
	if len(r.Identities) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoIdentities)
	}
	return r, nil
}

func loadYAML(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roster: %w", err)
	}
	var r Roster
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing roster %s: %w", path, err)
	}
	return &r, nil
}

func loadWorkbook(path string) (*Roster, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening roster workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(ResearchersSheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", ResearchersSheet, err)
	}
	recs, err := records(rows, ColFirstName, ColLastName, ColInstitution, ColRole)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", ResearchersSheet, err)
	}

	r := &Roster{}
	for _, rec := range recs {
		r.Identities = append(r.Identities, types.IdentityQuery{
			FirstName:   rec[ColFirstName],
			LastName:    rec[ColLastName],
			Institution: rec[ColInstitution],
			Role:        rec[ColRole],
		})
	}

	if rows, err = f.GetRows(ThemesSheet); err != nil {
		return r, nil
	}
	themes, err := records(rows, ColTheme)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", ThemesSheet, err)
	}
	for _, rec := range themes {
		r.Vocabulary = append(r.Vocabulary, rec[ColTheme])
	}
	return r, nil
}

// records maps each non-blank data row to its values under the required
// header columns. The first row is the header.
func records(rows [][]string, required ...string) ([]map[string]string, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	index := make(map[string]int)
	for i, h := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	var out []map[string]string
	for _, row := range rows[1:] {
		rec := make(map[string]string, len(required))
		blank := true
		for _, col := range required {
			var v string
			if i := index[col]; i < len(row) {
				v = strings.TrimSpace(row[i])
			}
			if v != "" {
				blank = false
			}
			rec[col] = v
		}
		if !blank {
			out = append(out, rec)
		}
	}
	return out, nil
}

// clean trims themes and drops blanks and duplicates, keeping order.
func clean(themes []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range themes {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
