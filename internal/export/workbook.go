// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes run results: the four-sheet results workbook, the
// checkpoint workbook written when a run halts, and YAML or JSON copies of
// the merged tables.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/scholar-harvest/pkg/types"
)

// Sheet names of the results workbook, in order.
const (
	SheetProfiles    = "profiles"
	SheetAllArticles = "all_articles"
	SheetArticles    = "articles"
	SheetAuthors     = "authors"
)

const timestampFmt = "2006-01-02 150405"

// Run is the content of a results workbook.
type Run struct {
	Profiles []types.ResolvedProfile
	Articles []types.ArticleDetail
	Tables   types.Tables
}

var (
	profileHeader = []string{"author_id", "first_name", "last_name", "institution", "is_target_role", "profile_url", "outcome"}
	detailHeader  = []string{"title", "detail_url", "paper_url", "journal", "year", "issue", "volume", "pages", "abstract",
		"citations", "publisher", "authors", "publication_date", "author_id", "article_id", "status", "theme", "language"}
	articleHeader = []string{"article_id", "title", "detail_url", "paper_url", "journal", "year", "issue", "volume", "pages",
		"theme", "abstract", "citations", "status", "language", "author_id"}
	authorHeader = []string{"article_id", "author_id", "rank", "last_name", "first_name", "profile_url"}
)

// ResultsPath returns the results workbook path for a run started at at.
func ResultsPath(dir, prefix string, at time.Time) string {
	return filepath.Join(dir, fileName(prefix, "harvest_results "+at.Format(timestampFmt)+".xlsx"))
}

// TablesPath returns the path of the merged tables written as ext (yaml or
// json) for a run started at.
func TablesPath(dir, prefix string, at time.Time, ext string) string {
	return filepath.Join(dir, fileName(prefix, "harvest_tables "+at.Format(timestampFmt)+"."+ext))
}

// CheckpointPath returns the path of the workbook written when a run halts.
func CheckpointPath(dir, prefix string) string {
	return filepath.Join(dir, fileName(prefix, "harvest_challenge_checkpoint.xlsx"))
}

func fileName(prefix, name string) string {
	if prefix = strings.TrimSpace(prefix); prefix == "" {
		return name
	}
	return prefix + " " + name
}

// WriteWorkbook writes the four result sheets to path.
func WriteWorkbook(path string, run Run) error {
	sheets := []sheet{
		{SheetProfiles, profileHeader, profileRows(run.Profiles)},
		{SheetAllArticles, detailHeader, detailRows(run.Articles)},
		{SheetArticles, articleHeader, articleRows(run.Tables.Articles)},
		{SheetAuthors, authorHeader, authorRows(run.Tables.Authors)},
	}
	return write(path, sheets)
}

// WriteCheckpoint writes the classified articles gathered before a halt.
func WriteCheckpoint(path string, articles []types.ArticleDetail) error {
	return write(path, []sheet{{SheetAllArticles, detailHeader, detailRows(articles)}})
}

// Checkpointer returns a function that writes checkpoints under dir.
func Checkpointer(dir, prefix string) func([]types.ArticleDetail) (string, error) {
	return func(articles []types.ArticleDetail) (string, error) {
		path := CheckpointPath(dir, prefix)
		if err := WriteCheckpoint(path, articles); err != nil {
			return "", err
		}
		return path, nil
	}
}

type sheet struct {
	name   string
	header []string
	rows   [][]any
}

func write(path string, sheets []sheet) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.name); err != nil {
				return fmt.Errorf("naming sheet %s: %w", s.name, err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("creating sheet %s: %w", s.name, err)
		}

		header := make([]any, len(s.header))
		for j, h := range s.header {
			header[j] = h
		}
		if err := setRow(f, s.name, 1, header); err != nil {
			return err
		}
		for j, row := range s.rows {
			if err := setRow(f, s.name, j+2, row); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", path, err)
	}
	return nil
}

func setRow(f *excelize.File, name string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(name, cell, &values); err != nil {
		return fmt.Errorf("writing %s row %d: %w", name, row, err)
	}
	return nil
}

func profileRows(profiles []types.ResolvedProfile) [][]any {
	rows := make([][]any, len(profiles))
	for i, p := range profiles {
		target := "N"
		if p.IsTargetRole {
			target = "Y"
		}
		rows[i] = []any{p.AuthorID, p.FirstName, p.LastName, p.Institution, target, p.Locator(), p.Outcome.String()}
	}
	return rows
}

func detailRows(details []types.ArticleDetail) [][]any {
	rows := make([][]any, len(details))
	for i, d := range details {
		rows[i] = []any{d.Title, d.DetailURL, d.PaperURL, d.Journal, d.Year, d.Issue, d.Volume, d.Pages, d.Abstract,
			d.Citations, d.Publisher, d.Authors, d.PublicationDate, d.AuthorID, d.ArticleID, int(d.Status), d.Theme, d.Language}
	}
	return rows
}

func articleRows(articles []types.ArticleRow) [][]any {
	rows := make([][]any, len(articles))
	for i, a := range articles {
		rows[i] = []any{a.ArticleID, a.Title, a.DetailURL, a.PaperURL, a.Journal, a.Year, a.Issue, a.Volume, a.Pages,
			a.Theme, a.Abstract, a.Citations, int(a.Status), a.Language, a.AuthorID}
	}
	return rows
}

func authorRows(authors []types.AuthorRow) [][]any {
	rows := make([][]any, len(authors))
	for i, a := range authors {
		rows[i] = []any{a.ArticleID, a.AuthorID, a.Rank, a.LastName, a.FirstName, a.ProfileURL}
	}
	return rows
}
