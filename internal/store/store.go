// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store records harvest runs in a SQLite database: one row per run,
// the resolved profiles, and the merged article and author tables.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/scholar-harvest/pkg/types"
)

// ErrRunNotFound is returned when a run id is not in the database.
var ErrRunNotFound = errors.New("run not found")

// Run statuses.
const (
	StatusCompleted  = "completed"
	StatusChallenged = "challenged"
)

// Store manages the run database.
type Store struct {
	db *sql.DB
}

// Run is one harvest run to record.
type Run struct {
	// ID is the run identifier; empty assigns a new UUID.
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Status     string
	Profiles   []types.ResolvedProfile
	Tables     types.Tables
}

// RunInfo summarizes a recorded run.
type RunInfo struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Status     string
	Profiles   int
	Articles   int
	Authors    int
}

// Open opens or creates the database at path and creates the schema if it
// does not exist.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id          TEXT PRIMARY KEY,
			started_at  TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			status      TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS profiles (
			run_id         TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position       INTEGER NOT NULL,
			author_id      TEXT,
			first_name     TEXT,
			last_name      TEXT,
			institution    TEXT,
			is_target_role INTEGER NOT NULL,
			locator        TEXT,
			outcome        TEXT NOT NULL,
			PRIMARY KEY (run_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS articles (
			run_id     TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position   INTEGER NOT NULL,
			article_id TEXT,
			title      TEXT,
			detail_url TEXT,
			paper_url  TEXT,
			journal    TEXT,
			year       TEXT,
			issue      TEXT,
			volume     TEXT,
			pages      TEXT,
			theme      TEXT,
			abstract   TEXT,
			citations  TEXT,
			status     INTEGER NOT NULL,
			language   TEXT,
			author_id  TEXT,
			PRIMARY KEY (run_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS authors (
			run_id      TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position    INTEGER NOT NULL,
			article_id  TEXT,
			author_id   TEXT,
			rank        INTEGER NOT NULL,
			last_name   TEXT,
			first_name  TEXT,
			profile_url TEXT,
			PRIMARY KEY (run_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_article ON articles(article_id)`,
		`CREATE INDEX IF NOT EXISTS idx_authors_author ON authors(author_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveRun records run in a single transaction and returns its id.
func (s *Store) SaveRun(ctx context.Context, run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.Status == "" {
		run.Status = StatusCompleted
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, finished_at, status) VALUES (?, ?, ?, ?)`,
		run.ID, formatTime(run.StartedAt), formatTime(run.FinishedAt), run.Status,
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	for i, p := range run.Profiles {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO profiles (run_id, position, author_id, first_name, last_name, institution, is_target_role, locator, outcome)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, i, p.AuthorID, p.FirstName, p.LastName, p.Institution, p.IsTargetRole, p.Locator(), p.Outcome.String(),
		)
		if err != nil {
			return "", fmt.Errorf("inserting profile %d: %w", i, err)
		}
	}

	for i, a := range run.Tables.Articles {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO articles (run_id, position, article_id, title, detail_url, paper_url, journal, year, issue, volume,
				pages, theme, abstract, citations, status, language, author_id)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, i, a.ArticleID, a.Title, a.DetailURL, a.PaperURL, a.Journal, a.Year, a.Issue, a.Volume,
			a.Pages, a.Theme, a.Abstract, a.Citations, int(a.Status), a.Language, a.AuthorID,
		)
		if err != nil {
			return "", fmt.Errorf("inserting article %s: %w", a.ArticleID, err)
		}
	}

	for i, a := range run.Tables.Authors {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO authors (run_id, position, article_id, author_id, rank, last_name, first_name, profile_url)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, i, a.ArticleID, a.AuthorID, a.Rank, a.LastName, a.FirstName, a.ProfileURL,
		)
		if err != nil {
			return "", fmt.Errorf("inserting author %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return run.ID, nil
}

// Runs lists recorded runs, most recent first.
func (s *Store) Runs(ctx context.Context) ([]RunInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.started_at, r.finished_at, r.status,
			(SELECT COUNT(*) FROM profiles p WHERE p.run_id = r.id),
			(SELECT COUNT(*) FROM articles a WHERE a.run_id = r.id),
			(SELECT COUNT(*) FROM authors u WHERE u.run_id = r.id)
		 FROM runs r ORDER BY r.started_at DESC, r.id`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var (
			info              RunInfo
			started, finished string
		)
		if err := rows.Scan(&info.ID, &started, &finished, &info.Status, &info.Profiles, &info.Articles, &info.Authors); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		info.StartedAt = parseTime(started)
		info.FinishedAt = parseTime(finished)
		runs = append(runs, info)
	}
	return runs, rows.Err()
}

// Tables reads back the merged tables of a run, in their recorded order.
func (s *Store) Tables(ctx context.Context, runID string) (types.Tables, error) {
	var tables types.Tables

	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE id = ?`, runID).Scan(&exists)
	if err != nil {
		return tables, fmt.Errorf("looking up run: %w", err)
	}
	if exists == 0 {
		return tables, fmt.Errorf("%s: %w", runID, ErrRunNotFound)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT article_id, title, detail_url, paper_url, journal, year, issue, volume,
			pages, theme, abstract, citations, status, language, author_id
		 FROM articles WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return tables, fmt.Errorf("querying articles: %w", err)
	}
	for rows.Next() {
		var (
			a      types.ArticleRow
			status int
		)
		if err := rows.Scan(&a.ArticleID, &a.Title, &a.DetailURL, &a.PaperURL, &a.Journal, &a.Year, &a.Issue, &a.Volume,
			&a.Pages, &a.Theme, &a.Abstract, &a.Citations, &status, &a.Language, &a.AuthorID); err != nil {
			rows.Close()
			return tables, fmt.Errorf("scanning article: %w", err)
		}
		a.Status = types.PublicationStatus(status)
		tables.Articles = append(tables.Articles, a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return tables, err
	}

	rows, err = s.db.QueryContext(ctx,
		`SELECT article_id, author_id, rank, last_name, first_name, profile_url
		 FROM authors WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return tables, fmt.Errorf("querying authors: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var a types.AuthorRow
		if err := rows.Scan(&a.ArticleID, &a.AuthorID, &a.Rank, &a.LastName, &a.FirstName, &a.ProfileURL); err != nil {
			return tables, fmt.Errorf("scanning author: %w", err)
		}
		tables.Authors = append(tables.Authors, a)
	}
	return tables, rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
