// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline drives a harvest run: for each identity it resolves the
// profile, enumerates publications, extracts and classifies each one,
// resolves the authors of retained publications, and finally merges the
// accumulated records into relational tables.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/pdiddy/scholar-harvest/internal/authors"
	"github.com/pdiddy/scholar-harvest/internal/detail"
	"github.com/pdiddy/scholar-harvest/internal/enumerate"
	"github.com/pdiddy/scholar-harvest/internal/merge"
	"github.com/pdiddy/scholar-harvest/pkg/types"
)

// ErrChallenged is returned when the source challenges author resolution.
// The run stops after the checkpoint is written.
var ErrChallenged = errors.New("bot challenge during author resolution")

// ProfileResolver resolves one identity.
type ProfileResolver interface {
	Resolve(ctx context.Context, q types.IdentityQuery) types.ResolvedProfile
}

// ArticleEnumerator lists a profile's publications.
type ArticleEnumerator interface {
	Enumerate(ctx context.Context, profileURL string) enumerate.Result
}

// DetailExtractor reads one publication's metadata page.
type DetailExtractor interface {
	Extract(ctx context.Context, s types.ArticleSummary, authorID string) detail.Result
}

// Classifier assigns a theme and language to a publication.
type Classifier interface {
	Classify(ctx context.Context, title, abstract string) types.Classification
}

// AuthorResolver resolves a publication's co-authors.
type AuthorResolver interface {
	Resolve(ctx context.Context, title, detailURL string) authors.Result
}

// Checkpointer saves the article details accumulated so far when the run has
// to stop early. It returns where the snapshot was written.
type Checkpointer func(articles []types.ArticleDetail) (string, error)

// Pipeline wires the stages of a run. All stage fields are required except
// Checkpoint, Progress, and Logger.
type Pipeline struct {
	Profiles   ProfileResolver
	Enumerator ArticleEnumerator
	Details    DetailExtractor
	Classifier Classifier
	Authors    AuthorResolver
	Checkpoint Checkpointer

	// Progress receives one human-readable line per step. Nil discards it.
	Progress io.Writer
	Logger   *slog.Logger
}

// Summary holds the counts of a run.
type Summary struct {
	Identities         int
	ProfilesFound      int
	ProfilesNotFound   int
	ProfilesChallenged int
	ProfilesFailed     int
	NotTargetRole      int
	Articles           int
	DetailsFailed      int
	Excluded           int
	Retained           int
	AuthorSearches     int
	TitlesNotFound     int
	AuthorsFailed      int
}

// Result accumulates everything a run produces. It is owned by Run and only
// appended to while the run is in progress.
type Result struct {
	// Profiles holds one entry per identity, in input order.
	Profiles []types.ResolvedProfile

	// AllArticles holds every classified publication, excluded ones included.
	AllArticles []types.ArticleDetail

	// Retained holds the publications that were not excluded.
	Retained []types.ArticleDetail

	// Authors holds the author records of every retained publication.
	Authors []types.AuthorRecord

	// Tables is the merged output; empty when the run halted.
	Tables types.Tables

	Summary Summary

	// CheckpointPath is set when a challenge halted the run.
	CheckpointPath string
}

// Run processes identities in order, one at a time. It returns ErrChallenged
// (with the partial result) when author resolution is challenged, and the
// context error if ctx is cancelled. Every other failure is recorded per
// item and the run continues.
func (p *Pipeline) Run(ctx context.Context, identities []types.IdentityQuery) (*Result, error) {
	w := p.Progress
	if w == nil {
		w = io.Discard
	}
	log := p.Logger
	if log == nil {
		log = slog.Default()
	}

	res := &Result{}
	for _, q := range identities {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := p.runIdentity(ctx, q, res, w, log); err != nil {
			return res, err
		}
	}

	res.Tables = merge.Merge(res.Retained, res.Authors)
	fmt.Fprintf(w, "merged %d articles, %d author rows\n", len(res.Tables.Articles), len(res.Tables.Authors))
	log.Info("run complete",
		"identities", res.Summary.Identities,
		"articles", res.Summary.Articles,
		"retained", res.Summary.Retained,
		"article_rows", len(res.Tables.Articles),
		"author_rows", len(res.Tables.Authors))
	return res, nil
}

func (p *Pipeline) runIdentity(ctx context.Context, q types.IdentityQuery, res *Result, w io.Writer, log *slog.Logger) error {
	res.Summary.Identities++
	fmt.Fprintf(w, "resolving %s %s (%s)\n", q.FirstName, q.LastName, q.Institution)

	prof := p.Profiles.Resolve(ctx, q)
	res.Profiles = append(res.Profiles, prof)

	switch prof.Outcome {
	case types.OutcomeFound, types.OutcomeAmbiguous:
		res.Summary.ProfilesFound++
	case types.OutcomeNotTargetRole:
		res.Summary.NotTargetRole++
	case types.OutcomeChallenged:
		res.Summary.ProfilesChallenged++
	case types.OutcomeNotFound:
		res.Summary.ProfilesNotFound++
	default:
		res.Summary.ProfilesFailed++
	}
	fmt.Fprintf(w, "  profile: %s\n", prof.Locator())
	if !prof.Outcome.Usable() {
		return nil
	}

	listing := p.Enumerator.Enumerate(ctx, prof.ProfileURL)
	if !listing.Outcome.Usable() {
		fmt.Fprintf(w, "  no articles (%s)\n", listing.Outcome)
		return nil
	}
	fmt.Fprintf(w, "  %d articles\n", len(listing.Summaries))

	for _, s := range listing.Summaries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.runArticle(ctx, s, prof.AuthorID, res, w, log); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) runArticle(ctx context.Context, s types.ArticleSummary, authorID string, res *Result, w io.Writer, log *slog.Logger) error {
	res.Summary.Articles++

	ext := p.Details.Extract(ctx, s, authorID)
	if !ext.Outcome.Usable() {
		res.Summary.DetailsFailed++
		fmt.Fprintf(w, "  skipped %q (%s)\n", s.Title, ext.Outcome)
		if ext.Err != nil {
			log.Warn("skipping article", "url", s.DetailURL, "outcome", ext.Outcome, "error", ext.Err)
		}
		return nil
	}

	d := ext.Detail
	d.Classify(p.Classifier.Classify(ctx, d.Title, d.Abstract))
	res.AllArticles = append(res.AllArticles, d)

	if types.IsExclusion(d.Theme) {
		res.Summary.Excluded++
		fmt.Fprintf(w, "  excluded %q: %s\n", d.Title, d.Theme)
		return nil
	}
	res.Summary.Retained++
	res.Retained = append(res.Retained, d)
	fmt.Fprintf(w, "  retained %q: %s\n", d.Title, d.Theme)

	res.Summary.AuthorSearches++
	found := p.Authors.Resolve(ctx, d.Title, d.DetailURL)
	switch found.Outcome {
	case types.OutcomeChallenged:
		return p.halt(res, w, log)
	case types.OutcomeFound:
		res.Authors = append(res.Authors, found.Records...)
	case types.OutcomeNotFound:
		res.Summary.TitlesNotFound++
		res.Authors = append(res.Authors, found.Records...)
	case types.OutcomeFailed:
		res.Summary.AuthorsFailed++
		log.Warn("author resolution failed", "title", d.Title, "error", found.Err)
	}
	return nil
}

// halt writes the checkpoint of every classified article and returns
// ErrChallenged.
func (p *Pipeline) halt(res *Result, w io.Writer, log *slog.Logger) error {
	log.Error("bot challenge during author resolution; halting run", "articles", len(res.AllArticles))
	if p.Checkpoint == nil {
		return ErrChallenged
	}
	path, err := p.Checkpoint(res.AllArticles)
	if err != nil {
		return fmt.Errorf("%w: writing checkpoint: %w", ErrChallenged, err)
	}
	res.CheckpointPath = path
	fmt.Fprintf(w, "challenge detected; %d articles saved to %s\n", len(res.AllArticles), path)
	return ErrChallenged
}

// Print writes the run counts to w.
func (s Summary) Print(w io.Writer) {
	fmt.Fprintf(w, "\nidentities: %d (not target role: %d)\n", s.Identities, s.NotTargetRole)
	fmt.Fprintf(w, "profiles found: %d, not found: %d, challenged: %d, failed: %d\n",
		s.ProfilesFound, s.ProfilesNotFound, s.ProfilesChallenged, s.ProfilesFailed)
	fmt.Fprintf(w, "articles: %d, details failed: %d, excluded: %d, retained: %d\n",
		s.Articles, s.DetailsFailed, s.Excluded, s.Retained)
	fmt.Fprintf(w, "author searches: %d, titles not found: %d, failed: %d\n",
		s.AuthorSearches, s.TitlesNotFound, s.AuthorsFailed)
}
