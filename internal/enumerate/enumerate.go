// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package enumerate lists the publications on a researcher's profile page.
package enumerate

import (
	"context"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/scholar-harvest/internal/fetch"
	"github.com/pdiddy/scholar-harvest/internal/scholar"
	"github.com/pdiddy/scholar-harvest/pkg/types"
)

// Result is the outcome of enumerating one profile.
type Result struct {
	Outcome   types.Outcome
	Summaries []types.ArticleSummary
	Err       error
}

// Enumerator pages through a profile listing.
type Enumerator struct {
	fetcher     fetch.Fetcher
	urls        scholar.URLs
	policy      types.RetryPolicy
	maxArticles int
	pageSize    int
	logger      *slog.Logger
}

// New returns an Enumerator. A nil logger uses slog.Default().
func New(f fetch.Fetcher, cfg types.ScholarConfig, logger *slog.Logger) *Enumerator {
	cfg = cfg.WithDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Enumerator{
		fetcher:     f,
		urls:        scholar.NewURLs(cfg.BaseURL),
		policy:      cfg.PageLoad,
		maxArticles: cfg.MaxArticles,
		pageSize:    cfg.PageSize,
		logger:      logger.With("stage", "enumerate"),
	}
}

// Enumerate returns up to the configured maximum of summaries from
// profileURL in source order. Each listing window is loaded while the
// "show more" affordance is present and enabled.
func (e *Enumerator) Enumerate(ctx context.Context, profileURL string) Result {
	log := e.logger.With("profile", profileURL)
	var summaries []types.ArticleSummary

	for cstart := 0; len(summaries) < e.maxArticles; {
		locator, err := e.urls.ProfilePage(profileURL, cstart, e.pageSize)
		if err != nil {
			return Result{Outcome: types.OutcomeFailed, Err: err}
		}

		page, err := fetch.Load(ctx, e.fetcher, locator, e.policy, log)
		if err != nil {
			if cstart == 0 {
				log.Warn("profile listing failed", "error", err)
				return Result{Outcome: types.OutcomeFailed, Err: err}
			}
			log.Warn("stopping pagination after load failure", "cstart", cstart, "error", err)
			break
		}
		if page.Challenge {
			log.Warn("bot challenge on profile listing", "cstart", cstart)
			return Result{Outcome: types.OutcomeChallenged}
		}

		doc, err := scholar.Parse(page.Content)
		if err != nil {
			return Result{Outcome: types.OutcomeFailed, Err: err}
		}

		rows := doc.Find("tr.gsc_a_tr")
		summaries = append(summaries, e.summaries(profileURL, rows)...)
		log.Debug("listing window read", "cstart", cstart, "rows", rows.Length(), "total", len(summaries))

		if rows.Length() == 0 || !hasMore(doc) {
			break
		}
		cstart += rows.Length()
	}

	if len(summaries) > e.maxArticles {
		summaries = summaries[:e.maxArticles]
	}
	log.Info("enumerated profile", "articles", len(summaries))

	if len(summaries) == 0 {
		return Result{Outcome: types.OutcomeNotFound}
	}
	return Result{Outcome: types.OutcomeFound, Summaries: summaries}
}

func (e *Enumerator) summaries(profileURL string, rows *goquery.Selection) []types.ArticleSummary {
	var out []types.ArticleSummary
	rows.Each(func(_ int, row *goquery.Selection) {
		link := row.Find("a.gsc_a_at").First()
		title := scholar.Text(link)
		if link.Length() == 0 || title == "" {
			return
		}
		href, _ := link.Attr("href")

		year := types.YearNotAvailable
		if y := scholar.Text(row.Find("span.gsc_a_h").First()); y != "" {
			year = y
		}

		out = append(out, types.ArticleSummary{
			ProfileURL: profileURL,
			Title:      title,
			DetailURL:  e.urls.Resolve(href),
			Year:       year,
		})
	})
	return out
}

// hasMore reports whether the "show more" affordance is present, enabled,
// and visible.
func hasMore(doc *goquery.Document) bool {
	btn := doc.Find("#gsc_bpf_more")
	if btn.Length() == 0 {
		return false
	}
	if _, disabled := btn.Attr("disabled"); disabled {
		return false
	}
	if _, hidden := btn.Attr("hidden"); hidden {
		return false
	}
	style, _ := btn.Attr("style")
	return !strings.Contains(strings.ReplaceAll(style, " ", ""), "display:none")
}
