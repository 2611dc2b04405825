// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package profile turns an identity query into a canonical profile locator
// on the bibliographic source.
package profile

import (
	"context"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/scholar-harvest/internal/fetch"
	"github.com/pdiddy/scholar-harvest/internal/scholar"
	"github.com/pdiddy/scholar-harvest/pkg/types"
)

// Resolver looks researchers up through the source's author search.
type Resolver struct {
	fetcher fetch.Fetcher
	urls    scholar.URLs
	policy  types.RetryPolicy
	logger  *slog.Logger
}

// New returns a Resolver. A nil logger uses slog.Default().
func New(f fetch.Fetcher, cfg types.ScholarConfig, logger *slog.Logger) *Resolver {
	cfg = cfg.WithDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		fetcher: f,
		urls:    scholar.NewURLs(cfg.BaseURL),
		policy:  cfg.PageLoad,
		logger:  logger.With("stage", "profile"),
	}
}

// Resolve returns the terminal resolution result for q. Identities outside
// the target role are rejected without touching the network.
func (r *Resolver) Resolve(ctx context.Context, q types.IdentityQuery) types.ResolvedProfile {
	res := types.ResolvedProfile{
		FirstName:    q.FirstName,
		LastName:     q.LastName,
		Institution:  q.Institution,
		IsTargetRole: true,
	}
	log := r.logger.With("first_name", q.FirstName, "last_name", q.LastName)

	if !q.IsTargetRole() {
		res.IsTargetRole = false
		res.Outcome = types.OutcomeNotTargetRole
		log.Debug("skipping identity outside target role", "role", q.Role)
		return res
	}

	query := strings.Join([]string{
		normalize(q.FirstName),
		normalize(q.LastName),
		normalize(q.Institution),
	}, " ")
	locator := r.urls.AuthorSearch(query)

	page, err := fetch.Load(ctx, r.fetcher, locator, r.policy, log)
	if err != nil {
		res.Outcome = types.OutcomeFailed
		res.Err = err
		log.Warn("author search failed", "error", err)
		return res
	}
	if page.Challenge {
		res.Outcome = types.OutcomeChallenged
		log.Warn("bot challenge on author search", "url", locator)
		return res
	}

	doc, err := scholar.Parse(page.Content)
	if err != nil {
		res.Outcome = types.OutcomeFailed
		res.Err = err
		return res
	}

	links := doc.Find("a.gs_ai_pho")
	switch links.Length() {
	case 0:
		res.Outcome = types.OutcomeNotFound
		log.Info("no profile found")
		return res
	case 1:
		res.Outcome = types.OutcomeFound
	default:
		res.Outcome = types.OutcomeAmbiguous
		log.Warn("several profiles matched; taking the first", "matches", links.Length())
	}

	return r.fromLink(res, links.First(), log)
}

func (r *Resolver) fromLink(res types.ResolvedProfile, link *goquery.Selection, log *slog.Logger) types.ResolvedProfile {
	href, _ := link.Attr("href")
	authorID, err := scholar.UserParam(href)
	if err != nil {
		res.Outcome = types.OutcomeFailed
		res.Err = err
		log.Error("profile link violates source contract", "href", href, "error", err)
		return res
	}
	res.AuthorID = authorID
	res.ProfileURL = r.urls.Resolve(href)
	log.Info("resolved profile", "author_id", authorID, "url", res.ProfileURL)
	return res
}

// normalize drops apostrophes, turns hyphens into spaces, and then removes
// all spaces so the token survives as a single search term.
func normalize(s string) string {
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, "-", " ")
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "")
}
