// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package authors resolves the co-authors of a publication by searching the
// source for its title and reading the first result's byline.
package authors

import (
	"context"
	"log/slog"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/scholar-harvest/internal/fetch"
	"github.com/pdiddy/scholar-harvest/internal/scholar"
	"github.com/pdiddy/scholar-harvest/pkg/types"
)

// ellipsis is the byline token the source uses for truncated author lists.
const ellipsis = "…"

// Result is the outcome of resolving one publication's authors.
type Result struct {
	Outcome types.Outcome
	Records []types.AuthorRecord
	Err     error
}

// Resolver searches titles and visits linked author profiles.
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
		logger:  logger.With("stage", "authors"),
	}
}

// linked is a byline author with a profile link.
type linked struct {
	name   string
	record types.AuthorRecord
	used   bool
}

// Resolve searches for title and returns its authors in byline order.
// detailURL is carried into every record for joining and is not fetched.
// An empty title, or the N/A placeholder, is Skipped without a search.
func (r *Resolver) Resolve(ctx context.Context, title, detailURL string) Result {
	query := strings.Join(strings.Fields(title), " ")
	if query == "" || query == types.NotAvailable {
		return Result{Outcome: types.OutcomeSkipped}
	}
	log := r.logger.With("title", query)

	doc, res := r.load(ctx, r.urls.ArticleSearch(query), log)
	if doc == nil {
		return res
	}

	heading := doc.Find("h3.gs_rt").First()
	if heading.Length() == 0 {
		log.Info("no search result for title")
		return Result{
			Outcome: types.OutcomeNotFound,
			Records: []types.AuthorRecord{{
				DetailURL: detailURL,
				Title:     title,
				PaperURL:  types.NoArticleFound,
			}},
		}
	}

	base := types.AuthorRecord{DetailURL: detailURL, Title: title}
	if link := heading.Find("a").First(); link.Length() > 0 {
		base.ArticleID, _ = link.Attr("id")
		base.PaperURL, _ = link.Attr("href")
	}

	byline := heading.NextAllFiltered("div.gs_a").First()
	if byline.Length() == 0 {
		byline = doc.Find("div.gs_a").First()
	}

	var links []*linked
	var challenged bool
	byline.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		l, ok := r.profile(ctx, a, base, log)
		if !ok {
			challenged = true
			return false
		}
		if l != nil {
			links = append(links, l)
		}
		return true
	})
	if challenged {
		return Result{Outcome: types.OutcomeChallenged}
	}

	records := ordered(bylineNames(byline.Text()), links, base)
	log.Info("resolved authors", "article_id", base.ArticleID, "authors", len(records))
	return Result{Outcome: types.OutcomeFound, Records: records}
}

// load fetches and parses a page. A nil document means the returned Result
// is terminal.
func (r *Resolver) load(ctx context.Context, locator string, log *slog.Logger) (*goquery.Document, Result) {
	page, err := fetch.Load(ctx, r.fetcher, locator, r.policy, log)
	if err != nil {
		log.Warn("title search failed", "error", err)
		return nil, Result{Outcome: types.OutcomeFailed, Err: err}
	}
	if page.Challenge {
		log.Warn("bot challenge on title search", "url", locator)
		return nil, Result{Outcome: types.OutcomeChallenged}
	}
	doc, err := scholar.Parse(page.Content)
	if err != nil {
		return nil, Result{Outcome: types.OutcomeFailed, Err: err}
	}
	return doc, Result{}
}

// profile resolves one byline link. It returns (nil, true) for links that
// are not author profiles and (nil, false) when the profile page is a bot
// challenge.
func (r *Resolver) profile(ctx context.Context, a *goquery.Selection, base types.AuthorRecord, log *slog.Logger) (*linked, bool) {
	href, _ := a.Attr("href")
	authorID, err := scholar.UserParam(href)
	if err != nil {
		log.Debug("byline link is not a profile", "href", href)
		return nil, true
	}

	name := scholar.Text(a)
	rec := base
	rec.Name = name
	rec.ProfileURL = r.urls.Resolve(href)
	rec.AuthorID = authorID

	page, err := fetch.Load(ctx, r.fetcher, rec.ProfileURL, r.policy, log)
	switch {
	case err != nil:
		log.Warn("author profile unavailable; using byline name", "author_id", authorID, "error", err)
	case page.Challenge:
		log.Warn("bot challenge on author profile", "author_id", authorID)
		return nil, false
	default:
		if doc, err := scholar.Parse(page.Content); err == nil {
			if full := scholar.Text(doc.Find("#gsc_prf_in").First()); full != "" {
				rec.Name = full
			}
		}
	}
	return &linked{name: name, record: rec}, true
}

// bylineNames returns the author tokens of a byline: the text before the
// venue separator split on commas.
func bylineNames(text string) []string {
	var names []string
	for _, tok := range strings.Split(authorPart(text), ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" || tok == ellipsis || tok == "..." {
			continue
		}
		names = append(names, tok)
	}
	return names
}

// authorPart returns the byline text before the venue separator, a '-' with
// whitespace on both sides. Hyphens inside names do not end the author list.
func authorPart(text string) string {
	runes := []rune(text)
	for i, r := range runes {
		if r != '-' {
			continue
		}
		if i > 0 && !unicode.IsSpace(runes[i-1]) {
			continue
		}
		if i == len(runes)-1 || unicode.IsSpace(runes[i+1]) {
			return string(runes[:i])
		}
	}
	return text
}

// ordered emits records in byline order. A token equal to a linked author's
// byline name takes that author's record; other tokens become name-only
// records. Linked authors matched by no token follow at the end.
func ordered(names []string, links []*linked, base types.AuthorRecord) []types.AuthorRecord {
	var out []types.AuthorRecord
	for _, name := range names {
		if l := claim(links, name); l != nil {
			out = append(out, l.record)
			continue
		}
		rec := base
		rec.Name = name
		out = append(out, rec)
	}
	for _, l := range links {
		if !l.used {
			out = append(out, l.record)
		}
	}
	return out
}

func claim(links []*linked, name string) *linked {
	for _, l := range links {
		if !l.used && l.name == name {
			l.used = true
			return l
		}
	}
	return nil
}
