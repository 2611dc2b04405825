// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package detail reads a publication's metadata page into an ArticleDetail.
package detail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/scholar-harvest/internal/fetch"
	"github.com/pdiddy/scholar-harvest/internal/httputil"
	"github.com/pdiddy/scholar-harvest/internal/scholar"
	"github.com/pdiddy/scholar-harvest/pkg/types"
)

// Labels of the metadata fields read from the detail page.
const (
	labelJournal         = "Journal"
	labelIssue           = "Issue"
	labelVolume          = "Volume"
	labelPages           = "Pages"
	labelDescription     = "Description"
	labelPublisher       = "Publisher"
	labelAuthors         = "Authors"
	labelPublicationDate = "Publication date"
)

// Result is the outcome of extracting one publication.
type Result struct {
	Outcome types.Outcome
	Detail  types.ArticleDetail
	Err     error
}

// Extractor loads and reads detail pages.
type Extractor struct {
	fetcher fetch.Fetcher
	urls    scholar.URLs
	policy  types.RetryPolicy
	logger  *slog.Logger
}

// New returns an Extractor. A nil logger uses slog.Default().
func New(f fetch.Fetcher, cfg types.ScholarConfig, logger *slog.Logger) *Extractor {
	cfg = cfg.WithDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		fetcher: f,
		urls:    scholar.NewURLs(cfg.BaseURL),
		policy:  cfg.PageLoad,
		logger:  logger.With("stage", "detail"),
	}
}

// Extract reads the metadata page for s. The year comes from the summary and
// authorID from profile resolution; neither is re-derived from the page.
func (e *Extractor) Extract(ctx context.Context, s types.ArticleSummary, authorID string) Result {
	log := e.logger.With("url", s.DetailURL)

	doc, res := e.load(ctx, s.DetailURL, log)
	if doc == nil {
		return res
	}

	d := types.ArticleDetail{
		Title:           title(doc),
		DetailURL:       s.DetailURL,
		PaperURL:        types.NotAvailable,
		Journal:         field(doc, labelJournal),
		Year:            s.Year,
		Issue:           field(doc, labelIssue),
		Volume:          field(doc, labelVolume),
		Pages:           field(doc, labelPages),
		Abstract:        field(doc, labelDescription),
		Citations:       types.NotAvailable,
		Publisher:       field(doc, labelPublisher),
		Authors:         field(doc, labelAuthors),
		PublicationDate: field(doc, labelPublicationDate),
		AuthorID:        authorID,
	}

	if href, ok := doc.Find(".gsc_oci_merged_snippet a").First().Attr("href"); ok {
		d.PaperURL = e.urls.Resolve(href)
	}
	if n, ok := scholar.CitationCount(doc); ok {
		d.Citations = n
	}

	d.ArticleID = e.articleID(ctx, doc, s.DetailURL, log)
	d.Status = types.DeriveStatus(d.Journal, d.Abstract, d.Publisher)

	log.Debug("extracted article", "title", d.Title, "article_id", d.ArticleID, "status", d.Status)
	return Result{Outcome: types.OutcomeFound, Detail: d}
}

// load fetches and parses the detail page. A nil document means the returned
// Result is terminal.
func (e *Extractor) load(ctx context.Context, locator string, log *slog.Logger) (*goquery.Document, Result) {
	page, err := fetch.Load(ctx, e.fetcher, locator, e.policy, log)
	if err != nil {
		log.Warn("detail page failed", "error", err)
		return nil, Result{Outcome: types.OutcomeFailed, Err: err}
	}
	if page.Challenge {
		log.Warn("bot challenge on detail page")
		return nil, Result{Outcome: types.OutcomeChallenged}
	}
	doc, err := scholar.Parse(page.Content)
	if err != nil {
		return nil, Result{Outcome: types.OutcomeFailed, Err: fmt.Errorf("detail %s: %w", locator, err)}
	}
	return doc, Result{}
}

// articleID reads the related-articles identifier. A malformed link is
// retried against a fresh copy of the page; a page without the link, or one
// still malformed after every attempt, yields "".
func (e *Extractor) articleID(ctx context.Context, doc *goquery.Document, locator string, log *slog.Logger) string {
	var id string
	err := httputil.Retry(ctx, e.policy, func(attempt int) error {
		if attempt > 1 {
			page, err := e.fetcher.Fetch(ctx, locator)
			if err != nil {
				return err
			}
			if doc, err = scholar.Parse(page.Content); err != nil {
				return err
			}
		}
		href, ok := scholar.RelatedLink(doc)
		if !ok {
			return nil
		}
		parsed, err := scholar.RelatedArticleID(href)
		if err != nil {
			log.Debug("related link unreadable", "attempt", attempt, "error", err)
			return err
		}
		id = parsed
		return nil
	})
	if err != nil {
		log.Warn("article id unavailable", "error", err)
		return ""
	}
	return id
}

func title(doc *goquery.Document) string {
	if link := doc.Find("a.gsc_oci_title_link").First(); link.Length() > 0 {
		return scholar.Text(link)
	}
	if box := doc.Find("#gsc_oci_title").First(); box.Length() > 0 {
		return scholar.Text(box)
	}
	return types.NotAvailable
}

func field(doc *goquery.Document, label string) string {
	v, ok := scholar.LabelValue(doc, label)
	if !ok {
		return types.NotAvailable
	}
	return v
}
