// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves rendered pages from the bibliographic source and
// flags bot-challenge interstitials. Stages depend on the Fetcher interface;
// retries are owned by callers through Load.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pdiddy/scholar-harvest/internal/httputil"
	"github.com/pdiddy/scholar-harvest/pkg/types"
)

// maxBodyBytes bounds a single page read.
const maxBodyBytes = 8 << 20

// challengeMarkers are substrings that only occur on the source's
// automated-access interstitials.
var challengeMarkers = []string{
	"captcha-form",
	"gs_captcha_ccl",
	"recaptcha/api.js",
}

// Page is a loaded document.
type Page struct {
	// URL is the locator that was requested.
	URL string

	// Content is the page markup.
	Content string

	// Challenge is true when the page is a bot-challenge interstitial.
	Challenge bool
}

// Fetcher loads one page. Implementations report transport failures as
// errors and challenge pages as Page.Challenge, never both.
type Fetcher interface {
	Fetch(ctx context.Context, locator string) (Page, error)
}

// IsChallenge reports whether content contains a bot-challenge marker.
func IsChallenge(content string) bool {
	for _, m := range challengeMarkers {
		if strings.Contains(content, m) {
			return true
		}
	}
	return false
}

// HTTPFetcher loads pages with a plain HTTP client.
type HTTPFetcher struct {
	Client    *http.Client
	UserAgent string
}

// NewHTTPFetcher returns a fetcher configured from cfg.
func NewHTTPFetcher(cfg types.HTTPConfig) *HTTPFetcher {
	return &HTTPFetcher{
		Client:    &http.Client{Timeout: cfg.Timeout},
		UserAgent: cfg.UserAgent,
	}
}

// Fetch issues a GET for locator. A 429 response or a body carrying a
// challenge marker yields Challenge=true; other non-200 statuses are errors.
func (f *HTTPFetcher) Fetch(ctx context.Context, locator string) (Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return Page{}, fmt.Errorf("creating request: %w", err)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("loading %s: %w", locator, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Page{}, fmt.Errorf("reading %s: %w", locator, err)
	}
	content := string(body)

	if resp.StatusCode == http.StatusTooManyRequests || IsChallenge(content) {
		return Page{URL: locator, Content: content, Challenge: true}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return Page{}, fmt.Errorf("loading %s: HTTP %d", locator, resp.StatusCode)
	}

	return Page{URL: locator, Content: content}, nil
}

// ErrLoadFailed is returned by Load when every attempt failed.
var ErrLoadFailed = errors.New("page load failed")

// Load fetches locator under the fixed retry policy. A challenge page ends
// the loop immediately and is returned without error; the caller decides
// how severe it is.
func Load(ctx context.Context, f Fetcher, locator string, policy types.RetryPolicy, logger *slog.Logger) (Page, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var page Page
	err := httputil.Retry(ctx, policy, func(attempt int) error {
		p, err := f.Fetch(ctx, locator)
		if err != nil {
			logger.Warn("page load failed", "url", locator, "attempt", attempt, "error", err)
			return err
		}
		logger.Debug("page loaded", "url", locator, "attempt", attempt)
		page = p
		return nil
	})
	if err != nil {
		return Page{}, fmt.Errorf("%w: %s: %w", ErrLoadFailed, locator, err)
	}
	return page, nil
}
