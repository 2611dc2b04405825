// Package fetchtest provides an in-memory Fetcher for stage tests.
package fetchtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/pdiddy/scholar-harvest/internal/fetch"
)

// Fetcher serves canned pages keyed by exact locator and records every
// request. Unknown locators fail with an error.
type Fetcher struct {
	mu     sync.Mutex
	pages  map[string]fetch.Page
	errs   map[string]error
	called []string
}

// New returns an empty Fetcher.
func New() *Fetcher {
	return &Fetcher{
		pages: make(map[string]fetch.Page),
		errs:  make(map[string]error),
	}
}

// Page registers content for locator.
func (f *Fetcher) Page(locator, content string) *Fetcher {
	f.pages[locator] = fetch.Page{URL: locator, Content: content, Challenge: fetch.IsChallenge(content)}
	return f
}

// Challenge registers a bot-challenge page for locator.
func (f *Fetcher) Challenge(locator string) *Fetcher {
	f.pages[locator] = fetch.Page{URL: locator, Content: `<form id="captcha-form"></form>`, Challenge: true}
	return f
}

// Fail makes every request for locator return err.
func (f *Fetcher) Fail(locator string, err error) *Fetcher {
	f.errs[locator] = err
	return f
}

// Fetch implements fetch.Fetcher.
func (f *Fetcher) Fetch(_ context.Context, locator string) (fetch.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.called = append(f.called, locator)
	if err, ok := f.errs[locator]; ok {
		return fetch.Page{}, err
	}
	p, ok := f.pages[locator]
	if !ok {
		return fetch.Page{}, fmt.Errorf("no page registered for %s", locator)
	}
	return p, nil
}

// Calls returns the locators requested so far, in order.
func (f *Fetcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.called...)
}
