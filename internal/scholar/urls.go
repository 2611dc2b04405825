// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scholar knows the bibliographic source's URL shapes and the
// structural lookups the pipeline stages run against its pages: elements by
// tag and class, labelled fields whose value is the next sibling, and regular
// expressions over link text and hrefs.
package scholar

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ErrMissingUserParam is returned when a profile link has no user parameter.
var ErrMissingUserParam = errors.New("profile link has no user parameter")

// URLs builds locators relative to the source's origin.
type URLs struct {
	Base string
}

// NewURLs returns a builder for base, trimming any trailing slash.
func NewURLs(base string) URLs {
	return URLs{Base: strings.TrimRight(base, "/")}
}

// AuthorSearch returns the author search page for query.
func (u URLs) AuthorSearch(query string) string {
	return u.Base + "/citations?hl=en&view_op=search_authors&mauthors=" + url.QueryEscape(query)
}

// ArticleSearch returns the full-text search page for a publication title.
func (u URLs) ArticleSearch(title string) string {
	return u.Base + "/scholar?hl=en&as_sdt=0,5&q=" + url.QueryEscape(title) + "&btnG="
}

// ProfilePage returns profileURL with the listing window set to start at
// cstart and hold pageSize rows.
func (u URLs) ProfilePage(profileURL string, cstart, pageSize int) (string, error) {
	parsed, err := url.Parse(u.Resolve(profileURL))
	if err != nil {
		return "", fmt.Errorf("parsing profile url %q: %w", profileURL, err)
	}
	q := parsed.Query()
	q.Set("cstart", strconv.Itoa(cstart))
	q.Set("pagesize", strconv.Itoa(pageSize))
	parsed.RawQuery = q.Encode()
	return parsed.String(), nil
}

// Resolve makes href absolute against the base. Absolute hrefs are returned
// unchanged.
func (u URLs) Resolve(href string) string {
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil || ref.IsAbs() {
		return href
	}
	base, err := url.Parse(u.Base + "/")
	if err != nil {
		return u.Base + href
	}
	return base.ResolveReference(ref).String()
}

// UserParam extracts the user identifier from a profile href.
func UserParam(href string) (string, error) {
	parsed, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("parsing profile href %q: %w", href, err)
	}
	user := parsed.Query().Get("user")
	if user == "" {
		return "", fmt.Errorf("%w: %q", ErrMissingUserParam, href)
	}
	return user, nil
}
