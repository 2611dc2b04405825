// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scholar

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrMalformedRelated is returned when a related-articles href lacks the
// related:<id>: form.
var ErrMalformedRelated = errors.New("malformed related-articles link")

var (
	citedByRe = regexp.MustCompile(`Cited by (\d+)`)
	relatedRe = regexp.MustCompile(`related:([^:]+):`)
	spaceRe   = regexp.MustCompile(`\s+`)
)

// Parse builds a queryable document from page content.
func Parse(content string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}
	return doc, nil
}

// Text returns the trimmed, whitespace-collapsed text of a selection.
func Text(s *goquery.Selection) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s.Text(), " "))
}

// LabelValue finds the detail field whose label equals label (case-insensitive)
// and returns the text of its next-sibling value element. found is false when
// no such label exists. A label without a value element yields "".
func LabelValue(doc *goquery.Document, label string) (value string, found bool) {
	doc.Find("div.gsc_oci_field").EachWithBreak(func(_ int, field *goquery.Selection) bool {
		if !strings.EqualFold(Text(field), label) {
			return true
		}
		found = true
		value = Text(field.NextFiltered("div.gsc_oci_value"))
		return false
	})
	return value, found
}

// CitationCount reads the count from the first link whose href contains
// "cites=". ok is false when there is no such link or its text has no count.
func CitationCount(doc *goquery.Document) (count string, ok bool) {
	link := doc.Find(`a[href*="cites="]`).First()
	if link.Length() == 0 {
		return "", false
	}
	m := citedByRe.FindStringSubmatch(link.Text())
	if m == nil {
		return "", false
	}
	return m[1], true
}

// RelatedLink returns the href of the first "related articles" link.
// ok is false when the page has none.
func RelatedLink(doc *goquery.Document) (href string, ok bool) {
	doc.Find("a.gsc_oms_link").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(a.Text()), "related") {
			return true
		}
		href, _ = a.Attr("href")
		ok = true
		return false
	})
	return href, ok
}

// RelatedArticleID extracts the cluster identifier from a related-articles href.
func RelatedArticleID(href string) (string, error) {
	m := relatedRe.FindStringSubmatch(href)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrMalformedRelated, href)
	}
	return m[1], nil
}
