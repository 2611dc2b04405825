// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// NotAvailable marks a detail field whose label is absent from the page.
const NotAvailable = "N/A"

// YearNotAvailable marks a profile row without a publication year.
const YearNotAvailable = "Year not available"

// ArticleSummary is one row of a researcher's profile listing.
type ArticleSummary struct {
	// ProfileURL is the listing the row was read from.
	ProfileURL string `json:"profile_url" yaml:"profile_url"`

	// Title is the row's title text.
	Title string `json:"title" yaml:"title"`

	// DetailURL is the absolute locator of the publication's metadata page.
	DetailURL string `json:"detail_url" yaml:"detail_url"`

	// Year is the raw year cell; carried into ArticleDetail unchanged.
	Year string `json:"year" yaml:"year"`
}

// PublicationStatus is the provisional status derived from lexical heuristics.
type PublicationStatus int

const (
	StatusWorkingPaper PublicationStatus = 0
	StatusPublished    PublicationStatus = 1
)

// workingPaperKeywords mark a record as a working paper when found in the
// journal name, abstract, or publisher.
var workingPaperKeywords = []string{"ssrn", "working paper", "revision", "review"}

// DeriveStatus returns StatusWorkingPaper if any working-paper keyword occurs
// case-insensitively in journal, abstract, or publisher.
func DeriveStatus(journal, abstract, publisher string) PublicationStatus {
	fields := []string{
		strings.ToLower(journal),
		strings.ToLower(abstract),
		strings.ToLower(publisher),
	}
	for _, kw := range workingPaperKeywords {
		for _, f := range fields {
			if strings.Contains(f, kw) {
				return StatusWorkingPaper
			}
		}
	}
	return StatusPublished
}

// ArticleDetail is the full metadata record for one publication.
// String fields hold NotAvailable when their label is missing from the page
// and "" when the label is present with an empty value.
type ArticleDetail struct {
	Title string `json:"title" yaml:"title"`

	// DetailURL is the metadata page the record was read from.
	DetailURL string `json:"detail_url" yaml:"detail_url"`

	// PaperURL is the canonical link to the publication itself.
	PaperURL string `json:"paper_url" yaml:"paper_url"`

	Journal         string `json:"journal" yaml:"journal"`
	Year            string `json:"year" yaml:"year"`
	Issue           string `json:"issue" yaml:"issue"`
	Volume          string `json:"volume" yaml:"volume"`
	Pages           string `json:"pages" yaml:"pages"`
	Abstract        string `json:"abstract" yaml:"abstract"`
	Citations       string `json:"citations" yaml:"citations"`
	Publisher       string `json:"publisher" yaml:"publisher"`
	Authors         string `json:"authors" yaml:"authors"`
	PublicationDate string `json:"publication_date" yaml:"publication_date"`

	// AuthorID is the profile owner's identifier, carried over from resolution.
	AuthorID string `json:"author_id" yaml:"author_id"`

	// ArticleID is read from the "related articles" link. It is a weak key:
	// empty when the page does not expose it and not guaranteed unique.
	ArticleID string `json:"article_id" yaml:"article_id"`

	Status PublicationStatus `json:"status" yaml:"status"`

	// Theme and Language are attached by classification.
	Theme    string `json:"theme" yaml:"theme"`
	Language string `json:"language" yaml:"language"`
}

// Classify attaches a classification result to the record.
func (d *ArticleDetail) Classify(c Classification) {
	d.Theme = c.Theme
	d.Language = c.Language
}
