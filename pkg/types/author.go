// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// NoArticleFound is the PaperURL of the sentinel AuthorRecord emitted when a
// title search returned no result. Its presence distinguishes "searched, no
// match" from an empty list meaning "not attempted".
const NoArticleFound = "No article found"

// AuthorRecord is one co-author of a publication found by title search.
// Empty ProfileURL, AuthorID, and ArticleID mean null.
type AuthorRecord struct {
	// DetailURL is the originating metadata page, carried for joinability.
	DetailURL string `json:"detail_url" yaml:"detail_url"`

	// Title is the searched publication title.
	Title string `json:"title" yaml:"title"`

	// PaperURL is the first search result's link, or NoArticleFound.
	PaperURL string `json:"paper_url" yaml:"paper_url"`

	// Name is the author's full name as resolved from their profile, or the
	// byline text for authors without one.
	Name string `json:"name" yaml:"name"`

	ProfileURL string `json:"profile_url" yaml:"profile_url"`
	AuthorID   string `json:"author_id" yaml:"author_id"`
	ArticleID  string `json:"article_id" yaml:"article_id"`
}

// ArticleRow is a row of the merged articles table.
type ArticleRow struct {
	ArticleID string            `json:"article_id" yaml:"article_id"`
	Title     string            `json:"title" yaml:"title"`
	DetailURL string            `json:"detail_url" yaml:"detail_url"`
	PaperURL  string            `json:"paper_url" yaml:"paper_url"`
	Journal   string            `json:"journal" yaml:"journal"`
	Year      string            `json:"year" yaml:"year"`
	Issue     string            `json:"issue" yaml:"issue"`
	Volume    string            `json:"volume" yaml:"volume"`
	Pages     string            `json:"pages" yaml:"pages"`
	Theme     string            `json:"theme" yaml:"theme"`
	Abstract  string            `json:"abstract" yaml:"abstract"`
	Citations string            `json:"citations" yaml:"citations"`
	Status    PublicationStatus `json:"status" yaml:"status"`
	Language  string            `json:"language" yaml:"language"`
	AuthorID  string            `json:"author_id" yaml:"author_id"`
}

// AuthorRow is a row of the merged authors table.
type AuthorRow struct {
	ArticleID string `json:"article_id" yaml:"article_id"`
	AuthorID  string `json:"author_id" yaml:"author_id"`

	// Rank is the 1-based byline position within the article.
	Rank int `json:"rank" yaml:"rank"`

	LastName   string `json:"last_name" yaml:"last_name"`
	FirstName  string `json:"first_name" yaml:"first_name"`
	ProfileURL string `json:"profile_url" yaml:"profile_url"`
}

// Tables holds the two merged relational outputs of a run.
type Tables struct {
	Articles []ArticleRow `json:"articles" yaml:"articles"`
	Authors  []AuthorRow  `json:"authors" yaml:"authors"`
}
