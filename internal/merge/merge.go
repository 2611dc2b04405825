// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package merge reconciles article details with independently resolved
// author records into the two relational output tables.
package merge

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/scholar-harvest/pkg/types"
)

// key is the composite join key of an article and one of its authors.
type key struct {
	articleID string
	authorID  string
}

// authorKey is the projected identity of an author row.
type authorKey struct {
	articleID string
	authorID  string
	name      string
}

// Merge keeps the articles whose (ArticleID, AuthorID) pair was confirmed by
// author resolution, then the authors of those articles. An article shared by
// several researchers is resolved once per researcher; only the author group
// of the first DetailURL seen for an ArticleID is kept. Duplicates are dropped
// on both sides, authors by (ArticleID, AuthorID, Name); first occurrence wins.
// Empty identifiers never join. Merge is pure: the same input always yields
// the same tables.
func Merge(articles []types.ArticleDetail, authors []types.AuthorRecord) types.Tables {
	confirmed := make(map[key]bool)
	for _, a := range authors {
		if a.ArticleID != "" && a.AuthorID != "" {
			confirmed[key{a.ArticleID, a.AuthorID}] = true
		}
	}

	var tables types.Tables
	surviving := make(map[string]bool)
	seenArticle := make(map[types.ArticleDetail]bool)
	for _, d := range articles {
		if !confirmed[key{d.ArticleID, d.AuthorID}] || seenArticle[d] {
			continue
		}
		seenArticle[d] = true
		surviving[d.ArticleID] = true
		tables.Articles = append(tables.Articles, articleRow(d))
	}

	group := make(map[string]string)
	rank := make(map[string]int)
	seenAuthor := make(map[authorKey]bool)
	for _, a := range authors {
		if !surviving[a.ArticleID] {
			continue
		}
		first, ok := group[a.ArticleID]
		if !ok {
			group[a.ArticleID] = a.DetailURL
		} else if first != a.DetailURL {
			continue
		}
		k := authorKey{a.ArticleID, a.AuthorID, a.Name}
		if seenAuthor[k] {
			continue
		}
		seenAuthor[k] = true
		rank[a.ArticleID]++
		firstName, last := SplitName(a.Name)
		tables.Authors = append(tables.Authors, types.AuthorRow{
			ArticleID:  a.ArticleID,
			AuthorID:   a.AuthorID,
			Rank:       rank[a.ArticleID],
			LastName:   last,
			FirstName:  firstName,
			ProfileURL: a.ProfileURL,
		})
	}
	return tables
}

func articleRow(d types.ArticleDetail) types.ArticleRow {
	return types.ArticleRow{
		ArticleID: d.ArticleID,
		Title:     d.Title,
		DetailURL: d.DetailURL,
		PaperURL:  d.PaperURL,
		Journal:   d.Journal,
		Year:      d.Year,
		Issue:     d.Issue,
		Volume:    d.Volume,
		Pages:     d.Pages,
		Theme:     d.Theme,
		Abstract:  d.Abstract,
		Citations: d.Citations,
		Status:    d.Status,
		Language:  d.Language,
		AuthorID:  d.AuthorID,
	}
}

// SplitName splits a full name on whitespace: the last token is the surname
// and the rest the given names. Each part has its first letter upper-cased.
func SplitName(name string) (first, last string) {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "", ""
	}
	last = capitalize(fields[len(fields)-1])
	first = capitalize(strings.Join(fields[:len(fields)-1], " "))
	return first, last
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
