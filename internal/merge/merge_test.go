// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/scholar-harvest/pkg/types"
)

func article(articleID, authorID, title string) types.ArticleDetail {
	return types.ArticleDetail{
		Title:     title,
		ArticleID: articleID,
		AuthorID:  authorID,
		Journal:   "Management Science",
		Theme:     "Green Logistics",
		Language:  "English",
		Status:    types.StatusPublished,
	}
}

func author(articleID, authorID, name string) types.AuthorRecord {
	return types.AuthorRecord{ArticleID: articleID, AuthorID: authorID, Name: name}
}

func TestMerge_ConfirmedOwnerKeepsArticleAndCoauthors(t *testing.T) {
	articles := []types.ArticleDetail{article("A1", "U1", "Sustainable Supply Chains")}
	authors := []types.AuthorRecord{
		author("A1", "U1", "juan serpa"),
		author("A1", "U2", "Alice Smith"),
	}

	got := Merge(articles, authors)
	require.Len(t, got.Articles, 1)
	assert.Equal(t, "A1", got.Articles[0].ArticleID)
	assert.Equal(t, "Sustainable Supply Chains", got.Articles[0].Title)
	assert.Equal(t, "Green Logistics", got.Articles[0].Theme)

	require.Len(t, got.Authors, 2)
	assert.Equal(t, types.AuthorRow{ArticleID: "A1", AuthorID: "U1", Rank: 1, LastName: "Serpa", FirstName: "Juan"}, got.Authors[0])
	assert.Equal(t, types.AuthorRow{ArticleID: "A1", AuthorID: "U2", Rank: 2, LastName: "Smith", FirstName: "Alice"}, got.Authors[1])
}

func TestMerge_UnconfirmedOwnerDropsArticle(t *testing.T) {
	articles := []types.ArticleDetail{
		article("A1", "U1", "kept"),
		article("A2", "U1", "owner not credited"),
		article("", "U1", "no article id"),
	}
	authors := []types.AuthorRecord{
		author("A1", "U1", "Juan Serpa"),
		author("A2", "U5", "Someone Else"),
		author("", "U1", "Juan Serpa"),
		author("A3", "U1", "Orphan Author"),
	}

	got := Merge(articles, authors)
	require.Len(t, got.Articles, 1)
	assert.Equal(t, "kept", got.Articles[0].Title)
	require.Len(t, got.Authors, 1)
	assert.Equal(t, "A1", got.Authors[0].ArticleID)
}

func TestMerge_DropsExactDuplicates(t *testing.T) {
	a := article("A1", "U1", "T")
	articles := []types.ArticleDetail{a, a, a}
	authors := []types.AuthorRecord{
		author("A1", "U1", "Juan Serpa"),
		author("A1", "U1", "Juan Serpa"),
		author("A1", "", "B Jones"),
		author("A1", "", "B Jones"),
	}

	got := Merge(articles, authors)
	assert.Len(t, got.Articles, 1)
	require.Len(t, got.Authors, 2)
	assert.Equal(t, 1, got.Authors[0].Rank)
	assert.Equal(t, 2, got.Authors[1].Rank)
	assert.Equal(t, "Jones", got.Authors[1].LastName)
	assert.Empty(t, got.Authors[1].AuthorID)
}

func TestMerge_SharedArticleKeepsFirstAuthorGroup(t *testing.T) {
	articles := []types.ArticleDetail{
		article("A1", "U1", "Shared Paper"),
		article("A1", "U2", "Shared Paper"),
	}
	group := func(detailURL string) []types.AuthorRecord {
		u1, u2 := author("A1", "U1", "Juan Serpa"), author("A1", "U2", "Alice Smith")
		u1.DetailURL, u2.DetailURL = detailURL, detailURL
		return []types.AuthorRecord{u1, u2}
	}
	authors := append(group("d1"), group("d2")...)

	got := Merge(articles, authors)
	assert.Len(t, got.Articles, 2)
	require.Len(t, got.Authors, 2)
	assert.Equal(t, "U1", got.Authors[0].AuthorID)
	assert.Equal(t, 1, got.Authors[0].Rank)
	assert.Equal(t, "U2", got.Authors[1].AuthorID)
	assert.Equal(t, 2, got.Authors[1].Rank)
}

func TestMerge_RankIsScopedPerArticle(t *testing.T) {
	articles := []types.ArticleDetail{article("A1", "U1", "one"), article("A2", "U1", "two")}
	authors := []types.AuthorRecord{
		author("A1", "U1", "Juan Serpa"),
		author("A2", "U3", "Cara Diaz"),
		author("A1", "U2", "Alice Smith"),
		author("A2", "U1", "Juan Serpa"),
	}

	got := Merge(articles, authors)
	require.Len(t, got.Authors, 4)
	ranks := map[string]int{}
	for _, r := range got.Authors {
		ranks[r.ArticleID+"/"+r.AuthorID] = r.Rank
	}
	assert.Equal(t, map[string]int{"A1/U1": 1, "A2/U3": 1, "A1/U2": 2, "A2/U1": 2}, ranks)
}

func TestMerge_Idempotent(t *testing.T) {
	articles := []types.ArticleDetail{article("A1", "U1", "T"), article("A1", "U1", "T"), article("A2", "U9", "x")}
	authors := []types.AuthorRecord{author("A1", "U1", "Juan Serpa"), author("A1", "U2", "Alice Smith"), author("A1", "U2", "Alice Smith")}

	first := Merge(articles, authors)
	second := Merge(articles, authors)
	assert.Equal(t, first, second)
	assert.ElementsMatch(t, first.Authors, second.Authors)
}

func TestMerge_Empty(t *testing.T) {
	got := Merge(nil, nil)
	assert.Empty(t, got.Articles)
	assert.Empty(t, got.Authors)
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		in, first, last string
	}{
		{"Juan Serpa", "Juan", "Serpa"},
		{"juan carlos serpa", "Juan carlos", "Serpa"},
		{"Madonna", "", "Madonna"},
		{"  ", "", ""},
		{"élodie dupont", "Élodie", "Dupont"},
		{"Ian McGill", "Ian", "McGill"},
	}
	for _, tt := range tests {
		first, last := SplitName(tt.in)
		assert.Equal(t, tt.first, first, tt.in)
		assert.Equal(t, tt.last, last, tt.in)
	}
}
