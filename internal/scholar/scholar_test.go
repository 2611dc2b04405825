// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scholar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLs(t *testing.T) {
	u := NewURLs("https://scholar.example/")

	assert.Equal(t,
		"https://scholar.example/citations?hl=en&view_op=search_authors&mauthors=Jane+Doe+MIT",
		u.AuthorSearch("Jane Doe MIT"))
	assert.Equal(t,
		"https://scholar.example/scholar?hl=en&as_sdt=0,5&q=Sustainable+Supply+Chains&btnG=",
		u.ArticleSearch("Sustainable Supply Chains"))
	assert.Equal(t,
		"https://scholar.example/citations?user=abc&hl=en",
		u.Resolve("/citations?user=abc&hl=en"))
	assert.Equal(t, "https://other.example/x", u.Resolve("https://other.example/x"))
	assert.Empty(t, u.Resolve(""))
}

func TestProfilePage(t *testing.T) {
	u := NewURLs("https://scholar.example")
	got, err := u.ProfilePage("/citations?user=abc&hl=en", 100, 100)
	require.NoError(t, err)
	assert.Equal(t, "https://scholar.example/citations?cstart=100&hl=en&pagesize=100&user=abc", got)
}

func TestUserParam(t *testing.T) {
	id, err := UserParam("/citations?hl=en&user=Xy_12AAAAJ")
	require.NoError(t, err)
	assert.Equal(t, "Xy_12AAAAJ", id)

	_, err = UserParam("/citations?hl=en")
	assert.ErrorIs(t, err, ErrMissingUserParam)
}

const detailFixture = `<html><body>
<div id="gsc_oci_title"><a class="gsc_oci_title_link" href="https://pub.example/p">Sustainable Supply Chains</a></div>
<div class="gs_scl"><div class="gsc_oci_field">Journal</div><div class="gsc_oci_value">Journal of Operations</div></div>
<div class="gs_scl"><div class="gsc_oci_field">Issue</div><div class="gsc_oci_value"></div></div>
<div class="gs_scl"><div class="gsc_oci_field">Pages</div></div>
<div class="gs_scl"><div class="gsc_oci_field">Total citations</div><div class="gsc_oci_value"><a href="/scholar?cites=123">Cited by 42</a></div></div>
<a class="gsc_oms_link" href="/scholar?q=related:AbC-9xYz:scholar.example/">Related articles</a>
</body></html>`

func TestLabelValue(t *testing.T) {
	doc, err := Parse(detailFixture)
	require.NoError(t, err)

	tests := []struct {
		label     string
		wantValue string
		wantFound bool
	}{
		{"Journal", "Journal of Operations", true},
		{"journal", "Journal of Operations", true},
		{"Issue", "", true},
		{"Pages", "", true},
		{"Volume", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			v, found := LabelValue(doc, tt.label)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.wantValue, v)
		})
	}
}

func TestCitationCount(t *testing.T) {
	doc, err := Parse(detailFixture)
	require.NoError(t, err)
	n, ok := CitationCount(doc)
	assert.True(t, ok)
	assert.Equal(t, "42", n)

	empty, err := Parse(`<a href="/scholar?cites=1">All versions</a>`)
	require.NoError(t, err)
	_, ok = CitationCount(empty)
	assert.False(t, ok)
}

func TestRelatedArticleID(t *testing.T) {
	doc, err := Parse(detailFixture)
	require.NoError(t, err)

	href, ok := RelatedLink(doc)
	require.True(t, ok)
	id, err := RelatedArticleID(href)
	require.NoError(t, err)
	assert.Equal(t, "AbC-9xYz", id)

	_, err = RelatedArticleID("/scholar?q=something")
	assert.ErrorIs(t, err, ErrMalformedRelated)

	none, err := Parse(`<a class="gsc_oms_link" href="/x">All versions</a>`)
	require.NoError(t, err)
	_, ok = RelatedLink(none)
	assert.False(t, ok)
}
