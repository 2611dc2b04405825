// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package authors

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/scholar-harvest/internal/fetch/fetchtest"
	"github.com/pdiddy/scholar-harvest/internal/scholar"
	"github.com/pdiddy/scholar-harvest/pkg/types"
)

const (
	base      = "https://scholar.example"
	title     = "Sustainable Supply Chains"
	detailURL = base + "/citations?view_op=view_citation&citation_for_view=U1:p0"
)

var (
	cfg       = types.ScholarConfig{BaseURL: base}
	searchURL = scholar.NewURLs(base).ArticleSearch(title)
)

const searchPage = `<div class="gs_r"><div class="gs_ri">
<h3 class="gs_rt"><a id="A1" href="https://pub.example/ssc">Sustainable Supply Chains</a></h3>
<div class="gs_a"><a href="/citations?user=U1&hl=en">J Serpa</a>, B Jones, <a href="/citations?user=U2&hl=en">A Smith</a>, … - Management Science, 2021 - informs.org</div>
</div></div>
<div class="gs_r"><div class="gs_ri">
<h3 class="gs_rt"><a id="A2" href="https://pub.example/other">Another paper</a></h3>
<div class="gs_a"><a href="/citations?user=U9&hl=en">Z Zed</a> - Elsewhere</div>
</div></div>`

func TestResolve_BylineOrder(t *testing.T) {
	f := fetchtest.New().
		Page(searchURL, searchPage).
		Page(base+"/citations?user=U1&hl=en", `<div id="gsc_prf_in">Juan Serpa</div>`).
		Page(base+"/citations?user=U2&hl=en", `<div>profile without name</div>`)

	res := New(f, cfg, nil).Resolve(context.Background(), title, detailURL)
	require.Equal(t, types.OutcomeFound, res.Outcome)
	require.Len(t, res.Records, 3)

	serpa, jones, smith := res.Records[0], res.Records[1], res.Records[2]

	assert.Equal(t, "Juan Serpa", serpa.Name)
	assert.Equal(t, "U1", serpa.AuthorID)
	assert.Equal(t, base+"/citations?user=U1&hl=en", serpa.ProfileURL)

	assert.Equal(t, "B Jones", jones.Name)
	assert.Empty(t, jones.AuthorID)
	assert.Empty(t, jones.ProfileURL)

	assert.Equal(t, "A Smith", smith.Name, "falls back to byline name")
	assert.Equal(t, "U2", smith.AuthorID)

	for _, r := range res.Records {
		assert.Equal(t, "A1", r.ArticleID)
		assert.Equal(t, "https://pub.example/ssc", r.PaperURL)
		assert.Equal(t, detailURL, r.DetailURL)
		assert.Equal(t, title, r.Title)
	}
	assert.NotContains(t, f.Calls(), base+"/citations?user=U9&hl=en", "only the first result is used")
}

func TestResolve_NoResults(t *testing.T) {
	f := fetchtest.New().Page(searchURL, `<div id="gs_res_ccl_mid"></div>`)

	res := New(f, cfg, nil).Resolve(context.Background(), title, detailURL)
	assert.Equal(t, types.OutcomeNotFound, res.Outcome)
	require.Len(t, res.Records, 1)

	rec := res.Records[0]
	assert.Equal(t, types.NoArticleFound, rec.PaperURL)
	assert.Empty(t, rec.Name)
	assert.Empty(t, rec.ProfileURL)
	assert.Empty(t, rec.AuthorID)
	assert.Empty(t, rec.ArticleID)
}

func TestResolve_EmptyTitleSkipsWithoutFetching(t *testing.T) {
	for _, tt := range []string{"", "   ", "\t\n"} {
		f := fetchtest.New()
		res := New(f, cfg, nil).Resolve(context.Background(), tt, detailURL)
		assert.Equal(t, types.OutcomeSkipped, res.Outcome)
		assert.Nil(t, res.Records)
		assert.Empty(t, f.Calls())
	}
}

func TestResolve_NotAvailableTitleSkips(t *testing.T) {
	for _, tt := range []string{types.NotAvailable, "  N/A "} {
		f := fetchtest.New()
		res := New(f, cfg, nil).Resolve(context.Background(), tt, detailURL)
		assert.Equal(t, types.OutcomeSkipped, res.Outcome)
		assert.Empty(t, f.Calls())
	}
}

func TestResolve_HyphenatedNamesKeepTheirCoauthors(t *testing.T) {
	page := `<div class="gs_r"><div class="gs_ri">
<h3 class="gs_rt"><a id="A1" href="https://pub.example/ssc">Sustainable Supply Chains</a></h3>
<div class="gs_a">Y Cohen-Charash, B Jones, C Smith - Journal of Things, 2020 - pub.example</div>
</div></div>`
	f := fetchtest.New().Page(searchURL, page)

	res := New(f, cfg, nil).Resolve(context.Background(), title, detailURL)
	require.Equal(t, types.OutcomeFound, res.Outcome)
	require.Len(t, res.Records, 3)
	assert.Equal(t, "Y Cohen-Charash", res.Records[0].Name)
	assert.Equal(t, "B Jones", res.Records[1].Name)
	assert.Equal(t, "C Smith", res.Records[2].Name)
}

func TestResolve_ChallengeOnSearch(t *testing.T) {
	f := fetchtest.New().Challenge(searchURL)

	res := New(f, cfg, nil).Resolve(context.Background(), title, detailURL)
	assert.Equal(t, types.OutcomeChallenged, res.Outcome)
	assert.Empty(t, res.Records)
}

func TestResolve_ChallengeOnAuthorProfile(t *testing.T) {
	f := fetchtest.New().
		Page(searchURL, searchPage).
		Challenge(base + "/citations?user=U1&hl=en")

	res := New(f, cfg, nil).Resolve(context.Background(), title, detailURL)
	assert.Equal(t, types.OutcomeChallenged, res.Outcome)
}

func TestResolve_ProfileLoadFailureFallsBack(t *testing.T) {
	f := fetchtest.New().
		Page(searchURL, searchPage).
		Fail(base+"/citations?user=U1&hl=en", errors.New("timeout")).
		Page(base+"/citations?user=U2&hl=en", `<div id="gsc_prf_in">Alice Smith</div>`)

	res := New(f, cfg, nil).Resolve(context.Background(), title, detailURL)
	require.Equal(t, types.OutcomeFound, res.Outcome)
	assert.Equal(t, "J Serpa", res.Records[0].Name)
	assert.Equal(t, "U1", res.Records[0].AuthorID)
	assert.Equal(t, "Alice Smith", res.Records[2].Name)
}

func TestResolve_SearchLoadFailure(t *testing.T) {
	f := fetchtest.New().Fail(searchURL, errors.New("timeout"))

	res := New(f, cfg, nil).Resolve(context.Background(), title, detailURL)
	assert.Equal(t, types.OutcomeFailed, res.Outcome)
	assert.Error(t, res.Err)
}

func TestBylineNames(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"J Serpa, B Jones - Management Science, 2021", []string{"J Serpa", "B Jones"}},
		{"A Smith, … - Journal", []string{"A Smith"}},
		{"Solo Author", []string{"Solo Author"}},
		{" - Nothing", nil},
		{"Y Cohen-Charash, B Jones - J, 2020", []string{"Y Cohen-Charash", "B Jones"}},
		{"Y Cohen-Charash, B Jones, C Smith\u00a0- Journal of Things, 2020\u00a0- pub.example",
			[]string{"Y Cohen-Charash", "B Jones", "C Smith"}},
		{"A Smith-Jones", []string{"A Smith-Jones"}},
		{"A Smith -Jones, B Lee - Venue", []string{"A Smith -Jones", "B Lee"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, bylineNames(tt.in), tt.in)
	}
}

func TestOrdered_UnmatchedLinkedAuthorsAppended(t *testing.T) {
	base := types.AuthorRecord{ArticleID: "A1"}
	links := []*linked{
		{name: "Q Unknown", record: types.AuthorRecord{Name: "Quinn Unknown", AuthorID: "U7", ArticleID: "A1"}},
	}

	got := ordered([]string{"B Jones"}, links, base)
	require.Len(t, got, 2)
	assert.Equal(t, "B Jones", got[0].Name)
	assert.Equal(t, "U7", got[1].AuthorID)
}
