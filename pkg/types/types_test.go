// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name      string
		journal   string
		abstract  string
		publisher string
		want      PublicationStatus
	}{
		{name: "plain journal article", journal: "Management Science", abstract: "We study inventory.", publisher: "INFORMS", want: StatusPublished},
		{name: "ssrn in journal any case", journal: "SSRN Electronic Journal", want: StatusWorkingPaper},
		{name: "working paper in abstract", abstract: "This Working Paper examines supply chains.", want: StatusWorkingPaper},
		{name: "revision in publisher", publisher: "Under Revision Press", want: StatusWorkingPaper},
		{name: "review substring matches", journal: "Harvard Business Review", want: StatusWorkingPaper},
		{name: "missing labels", journal: NotAvailable, abstract: NotAvailable, publisher: NotAvailable, want: StatusPublished},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.journal, tt.abstract, tt.publisher))
		})
	}
}

func TestIsExclusion(t *testing.T) {
	assert.True(t, IsExclusion(ExcludeNotSustainability))
	assert.True(t, IsExclusion(ExcludeInsufficientData))
	assert.True(t, IsExclusion(ExcludeParseError))
	assert.True(t, IsExclusion(ExcludeOracleError))
	assert.True(t, IsExclusion("  EXCLUDE: whatever"))
	assert.False(t, IsExclusion("Green Logistics"))
	assert.False(t, IsExclusion(Unclassified))
	assert.False(t, Classification{Theme: "Circular Economy"}.Excluded())
}

func TestIdentityQueryIsTargetRole(t *testing.T) {
	assert.True(t, IdentityQuery{Role: "Associate Professor"}.IsTargetRole())
	assert.True(t, IdentityQuery{Role: "PROFESSOR emeritus"}.IsTargetRole())
	assert.False(t, IdentityQuery{Role: "Lecturer"}.IsTargetRole())
	assert.False(t, IdentityQuery{}.IsTargetRole())
}

func TestResolvedProfileLocator(t *testing.T) {
	url := "https://scholar.google.com/citations?user=abc"
	assert.Equal(t, url, ResolvedProfile{Outcome: OutcomeFound, ProfileURL: url}.Locator())
	assert.Equal(t, url, ResolvedProfile{Outcome: OutcomeAmbiguous, ProfileURL: url}.Locator())
	assert.Equal(t, ProfileNotFound, ResolvedProfile{Outcome: OutcomeNotFound}.Locator())
	assert.Equal(t, ProfileChallenged, ResolvedProfile{Outcome: OutcomeChallenged}.Locator())
	assert.Equal(t, ProfileNotTargetRole, ResolvedProfile{Outcome: OutcomeNotTargetRole}.Locator())
	assert.Equal(t, ProfileSearchFailed, ResolvedProfile{Outcome: OutcomeFailed}.Locator())
}

func TestOutcomeMarshalText(t *testing.T) {
	data, err := json.Marshal(struct {
		O Outcome `json:"o"`
	}{O: OutcomeChallenged})
	require.NoError(t, err)
	assert.JSONEq(t, `{"o":"challenged"}`, string(data))
	assert.Equal(t, "unknown", Outcome(42).String())
}

func TestScholarConfigWithDefaults(t *testing.T) {
	cfg := ScholarConfig{}.WithDefaults()
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultPageAttempts, cfg.PageLoad.Attempts)
	assert.Equal(t, DefaultMaxArticles, cfg.MaxArticles)
	assert.Zero(t, cfg.PageLoad.Delay)

	custom := ScholarConfig{BaseURL: "http://local", MaxArticles: 5}.WithDefaults()
	assert.Equal(t, "http://local", custom.BaseURL)
	assert.Equal(t, 5, custom.MaxArticles)
}
