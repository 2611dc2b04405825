// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// Exclusion sentinels. A theme beginning with "exclude" in any case means the
// article is out of scope and does not proceed to author resolution.
const (
	ExcludeNotSustainability = "Exclude: Not a sustainability paper"
	ExcludeInsufficientData  = "Exclude: Not sufficient data"
	ExcludeParseError        = "Exclude: Error parsing response"
	ExcludeOracleError       = "Exclude: Error calling OpenAI API"
)

// LanguageNotDetected is the language the oracle reports when it cannot tell.
const LanguageNotDetected = "Language not detected"

// Unclassified is reported for both fields when no oracle is configured.
const Unclassified = "Not classified"

// Classification is the oracle's verdict on one article.
type Classification struct {
	// Theme is a vocabulary member or an exclusion sentinel.
	Theme string `json:"theme" yaml:"theme"`

	// Language is the detected natural language of title and abstract, or the
	// error text when the oracle failed.
	Language string `json:"language" yaml:"language"`
}

// Excluded reports whether the theme is an exclusion.
func (c Classification) Excluded() bool {
	return IsExclusion(c.Theme)
}

// IsExclusion reports whether theme starts with "exclude", ignoring case.
func IsExclusion(theme string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(theme)), "exclude")
}
