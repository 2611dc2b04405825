// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// IdentityQuery identifies one researcher to look up. Supplied by the roster.
type IdentityQuery struct {
	// FirstName is the researcher's given name as listed in the roster.
	FirstName string `json:"first_name" yaml:"first_name"`

	// LastName is the researcher's family name.
	LastName string `json:"last_name" yaml:"last_name"`

	// Institution is the researcher's university or employer.
	Institution string `json:"institution" yaml:"institution"`

	// Role is the position title (e.g. "Associate Professor"). Only roles
	// containing "professor" are resolved.
	Role string `json:"role" yaml:"role"`
}

// IsTargetRole reports whether the role contains "professor" in any case.
func (q IdentityQuery) IsTargetRole() bool {
	return strings.Contains(strings.ToLower(q.Role), "professor")
}

// Sentinel texts rendered in the profile locator column when no profile URL exists.
const (
	ProfileNotFound      = "No profile found"
	ProfileChallenged    = "CAPTCHA detected"
	ProfileNotTargetRole = "Not a professor"
	ProfileSearchFailed  = "Profile search failed"
)

// ResolvedProfile is the terminal result of profile resolution for one identity.
type ResolvedProfile struct {
	// AuthorID is the source's user identifier; empty unless a profile was found.
	AuthorID string `json:"author_id" yaml:"author_id"`

	FirstName   string `json:"first_name" yaml:"first_name"`
	LastName    string `json:"last_name" yaml:"last_name"`
	Institution string `json:"institution" yaml:"institution"`

	// IsTargetRole is false only when the role filter rejected the identity.
	IsTargetRole bool `json:"is_target_role" yaml:"is_target_role"`

	// ProfileURL is the canonical profile locator; empty unless found.
	ProfileURL string `json:"profile_url" yaml:"profile_url"`

	// Outcome records how resolution ended.
	Outcome Outcome `json:"outcome" yaml:"outcome"`

	// Err describes a Failed outcome.
	Err error `json:"-" yaml:"-"`
}

// Locator renders the profile URL, or the sentinel text describing why there is none.
func (p ResolvedProfile) Locator() string {
	switch p.Outcome {
	case OutcomeFound, OutcomeAmbiguous:
		return p.ProfileURL
	case OutcomeChallenged:
		return ProfileChallenged
	case OutcomeNotTargetRole:
		return ProfileNotTargetRole
	case OutcomeNotFound:
		return ProfileNotFound
	default:
		return ProfileSearchFailed
	}
}
