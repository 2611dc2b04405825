// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the scholar-harvest pipeline:
// identity queries and resolved profiles, article summaries and details,
// classification results, author records, and the merged relational rows.
package types

// Outcome is the closed set of results a pipeline stage can report for one
// item. Stages never signal control flow through sentinel strings; output
// columns render an Outcome into text only at the edge.
type Outcome int

const (
	// OutcomeFound means the stage produced a structured result.
	OutcomeFound Outcome = iota
	// OutcomeAmbiguous means several candidates matched and the first was taken.
	OutcomeAmbiguous
	// OutcomeNotFound means the source had no match for the query.
	OutcomeNotFound
	// OutcomeChallenged means the source served a bot-challenge page.
	OutcomeChallenged
	// OutcomeFailed means page loads were exhausted or extraction errored.
	OutcomeFailed
	// OutcomeSkipped means the stage declined to run (e.g. empty title).
	OutcomeSkipped
	// OutcomeNotTargetRole means the identity was filtered out by role.
	OutcomeNotTargetRole
)

var outcomeNames = [...]string{
	OutcomeFound:         "found",
	OutcomeAmbiguous:     "ambiguous",
	OutcomeNotFound:      "not_found",
	OutcomeChallenged:    "challenged",
	OutcomeFailed:        "failed",
	OutcomeSkipped:       "skipped",
	OutcomeNotTargetRole: "not_target_role",
}

// String returns the snake_case name of the outcome.
func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return "unknown"
	}
	return outcomeNames[o]
}

// Usable reports whether the outcome carries a structured result the next
// stage can consume.
func (o Outcome) Usable() bool {
	return o == OutcomeFound || o == OutcomeAmbiguous
}

// MarshalText renders the outcome by name in JSON and YAML output.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}
