// Package resolver decides, from the accumulated record alone, what the
// conversation should do next: ask one specific field, offer the optional
// features prompt, or declare the record complete.
package resolver

import (
	"github.com/amlakhub/listingbot/internal/listing"
	"github.com/amlakhub/listingbot/internal/taxonomy"
)

// Kind tags the resolver's verdict.
type Kind string

const (
	// Ask carries the single next field to collect.
	Ask Kind = "ask"
	// Complete means every required field is present (and the optional
	// features prompt has been offered); show the confirmation summary.
	Complete Kind = "complete"
)

// Action is the resolver's output for one turn.
type Action struct {
	Kind     Kind
	Field    listing.Field
	Question string
	Keyboard [][]string
}

// Next scans the fixed field order and returns the first required field
// whose value is absent. It is a pure function of the record: calling it
// twice on an unchanged record yields the same action, and it never trusts
// stale pending-field markers.
func Next(r *listing.Record) Action {
	for _, d := range taxonomy.Ordered() {
		if !d.Required(r) || d.Present(r) {
			continue
		}
		return Action{
			Kind:     Ask,
			Field:    d.Name,
			Question: d.QuestionFor(r),
			Keyboard: d.Keyboard,
		}
	}

	// All required fields satisfied: offer the optional features prompt
	// exactly once. The asked-flag, not the value, gates this — «ندارد»
	// is a real answer with an empty value.
	if f := taxonomy.Features(); !f.Present(r) {
		return Action{
			Kind:     Ask,
			Field:    f.Name,
			Question: f.QuestionFor(r),
			Keyboard: f.Keyboard,
		}
	}

	return Action{Kind: Complete}
}
