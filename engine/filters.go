package engine

import (
	"fmt"
	"strings"
)

// ============================================================================
// FILTERS — Ordered predicate pipeline via RecordView
// ============================================================================
// Single pass over the input. Each record is tested against the active
// predicates in a fixed order:
//   category → employer → location → status → wage band →
//   date lower bound → date upper bound → free text
// Inactive predicates are skipped. Returns a SubView (fresh index list).
// ============================================================================

type predicate func(r Record) bool

// Apply returns a view of records matching every active filter dimension.
// The input view is never modified; the returned view owns a new index slice.
func Apply(view RecordView, state FilterState, opts ...Option) (RecordView, Diagnostics) {
	return applyFilters(view, state, applyOptions(opts))
}

func applyFilters(view RecordView, state FilterState, cfg *config) (RecordView, Diagnostics) {
	var diag Diagnostics
	st := buildStages(view, state, cfg, &diag)

	n := view.Len()
	indices := make([]int, 0, n)

	for i := 0; i < n; i++ {
		r := view.At(i)
		if !all(st.head, r) {
			continue
		}
		if len(st.dates) > 0 {
			if _, ok := ParseDate(r.DatePosted); !ok {
				// Cannot be compared against a bound; report it if
				// nothing else would have removed it.
				if all(st.tail, r) {
					diag.Skipped = append(diag.Skipped, r.ID)
				}
				continue
			}
			if !all(st.dates, r) {
				continue
			}
		}
		if !all(st.tail, r) {
			continue
		}
		indices = append(indices, i)
	}
	diag.Skipped = appendUnique(nil, diag.Skipped...)

	cfg.Logger.Debug().
		Int("in", n).
		Int("out", len(indices)).
		Int("predicates", len(st.head)+len(st.dates)+len(st.tail)).
		Msg("filters applied")

	return newSubView(view, indices), diag
}

// stages splits the canonical predicate order around the date bounds:
// head (category, inclusion sets, wage) → dates → tail (free text).
type stages struct {
	head  []predicate
	dates []predicate
	tail  []predicate
}

func all(preds []predicate, r Record) bool {
	for _, p := range preds {
		if !p(r) {
			return false
		}
	}
	return true
}

// buildStages returns the active predicates in canonical order.
func buildStages(view RecordView, state FilterState, cfg *config, diag *Diagnostics) stages {
	var st stages

	if state.Category != "" {
		cat := state.Category
		st.head = append(st.head, func(r Record) bool { return r.Category == cat })
	}

	scoped := map[Field][]string{}
	if state.Employers != nil || state.Locations != nil || state.Statuses != nil {
		scoped = availableByField(view, state.Category, FieldEmployer, FieldLocation, FieldStatus)
	}
	for _, inc := range []struct {
		field Field
		set   *InclusionSet
	}{
		{FieldEmployer, state.Employers},
		{FieldLocation, state.Locations},
		{FieldStatus, state.Statuses},
	} {
		if inc.set == nil || inc.set.covers(scoped[inc.field]) {
			continue
		}
		field, set := inc.field, inc.set
		st.head = append(st.head, func(r Record) bool { return set.Contains(field.Value(r)) })
	}

	if state.Wage != "" {
		if rule, ok := LookupWageBand(cfg.WageBands, state.Wage); ok {
			st.head = append(st.head, func(r Record) bool { return rule.Matches(r.Wage) })
		} else {
			diag.Warnings = append(diag.Warnings, fmt.Sprintf("unknown wage band %q ignored", state.Wage))
			cfg.Logger.Warn().Str("band", string(state.Wage)).Msg("unknown wage band; no wage restriction applied")
		}
	}

	// ISO dates order correctly as strings. Compare the same trimmed form
	// ParseDate accepts.
	if from := strings.TrimSpace(state.DateFrom); from != "" {
		st.dates = append(st.dates, func(r Record) bool { return postedOn(r) >= from })
	}
	if to := strings.TrimSpace(state.DateTo); to != "" {
		st.dates = append(st.dates, func(r Record) bool { return postedOn(r) <= to })
	}

	if q := trimmedQuery(state.Query); q != "" {
		q = strings.ToLower(q)
		st.tail = append(st.tail, func(r Record) bool {
			return strings.Contains(strings.ToLower(r.Title), q) ||
				strings.Contains(strings.ToLower(r.Employer), q) ||
				strings.Contains(strings.ToLower(r.Location), q)
		})
	}

	return st
}

// AvailableValues returns the distinct values of field among records in
// category (all records when category is empty), in first-seen order.
// This is the option list a host shows under the active category, and the
// reference set for the "full set means no restriction" rule.
func AvailableValues(view RecordView, category string, field Field) []string {
	return availableByField(view, category, field)[field]
}

func availableByField(view RecordView, category string, fields ...Field) map[Field][]string {
	out := make(map[Field][]string, len(fields))
	seen := make(map[Field]map[string]bool, len(fields))
	for _, f := range fields {
		seen[f] = make(map[string]bool)
	}
	for i := 0; i < view.Len(); i++ {
		r := view.At(i)
		if category != "" && r.Category != category {
			continue
		}
		for _, f := range fields {
			v := f.Value(r)
			if !seen[f][v] {
				seen[f][v] = true
				out[f] = append(out[f], v)
			}
		}
	}
	return out
}

func trimmedQuery(q string) string { return strings.TrimSpace(q) }

func postedOn(r Record) string { return strings.TrimSpace(r.DatePosted) }
