package engine

import (
	"fmt"
	"strings"
)

// ============================================================================
// TEXT BUILDER — One-line answers for a snapshot
// ============================================================================

// TextData is structured data for a short textual summary.
type TextData struct {
	Value    string `json:"value"`
	Count    int    `json:"count"`
	Period   string `json:"period"`
	Wage     string `json:"wage"`
	TopTerms string `json:"topTerms,omitempty"`
}

// BuildText summarizes a snapshot. currency prefixes wage amounts.
func BuildText(snap *Snapshot, currency string) *TextData {
	if snap == nil || snap.Stats.Total == 0 {
		return &TextData{
			Value:  "No postings match the current filters.",
			Period: "No data",
			Wage:   FormatWage(0, currency),
		}
	}

	s := snap.Stats
	value := fmt.Sprintf("%s postings from %s employers",
		FormatInt(s.Total), FormatInt(s.DistinctEmployers))

	wage := FormatWage(s.AverageWage, currency)
	if s.WithWage > 0 {
		wage = fmt.Sprintf("%s average over %s listed (%s–%s)",
			wage, FormatInt(s.WithWage),
			FormatWage(s.MinWage, currency), FormatWage(s.MaxWage, currency))
	}

	terms := make([]string, 0, 3)
	for i, p := range snap.Phrases {
		if i == 3 {
			break
		}
		terms = append(terms, p.Text)
	}

	return &TextData{
		Value:    value,
		Count:    s.Total,
		Period:   DerivePeriod(snap.View),
		Wage:     wage,
		TopTerms: strings.Join(terms, ", "),
	}
}

// ============================================================================
// PERIOD HELPER
// ============================================================================

// DerivePeriod builds a human-readable posting-date range from a view.
// Unparseable dates are ignored.
func DerivePeriod(view RecordView) string {
	if view == nil || view.Len() == 0 {
		return "No data"
	}

	var earliest, latest string
	for i := 0; i < view.Len(); i++ {
		d := postedOn(view.At(i))
		if _, ok := ParseDate(d); !ok {
			continue
		}
		if earliest == "" || d < earliest {
			earliest = d
		}
		if latest == "" || d > latest {
			latest = d
		}
	}

	switch {
	case earliest == "":
		return "Undated"
	case earliest == latest:
		return earliest
	default:
		return fmt.Sprintf("%s – %s", earliest, latest)
	}
}
