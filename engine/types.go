package engine

import "math"

// ============================================================================
// JOBSIFT ENGINE TYPES — Job-Posting Records, Filter State, Derived Results
// ============================================================================
// Everything here is plain data. The engine reads Records through a
// RecordView and returns freshly allocated result values; nothing it returns
// aliases caller state.
// ============================================================================

// ============================================================================
// RECORD — One job posting
// ============================================================================

// Record is a single job posting. Records are immutable once loaded.
//
// Wage <= 0 means "not listed". DatePosted is kept verbatim so malformed
// values can be reported rather than silently coerced.
type Record struct {
	ID                   string  `json:"id"`
	Title                string  `json:"title"`
	Employer             string  `json:"employer"`
	Location             string  `json:"location"`
	DatePosted           string  `json:"datePosted"`
	Status               string  `json:"status"`
	Wage                 float64 `json:"wage,omitempty"`
	Category             string  `json:"category"`
	SourceOccupationCode string  `json:"sourceOccupationCode,omitempty"`
	PostingURL           string  `json:"postingUrl,omitempty"`
}

// HasWage reports whether the posting lists a wage.
func (r Record) HasWage() bool { return listedWage(r.Wage) }

// listedWage is false for zero, negative, and non-finite amounts.
func listedWage(w float64) bool { return w > 0 && !math.IsInf(w, 1) }

// Field names a categorical or text column of a Record.
type Field string

const (
	FieldTitle                Field = "title"
	FieldEmployer             Field = "employer"
	FieldLocation             Field = "location"
	FieldStatus               Field = "status"
	FieldCategory             Field = "category"
	FieldSourceOccupationCode Field = "sourceOccupationCode"
)

// Fields lists every Field in display order.
var Fields = []Field{
	FieldTitle, FieldEmployer, FieldLocation, FieldStatus, FieldCategory, FieldSourceOccupationCode,
}

// Value returns the field's value on r, or "" for an unknown field.
func (f Field) Value(r Record) string {
	switch f {
	case FieldTitle:
		return r.Title
	case FieldEmployer:
		return r.Employer
	case FieldLocation:
		return r.Location
	case FieldStatus:
		return r.Status
	case FieldCategory:
		return r.Category
	case FieldSourceOccupationCode:
		return r.SourceOccupationCode
	default:
		return ""
	}
}

// Valid reports whether f is a known field.
func (f Field) Valid() bool {
	for _, k := range Fields {
		if k == f {
			return true
		}
	}
	return false
}

// ============================================================================
// FILTER STATE — Criteria currently applied
// ============================================================================

// FilterState holds every filter dimension. The zero value restricts nothing.
//
// Inclusion sets: nil means no restriction. A non-nil set equal to the full
// set of distinct values in the category-scoped data also means no
// restriction. A non-nil empty set excludes everything.
type FilterState struct {
	Category  string        `json:"category,omitempty"`
	Employers *InclusionSet `json:"employers,omitempty"`
	Locations *InclusionSet `json:"locations,omitempty"`
	Statuses  *InclusionSet `json:"statuses,omitempty"`
	Wage      WageBand      `json:"wage,omitempty"`
	DateFrom  string        `json:"dateFrom,omitempty"` // inclusive, YYYY-MM-DD
	DateTo    string        `json:"dateTo,omitempty"`   // inclusive, YYYY-MM-DD
	Query     string        `json:"query,omitempty"`
}

// IsEmpty returns true if no dimension carries an explicit restriction.
// It does not apply the full-set rule, which needs the data.
func (f FilterState) IsEmpty() bool {
	return f.Category == "" &&
		f.Employers == nil && f.Locations == nil && f.Statuses == nil &&
		f.Wage == "" && f.DateFrom == "" && f.DateTo == "" &&
		trimmedQuery(f.Query) == ""
}

// ============================================================================
// RESULTS
// ============================================================================

// Stats is the aggregate summary of a subset.
type Stats struct {
	Total             int `json:"total"`
	DistinctEmployers int `json:"distinctEmployers"`
	AverageWage       int `json:"averageWage"` // 0 when no record lists a wage
	WithWage          int `json:"withWage"`
	MinWage           int `json:"minWage"`
	MaxWage           int `json:"maxWage"`
}

// GroupCount is one entry of a group-by ranking.
type GroupCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Phrase is a salient title phrase and the number of distinct records containing it.
type Phrase struct {
	Text    string `json:"text"`
	Support int    `json:"support"`
}

// Bucket is one freshness band. MaxDays is -1 for the unbounded last band.
type Bucket struct {
	Label   string `json:"label"`
	MinDays int    `json:"minDays"`
	MaxDays int    `json:"maxDays"`
	Count   int    `json:"count"`
}

// Diagnostics collects per-computation reports. Skipped holds ids of records
// excluded because their posting date does not parse.
type Diagnostics struct {
	Skipped  []string `json:"skipped,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// merge appends other into d, keeping first-seen order and dropping repeats.
func (d Diagnostics) merge(other Diagnostics) Diagnostics {
	out := Diagnostics{
		Skipped:  appendUnique(append([]string(nil), d.Skipped...), other.Skipped...),
		Warnings: appendUnique(append([]string(nil), d.Warnings...), other.Warnings...),
	}
	return out
}

// Empty reports whether nothing was recorded.
func (d Diagnostics) Empty() bool { return len(d.Skipped) == 0 && len(d.Warnings) == 0 }

func appendUnique(dst []string, items ...string) []string {
	seen := make(map[string]bool, len(dst)+len(items))
	for _, s := range dst {
		seen[s] = true
	}
	for _, s := range items {
		if !seen[s] {
			seen[s] = true
			dst = append(dst, s)
		}
	}
	return dst
}

// ============================================================================
// SNAPSHOT — Everything one recomputation produces
// ============================================================================

// Snapshot is the render-ready output of Execute.
type Snapshot struct {
	ReferenceDate string       `json:"referenceDate"`
	Filter        FilterState  `json:"filter"`
	Records       []Record     `json:"records"`
	Stats         Stats        `json:"stats"`
	ByEmployer    []GroupCount `json:"byEmployer"`
	ByCategory    []GroupCount `json:"byCategory"`
	Phrases       []Phrase     `json:"phrases"`
	Freshness     []Bucket     `json:"freshness"`
	Diagnostics   Diagnostics  `json:"diagnostics"`

	View RecordView `json:"-"` // filtered subset (index view into the store)
}
