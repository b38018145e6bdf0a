package engine

import (
	"math"
	"testing"
	"time"

	kit "github.com/spektr-org/jobsift/internal/platform/testkit"
)

// ============================================================================
// FILTER PIPELINE TESTS
// ============================================================================
// Tests cover:
//   1. Each dimension on its own (category, sets, wage, dates, query)
//   2. The full-set rule, scoped to the active category
//   3. Malformed dates under an active bound
//   4. Unknown wage bands
//   5. Input view left untouched
// ============================================================================

// --- Test Fixtures ---

func postings() []Record {
	return []Record{
		{ID: "p1", Title: "Data Center Technician", Employer: "Oracle", Location: "Austin TX",
			DatePosted: "2026-02-10", Status: "Open", Wage: 120000, Category: "Infrastructure"},
		{ID: "p2", Title: "Senior Data Center Engineer", Employer: "Google", Location: "Dallas TX",
			DatePosted: "2026-01-20", Status: "Open", Wage: 90000, Category: "Infrastructure"},
		{ID: "p3", Title: "Software Engineer", Employer: "Oracle", Location: "Austin TX",
			DatePosted: "2026-02-01", Status: "Closed", Wage: 150000, Category: "Software"},
		{ID: "p4", Title: "Support Analyst", Employer: "Acme", Location: "Remote",
			DatePosted: "not-a-date", Status: "Open", Category: "Support"},
	}
}

func ids(view RecordView) []string {
	out := make([]string, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		out = append(out, view.At(i).ID)
	}
	return out
}

func TestApply(t *testing.T) {
	store := NewStore(postings())

	tests := []struct {
		name    string
		state   FilterState
		want    []string
		skipped []string
	}{
		{"empty state keeps all", FilterState{}, []string{"p1", "p2", "p3", "p4"}, nil},
		{"category", FilterState{Category: "Infrastructure"}, []string{"p1", "p2"}, nil},
		{"employer subset", FilterState{Employers: NewInclusionSet("Oracle")}, []string{"p1", "p3"}, nil},
		{"employer full set", FilterState{Employers: NewInclusionSet("Acme", "Google", "Oracle")},
			[]string{"p1", "p2", "p3", "p4"}, nil},
		{"employer empty set", FilterState{Employers: NewInclusionSet()}, []string{}, nil},
		{"full set scoped to category",
			FilterState{Category: "Infrastructure", Employers: NewInclusionSet("Oracle", "Google")},
			[]string{"p1", "p2"}, nil},
		{"location and status",
			FilterState{Locations: NewInclusionSet("Austin TX"), Statuses: NewInclusionSet("Open")},
			[]string{"p1"}, nil},
		{"wage 100k-150k", FilterState{Wage: Wage100to150k}, []string{"p1"}, nil},
		{"wage 150k plus", FilterState{Wage: Wage150kPlus}, []string{"p3"}, nil},
		{"wage unlisted", FilterState{Wage: WageUnlisted}, []string{"p4"}, nil},
		{"wage listed", FilterState{Wage: WageListed}, []string{"p1", "p2", "p3"}, nil},
		{"date from is inclusive", FilterState{DateFrom: "2026-02-01"}, []string{"p1", "p3"}, []string{"p4"}},
		{"date to is inclusive", FilterState{DateTo: "2026-01-20"}, []string{"p2"}, []string{"p4"}},
		{"reversed bounds", FilterState{DateFrom: "2026-03-01", DateTo: "2026-01-01"}, []string{}, []string{"p4"}},
		{"query trimmed and folded", FilterState{Query: "  austin "}, []string{"p1", "p3"}, nil},
		{"query matches employer", FilterState{Query: "GOOG"}, []string{"p2"}, nil},
		{"blank query", FilterState{Query: "   "}, []string{"p1", "p2", "p3", "p4"}, nil},
		{"malformed date removed by query is not skipped",
			FilterState{DateFrom: "2026-01-01", Query: "oracle"}, []string{"p1", "p3"}, nil},
		{"malformed date removed by category is not skipped",
			FilterState{Category: "Software", DateTo: "2026-12-31"}, []string{"p3"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, diag := Apply(store, tt.state)
			kit.EqualStrings(t, ids(got), tt.want)
			kit.EqualStrings(t, diag.Skipped, tt.skipped)
			if len(diag.Warnings) != 0 {
				t.Errorf("unexpected warnings: %v", diag.Warnings)
			}
		})
	}
}

func TestApplyDateBoundsTrimPostedDate(t *testing.T) {
	store := NewStore([]Record{
		{ID: "a", Title: "Welder", DatePosted: " 2026-02-01"},
		{ID: "b", Title: "Welder", DatePosted: "2026-01-31 "},
	})

	got, diag := Apply(store, FilterState{DateFrom: "2026-02-01"})
	kit.EqualStrings(t, ids(got), []string{"a"})
	kit.EqualStrings(t, diag.Skipped, nil)

	buckets, skipped := Bucketize(store, time.Date(2026, time.February, 3, 0, 0, 0, 0, time.UTC))
	if buckets[0].Count != 2 || len(skipped) != 0 {
		t.Errorf("buckets = %+v skipped = %v", buckets, skipped)
	}
	if p := DerivePeriod(store); p != "2026-01-31 – 2026-02-01" {
		t.Errorf("DerivePeriod = %q", p)
	}
}

func TestApplyWageBandExample(t *testing.T) {
	// 90000, 120000, 150000 and unlisted: only 120000 sits in [100000, 150000).
	got, _ := Apply(NewStore(postings()), FilterState{Wage: Wage100to150k})
	if got.Len() != 1 || got.At(0).Wage != 120000 {
		t.Fatalf("got %v", Collect(got))
	}
}

func TestApplyUnknownWageBand(t *testing.T) {
	got, diag := Apply(NewStore(postings()), FilterState{Wage: "bogus"})
	if got.Len() != 4 {
		t.Errorf("unknown band should not restrict, got %d records", got.Len())
	}
	if len(diag.Warnings) != 1 {
		t.Fatalf("warnings = %v", diag.Warnings)
	}
	kit.MustContain(t, diag.Warnings[0], `"bogus"`)
}

func TestApplyCustomWageBands(t *testing.T) {
	bands := []WageRule{{Band: "six-figures", Label: "100k+", Min: 100000}}
	got, diag := Apply(NewStore(postings()), FilterState{Wage: "six-figures"}, WithWageBands(bands))
	kit.EqualStrings(t, ids(got), []string{"p1", "p3"})
	if !diag.Empty() {
		t.Errorf("diag = %+v", diag)
	}

	// The defaults are gone once replaced.
	_, diag = Apply(NewStore(postings()), FilterState{Wage: WageListed}, WithWageBands(bands))
	if len(diag.Warnings) != 1 {
		t.Errorf("expected warning for default band under custom table, got %v", diag.Warnings)
	}
}

func TestApplyLeavesInputUntouched(t *testing.T) {
	store := NewStore(postings())
	before := store.Records()

	sub, _ := Apply(store, FilterState{Employers: NewInclusionSet("Oracle")})
	again, _ := Apply(sub, FilterState{Query: "software"})

	kit.EqualStrings(t, ids(again), []string{"p3"})
	kit.EqualStrings(t, ids(sub), []string{"p1", "p3"})
	kit.EqualStrings(t, ids(store), ids(NewStore(before)))
}

func TestAvailableValues(t *testing.T) {
	store := NewStore(postings())

	kit.EqualStrings(t, AvailableValues(store, "", FieldEmployer), []string{"Oracle", "Google", "Acme"})
	kit.EqualStrings(t, AvailableValues(store, "Infrastructure", FieldLocation), []string{"Austin TX", "Dallas TX"})
	kit.EqualStrings(t, AvailableValues(store, "Nothing", FieldStatus), nil)
}

func TestWageRuleMatches(t *testing.T) {
	tests := []struct {
		band WageBand
		wage float64
		want bool
	}{
		{WageUnder50k, 49999, true},
		{WageUnder50k, 50000, false},
		{Wage50to100k, 50000, true},
		{Wage50to100k, 100000, false},
		{Wage100to150k, 100000, true},
		{Wage100to150k, 150000, false},
		{Wage150kPlus, 150000, true},
		{Wage150kPlus, 0, false},
		{WageUnder50k, 0, false},
		{WageUnder50k, -10, false},
		{WageListed, 1, true},
		{WageListed, 0, false},
		{WageUnlisted, 0, true},
		{WageUnlisted, -5, true},
		{WageUnlisted, 1, false},
		{WageUnlisted, math.Inf(1), true},
		{WageUnlisted, math.NaN(), true},
		{Wage150kPlus, math.Inf(1), false},
		{WageListed, math.NaN(), false},
	}

	for _, tt := range tests {
		rule, ok := LookupWageBand(DefaultWageBands, tt.band)
		if !ok {
			t.Fatalf("band %q missing from defaults", tt.band)
		}
		if got := rule.Matches(tt.wage); got != tt.want {
			t.Errorf("%s.Matches(%v) = %v, want %v", tt.band, tt.wage, got, tt.want)
		}
	}
}

func TestFilterStateIsEmpty(t *testing.T) {
	if !(FilterState{Query: "  "}).IsEmpty() {
		t.Error("blank query should count as empty")
	}
	if (FilterState{Employers: NewInclusionSet()}).IsEmpty() {
		t.Error("an empty set is a restriction")
	}
}
