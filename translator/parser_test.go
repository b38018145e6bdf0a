package translator

import (
	"testing"

	"github.com/spektr-org/jobsift/engine"
	perr "github.com/spektr-org/jobsift/internal/platform/errors"
	kit "github.com/spektr-org/jobsift/internal/platform/testkit"
)

// ============================================================================
// JSON REQUESTS
// ============================================================================

func TestParseFilterJSON(t *testing.T) {
	state, err := ParseFilterJSON([]byte(`{
		"category": "Technology",
		"employers": ["Oracle", "Meta"],
		"locations": [],
		"wage": "100k-150k",
		"dateFrom": "2026-02-01",
		"query": "  data  "
	}`))
	if err != nil {
		t.Fatalf("ParseFilterJSON: %v", err)
	}

	if state.Category != "Technology" || state.Wage != engine.Wage100to150k || state.DateFrom != "2026-02-01" {
		t.Errorf("state = %+v", state)
	}
	kit.EqualStrings(t, state.Employers.Values(), []string{"Oracle", "Meta"})

	// [] is an explicit empty selection, absent is no restriction
	if state.Locations == nil || state.Locations.Len() != 0 {
		t.Errorf("locations = %v, want empty non-nil set", state.Locations)
	}
	if state.Statuses != nil {
		t.Errorf("statuses = %v, want nil", state.Statuses)
	}
	// query is kept verbatim; the engine trims it
	if state.Query != "  data  " {
		t.Errorf("query = %q", state.Query)
	}
}

func TestParseFilterJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  perr.ErrorCode
		msg   string
	}{
		{"empty", "", perr.ErrorCodeJSON, "empty filter request"},
		{"syntax", `{"wage":`, perr.ErrorCodeJSON, "invalid filter JSON"},
		{"unknown field", `{"salary":"high"}`, perr.ErrorCodeJSON, "invalid filter JSON"},
		{"trailing", `{} {}`, perr.ErrorCodeJSON, "unexpected trailing data"},
		{"bad band", `{"wage":"200k-plus"}`, perr.ErrorCodeValidation, "wage must be a known wage band"},
		{"bad date", `{"dateFrom":"02/01/2026"}`, perr.ErrorCodeValidation, "dateFrom must be a date in the form 2006-01-02"},
		{"impossible date", `{"dateTo":"2026-02-30"}`, perr.ErrorCodeValidation, "dateTo must be a date"},
		{"blank employer", `{"employers":["Oracle",""]}`, perr.ErrorCodeValidation, "employers[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFilterJSON([]byte(tt.input))
			if perr.CodeOf(err) != tt.code {
				t.Fatalf("code = %v, want %v (%v)", perr.CodeOf(err), tt.code, err)
			}
			kit.MustContain(t, err.Error(), tt.msg)
		})
	}
}

func TestReversedDatesAreAllowed(t *testing.T) {
	state, err := ParseFilterJSON([]byte(`{"dateFrom":"2026-03-01","dateTo":"2026-02-01"}`))
	if err != nil {
		t.Fatalf("reversed bounds should compile to an empty result, got %v", err)
	}
	if state.DateFrom != "2026-03-01" || state.DateTo != "2026-02-01" {
		t.Errorf("state = %+v", state)
	}
}

// ============================================================================
// FLAG VALUES
// ============================================================================

func TestFromValues(t *testing.T) {
	v := Values{}
	v.Add(KeyEmployer, "Oracle")
	v.Add(KeyEmployer, " Acme, Inc. ")
	v.Add(KeyLocation, "Austin, TX")
	v.Add(KeyWage, "under-50k")
	v.Add(KeyWage, "no-wage") // last wins
	v.Add(KeyFrom, "2026-01-01")
	v.Add(KeyQuery, "nurse")

	state, err := FromValues(v)
	if err != nil {
		t.Fatalf("FromValues: %v", err)
	}
	kit.EqualStrings(t, state.Employers.Values(), []string{"Oracle", "Acme, Inc."})
	kit.EqualStrings(t, state.Locations.Values(), []string{"Austin, TX"})
	if state.Statuses != nil {
		t.Errorf("statuses should be unrestricted")
	}
	if state.Wage != engine.WageUnlisted || state.DateFrom != "2026-01-01" || state.Query != "nurse" {
		t.Errorf("state = %+v", state)
	}
}

func TestFromValuesBlankListExcludesAll(t *testing.T) {
	state, err := FromValues(Values{KeyStatus: {" ", ""}})
	if err != nil {
		t.Fatalf("FromValues: %v", err)
	}
	if state.Statuses == nil || state.Statuses.Len() != 0 {
		t.Fatalf("statuses = %v, want empty non-nil set", state.Statuses)
	}
}

func TestFromValuesUnknownKey(t *testing.T) {
	_, err := FromValues(Values{"salary": {"1"}, "zeta": {"2"}})
	e, ok := perr.As(err)
	if !ok || e.Code() != perr.ErrorCodeInvalidArgument {
		t.Fatalf("got %v, want invalid argument", err)
	}
	if e.Field() != "salary" {
		t.Errorf("field = %q", e.Field())
	}
	kit.MustContain(t, err.Error(), "salary, zeta")
}

func TestEmptyValuesRestrictNothing(t *testing.T) {
	state, err := FromValues(Values{})
	if err != nil {
		t.Fatalf("FromValues: %v", err)
	}
	if !state.IsEmpty() {
		t.Fatalf("state = %+v, want empty", state)
	}
}

// ============================================================================
// CUSTOM BAND TABLES
// ============================================================================

func TestParserCustomBands(t *testing.T) {
	bands := []engine.WageRule{
		{Band: "entry", Label: "Entry", Max: 40000},
		{Band: "senior", Label: "Senior", Min: 90000},
	}
	p := New(bands)

	state, err := p.ParseJSON([]byte(`{"wage":"entry"}`))
	if err != nil {
		t.Fatalf("custom band rejected: %v", err)
	}
	if state.Wage != "entry" {
		t.Errorf("wage = %q", state.Wage)
	}

	// default tags are not part of the custom table
	if _, err := p.ParseJSON([]byte(`{"wage":"100k-150k"}`)); perr.CodeOf(err) != perr.ErrorCodeValidation {
		t.Fatalf("got %v, want validation error", err)
	}
	// and the default parser is unaffected
	if _, err := ParseFilterJSON([]byte(`{"wage":"entry"}`)); perr.CodeOf(err) != perr.ErrorCodeValidation {
		t.Fatalf("default parser accepted custom band: %v", err)
	}
}

func TestZeroParserRegistersTags(t *testing.T) {
	if err := registerTags(); err != nil {
		t.Fatalf("registerTags: %v", err)
	}
	if err := registerTags(); err != nil {
		t.Fatalf("second registerTags: %v", err)
	}

	var p Parser
	state, err := p.Compile(Request{Wage: string(engine.WageListed)})
	if err != nil || state.Wage != engine.WageListed {
		t.Fatalf("Compile = %+v, %v", state, err)
	}
	if _, err := p.Compile(Request{Wage: "bogus"}); perr.CodeOf(err) != perr.ErrorCodeValidation {
		t.Fatalf("got %v, want validation error", err)
	}
}
