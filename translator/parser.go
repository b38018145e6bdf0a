package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"

	"github.com/spektr-org/jobsift/engine"
	perr "github.com/spektr-org/jobsift/internal/platform/errors"
	"github.com/spektr-org/jobsift/internal/platform/validate"
)

// ============================================================================
// PARSER — Decode, validate, compile
// ============================================================================

type bandsKey struct{}

// registerTags installs the wageband tag once and reports the outcome to
// every caller. The band table is read from the validation context so custom
// tables validate against themselves.
var registerTags = sync.OnceValue(func() error {
	err := validate.RegisterTagCtx("wageband", func(ctx context.Context, fl validate.FieldLevel) bool {
		bands, _ := ctx.Value(bandsKey{}).([]engine.WageRule)
		if len(bands) == 0 {
			bands = engine.DefaultWageBands
		}
		_, ok := engine.LookupWageBand(bands, engine.WageBand(fl.Field().String()))
		return ok
	}, "{0} must be a known wage band")
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "register wageband tag")
	}
	return nil
})

// Parser turns requests into filter states against one wage band table.
type Parser struct {
	bands []engine.WageRule
}

// New returns a Parser for bands; nil or empty means engine.DefaultWageBands.
func New(bands []engine.WageRule) *Parser {
	if len(bands) == 0 {
		bands = engine.DefaultWageBands
	}
	return &Parser{bands: bands}
}

var defaultParser = sync.OnceValue(func() *Parser { return New(nil) })

// ParseFilterJSON decodes and validates a JSON filter request using the
// default wage bands. Unknown fields are rejected.
func ParseFilterJSON(data []byte) (engine.FilterState, error) {
	return defaultParser().ParseJSON(data)
}

// FromValues validates flag-style values using the default wage bands.
func FromValues(v Values) (engine.FilterState, error) {
	return defaultParser().FromValues(v)
}

// ParseJSON decodes and validates a JSON filter request.
func (p *Parser) ParseJSON(data []byte) (engine.FilterState, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return engine.FilterState{}, perr.New(perr.ErrorCodeJSON, "empty filter request")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var req Request
	if err := dec.Decode(&req); err != nil {
		return engine.FilterState{}, perr.Wrap(err, perr.ErrorCodeJSON, "invalid filter JSON")
	}
	if dec.More() {
		return engine.FilterState{}, perr.New(perr.ErrorCodeJSON, "unexpected trailing data")
	}
	return p.Compile(req)
}

// FromValues builds a request from flag-style values. Blank list entries are
// dropped; a list key present with only blanks still excludes everything.
// Values are never split on commas ("Austin, TX" is one location).
// Unknown keys are rejected.
func (p *Parser) FromValues(v Values) (engine.FilterState, error) {
	var unknown []string
	for k := range v {
		switch k {
		case KeyCategory, KeyEmployer, KeyLocation, KeyStatus, KeyWage, KeyFrom, KeyTo, KeyQuery:
		default:
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return engine.FilterState{}, perr.WithField(
			perr.InvalidArgf("unknown filter keys: %s", strings.Join(unknown, ", ")), unknown[0])
	}

	req := Request{
		Category:  strings.TrimSpace(v.Get(KeyCategory)),
		Employers: trimList(v[KeyEmployer]),
		Locations: trimList(v[KeyLocation]),
		Statuses:  trimList(v[KeyStatus]),
		Wage:      strings.TrimSpace(v.Get(KeyWage)),
		DateFrom:  strings.TrimSpace(v.Get(KeyFrom)),
		DateTo:    strings.TrimSpace(v.Get(KeyTo)),
		Query:     v.Get(KeyQuery),
	}
	return p.Compile(req)
}

// Compile validates req and converts it to an engine.FilterState.
func (p *Parser) Compile(req Request) (engine.FilterState, error) {
	if err := registerTags(); err != nil {
		return engine.FilterState{}, err
	}
	ctx := context.WithValue(context.Background(), bandsKey{}, p.bands)
	if err := validate.StructCtx(ctx, req); err != nil {
		return engine.FilterState{}, err
	}

	return engine.FilterState{
		Category:  req.Category,
		Employers: toSet(req.Employers),
		Locations: toSet(req.Locations),
		Statuses:  toSet(req.Statuses),
		Wage:      engine.WageBand(req.Wage),
		DateFrom:  req.DateFrom,
		DateTo:    req.DateTo,
		Query:     req.Query,
	}, nil
}

// toSet keeps the nil / empty distinction.
func toSet(values []string) *engine.InclusionSet {
	if values == nil {
		return nil
	}
	return engine.NewInclusionSet(values...)
}

func trimList(raw []string) []string {
	if raw == nil {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if s := strings.TrimSpace(r); s != "" {
			out = append(out, s)
		}
	}
	return out
}
