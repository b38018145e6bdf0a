package helpers

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/spektr-org/jobsift/engine"
	perr "github.com/spektr-org/jobsift/internal/platform/errors"
)

// jsonRecord accepts a null wage and either a bare array or {"records": [...]}.
type jsonRecord struct {
	ID                   string   `json:"id"`
	Title                string   `json:"title"`
	Employer             string   `json:"employer"`
	Location             string   `json:"location"`
	DatePosted           string   `json:"datePosted"`
	Status               string   `json:"status"`
	Wage                 *float64 `json:"wage"`
	Category             string   `json:"category"`
	SourceOccupationCode string   `json:"sourceOccupationCode"`
	PostingURL           string   `json:"postingUrl"`
}

// ParseJSON parses a JSON array of postings, or an object holding one under
// "records". Field names follow engine.Record's JSON tags.
func ParseJSON(data []byte) (*Loaded, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, perr.New(perr.ErrorCodeJSON, "empty JSON input")
	}

	var rows []jsonRecord
	if trimmed[0] == '{' {
		var wrapper struct {
			Records []jsonRecord `json:"records"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeJSON, "invalid JSON")
		}
		rows = wrapper.Records
	} else if err := json.Unmarshal(trimmed, &rows); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "invalid JSON")
	}

	ids := newIdentities()
	out := &Loaded{Records: make([]engine.Record, 0, len(rows)), Rows: len(rows)}
	for i, jr := range rows {
		rec := engine.Record{
			ID:                   strings.TrimSpace(jr.ID),
			Title:                strings.TrimSpace(jr.Title),
			Employer:             strings.TrimSpace(jr.Employer),
			Location:             strings.TrimSpace(jr.Location),
			DatePosted:           strings.TrimSpace(jr.DatePosted),
			Status:               strings.TrimSpace(jr.Status),
			Category:             strings.TrimSpace(jr.Category),
			SourceOccupationCode: strings.TrimSpace(jr.SourceOccupationCode),
			PostingURL:           strings.TrimSpace(jr.PostingURL),
		}
		if jr.Wage != nil && *jr.Wage > 0 {
			rec.Wage = *jr.Wage
		}
		if rec.Title == "" {
			out.skip(i+1, "empty title")
			continue
		}
		id, ok := ids.assign(rec)
		if !ok {
			out.skip(i+1, "duplicate id %q", id)
			continue
		}
		rec.ID = id
		out.Records = append(out.Records, rec)
	}
	return out, nil
}
