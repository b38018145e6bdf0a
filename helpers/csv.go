package helpers

import (
	"bytes"
	"encoding/csv"
	"io"
	"strings"

	"github.com/spektr-org/jobsift/engine"
	perr "github.com/spektr-org/jobsift/internal/platform/errors"
	"github.com/spektr-org/jobsift/schema"
)

// ============================================================================
// CSV HELPER — Parses CSV data into []engine.Record
// ============================================================================
// Consumer reads the CSV from wherever it lives. This helper converts the
// raw bytes into Records using a schema's column mapping.
// ============================================================================

// ParseCSV parses CSV bytes into Records using sch to locate each field.
// Rows without a title, short rows, and repeated ids are skipped and reported.
func ParseCSV(data []byte, sch schema.Config) (*Loaded, error) {
	if err := sch.Validate(); err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	// Header row is consumed; columns are located by index
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, perr.Validationf("CSV is empty")
		}
		return nil, perr.Wrap(err, perr.ErrorCodeValidation, "failed to read CSV headers")
	}

	titleCol, _ := sch.Column(schema.TargetTitle)
	ids := newIdentities()
	out := &Loaded{Records: []engine.Record{}}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		out.Rows++
		line := out.Rows + 1 // header is line 1
		if err != nil {
			out.skip(line, "malformed CSV: %v", err)
			continue
		}
		if titleCol.Index >= len(row) {
			out.skip(line, "only %d columns", len(row))
			continue
		}

		rec := engine.Record{}
		for _, col := range sch.Columns {
			if col.Index >= len(row) {
				continue
			}
			val := strings.TrimSpace(row[col.Index])
			switch col.Target {
			case schema.TargetID:
				rec.ID = val
			case schema.TargetTitle:
				rec.Title = val
			case schema.TargetEmployer:
				rec.Employer = val
			case schema.TargetLocation:
				rec.Location = val
			case schema.TargetDatePosted:
				rec.DatePosted = val
			case schema.TargetStatus:
				rec.Status = val
			case schema.TargetWage:
				w, ok := ParseWage(val)
				if !ok {
					out.problem(line, "wage %q is not a number; treated as not listed", val)
				}
				rec.Wage = w
			case schema.TargetCategory:
				rec.Category = val
			case schema.TargetSourceOccupationCode:
				rec.SourceOccupationCode = val
			case schema.TargetPostingURL:
				rec.PostingURL = val
			}
		}

		if rec.Title == "" {
			out.skip(line, "empty title")
			continue
		}
		id, ok := ids.assign(rec)
		if !ok {
			out.skip(line, "duplicate id %q", id)
			continue
		}
		rec.ID = id
		out.Records = append(out.Records, rec)
	}

	return out, nil
}

// ParseCSVAuto discovers a schema from the data, then parses with it.
// The discovered schema is returned so callers can show or save it.
func ParseCSVAuto(data []byte) (*Loaded, *schema.Config, error) {
	sch, err := schema.DiscoverFromCSV(data)
	if err != nil {
		return nil, nil, err
	}
	loaded, err := ParseCSV(data, *sch)
	if err != nil {
		return nil, sch, err
	}
	return loaded, sch, nil
}

// WriteCSV writes every record in view as CSV with a header row, in
// engine.RecordColumns order. The header uses column keys so the output
// loads back through ParseCSVAuto.
func WriteCSV(w io.Writer, view engine.RecordView) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(engine.RecordColumns))
	for i, c := range engine.RecordColumns {
		header[i] = c.Key
	}
	if err := cw.Write(header); err != nil {
		return perr.Wrap(err, perr.ErrorCodeIO, "write CSV header")
	}
	for i := 0; i < view.Len(); i++ {
		if err := cw.Write(engine.RecordRow(view.At(i))); err != nil {
			return perr.Wrap(err, perr.ErrorCodeIO, "write CSV row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeIO, "flush CSV")
	}
	return nil
}
