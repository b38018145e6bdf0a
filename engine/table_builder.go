package engine

import (
	"fmt"
	"strconv"
)

// ============================================================================
// TABLE BUILDER — Render-ready rows for records and rankings
// ============================================================================
// Hosts paint these however they like; the CSV exporter and the CLI text
// view both consume them.
// ============================================================================

// TableData defines how to render a table.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Summary *Summary   `json:"summary,omitempty"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number", "date", "url"
	Align string `json:"align"` // "left", "center", "right"
}

// Summary provides totals for a table.
type Summary struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}

// RecordColumns is the column order used for record tables and CSV export.
var RecordColumns = []Column{
	{Key: "id", Label: "ID", Type: "text", Align: "left"},
	{Key: "title", Label: "Title", Type: "text", Align: "left"},
	{Key: "employer", Label: "Employer", Type: "text", Align: "left"},
	{Key: "location", Label: "Location", Type: "text", Align: "left"},
	{Key: "datePosted", Label: "Date Posted", Type: "date", Align: "left"},
	{Key: "status", Label: "Status", Type: "text", Align: "left"},
	{Key: "wage", Label: "Wage", Type: "number", Align: "right"},
	{Key: "category", Label: "Category", Type: "text", Align: "left"},
	{Key: "sourceOccupationCode", Label: "Occupation Code", Type: "text", Align: "left"},
	{Key: "postingUrl", Label: "Posting URL", Type: "url", Align: "left"},
}

// ============================================================================
// RECORD TABLE — Row per record
// ============================================================================

// BuildRecordTable produces one row per record in view order.
func BuildRecordTable(title string, view RecordView) *TableData {
	rows := make([][]string, 0, view.Len())
	withWage := 0
	for i := 0; i < view.Len(); i++ {
		r := view.At(i)
		if r.HasWage() {
			withWage++
		}
		rows = append(rows, RecordRow(r))
	}

	return &TableData{
		Title:   title,
		Columns: RecordColumns,
		Rows:    rows,
		Summary: &Summary{
			Label: fmt.Sprintf("Total (%d records)", view.Len()),
			Values: map[string]string{
				"wage": fmt.Sprintf("%d listed", withWage),
			},
		},
	}
}

// RecordRow renders r in RecordColumns order. Unlisted wages render empty.
func RecordRow(r Record) []string {
	wage := ""
	if r.HasWage() {
		wage = strconv.FormatFloat(r.Wage, 'f', -1, 64)
	}
	return []string{
		r.ID, r.Title, r.Employer, r.Location, r.DatePosted, r.Status,
		wage, r.Category, r.SourceOccupationCode, r.PostingURL,
	}
}

// ============================================================================
// RANK TABLE — Summary rows
// ============================================================================

// BuildRankTable renders a ranking with each group's share of total.
func BuildRankTable(field Field, groups []GroupCount, total int) *TableData {
	columns := []Column{
		{Key: "group", Label: LabelForField(field), Type: "text", Align: "left"},
		{Key: "count", Label: "Count", Type: "number", Align: "right"},
		{Key: "share", Label: "%", Type: "number", Align: "right"},
	}

	rows := make([][]string, 0, len(groups))
	counted := 0
	for _, g := range groups {
		rows = append(rows, []string{
			g.Value,
			strconv.Itoa(g.Count),
			fmt.Sprintf("%.1f", Percent(g.Count, total)),
		})
		counted += g.Count
	}

	return &TableData{
		Title:   "By " + LabelForField(field),
		Columns: columns,
		Rows:    rows,
		Summary: &Summary{
			Label:  "Total",
			Values: map[string]string{"count": strconv.Itoa(counted)},
		},
	}
}
