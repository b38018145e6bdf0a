package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/spektr-org/jobsift/engine"
	"github.com/spektr-org/jobsift/helpers"
	perr "github.com/spektr-org/jobsift/internal/platform/errors"
)

var (
	// Color palette
	pink   = lipgloss.Color("205")
	cyan   = lipgloss.Color("86")
	green  = lipgloss.Color("82")
	yellow = lipgloss.Color("220")
	red    = lipgloss.Color("196")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(pink)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(cyan)
	statStyle    = lipgloss.NewStyle().Bold(true).Foreground(green)
	warnStyle    = lipgloss.NewStyle().Foreground(yellow)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(red)
)

// ============================================================================
// JSON OUTPUT
// ============================================================================

type cliOutput struct {
	File     string           `json:"file"`
	Rows     int              `json:"rows"`
	Skipped  int              `json:"skippedRows"`
	Problems []string         `json:"problems,omitempty"`
	Snapshot *engine.Snapshot `json:"snapshot"`
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	var out []byte
	var err error
	if pretty {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "marshal output")
	}
	if _, err := fmt.Fprintln(w, string(out)); err != nil {
		return perr.Wrap(err, perr.ErrorCodeIO, "write output")
	}
	return nil
}

// ============================================================================
// TEXT OUTPUT
// ============================================================================
// Plain line formatting; lipgloss only colors the text.

func writeText(w io.Writer, snap *engine.Snapshot, loaded *helpers.Loaded, st settings) {
	text := engine.BuildText(snap, st.Currency)

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Job postings: %s of %s match",
		engine.FormatInt(snap.Stats.Total), engine.FormatInt(len(loaded.Records)))))
	fmt.Fprintf(w, "%s\n", text.Value)
	fmt.Fprintf(w, "Period:  %s\n", text.Period)
	fmt.Fprintf(w, "Wage:    %s\n", statStyle.Render(text.Wage))
	if text.TopTerms != "" {
		fmt.Fprintf(w, "Themes:  %s\n", text.TopTerms)
	}

	writeRanking(w, engine.FieldEmployer, snap.ByEmployer, snap.Stats.Total, st.TopGroups)
	writeRanking(w, engine.FieldCategory, snap.ByCategory, snap.Stats.Total, st.TopGroups)

	if len(snap.Phrases) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, sectionStyle.Render("Title phrases"))
		for _, p := range snap.Phrases {
			fmt.Fprintf(w, "  %-32s %5d\n", p.Text, p.Support)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, sectionStyle.Render("Freshness (as of "+snap.ReferenceDate+")"))
	for _, b := range snap.Freshness {
		fmt.Fprintf(w, "  %-12s %5d  %s\n", b.Label, b.Count, bar(b.Count, snap.Stats.Total))
	}

	if !snap.Diagnostics.Empty() || loaded.Skipped > 0 {
		fmt.Fprintln(w)
		if loaded.Skipped > 0 {
			fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("%d rows could not be loaded", loaded.Skipped)))
		}
		if n := len(snap.Diagnostics.Skipped); n > 0 {
			fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("%d postings have unreadable dates: %s",
				n, strings.Join(snap.Diagnostics.Skipped, ", "))))
		}
		for _, warning := range snap.Diagnostics.Warnings {
			fmt.Fprintln(w, warnStyle.Render(warning))
		}
	}
}

func writeRanking(w io.Writer, field engine.Field, groups []engine.GroupCount, total, top int) {
	if len(groups) == 0 {
		return
	}
	shown := groups
	if top > 0 && len(shown) > top {
		shown = shown[:top]
	}
	table := engine.BuildRankTable(field, shown, total)

	fmt.Fprintln(w)
	fmt.Fprintln(w, sectionStyle.Render(table.Title))
	for _, row := range table.Rows {
		fmt.Fprintf(w, "  %-32s %5s %6s%%\n", truncate(row[0], 32), row[1], row[2])
	}
	if rest := len(groups) - len(shown); rest > 0 {
		fmt.Fprintf(w, "  … %d more\n", rest)
	}
}

func bar(n, total int) string {
	if total == 0 || n == 0 {
		return ""
	}
	width := n * 30 / total
	if width == 0 {
		width = 1
	}
	return statStyle.Render(strings.Repeat("█", width))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
