package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/spektr-org/jobsift/engine"
	perr "github.com/spektr-org/jobsift/internal/platform/errors"
	kit "github.com/spektr-org/jobsift/internal/platform/testkit"
)

const postingsCSV = `id,title,employer,location,datePosted,status,wage,category
1,Data Center Technician,Oracle,"Austin, TX",2026-02-08,Open,120000,Technology
2,Senior Data Center Engineer,Meta,Dallas,2026-02-01,Open,,Technology
3,Registered Nurse,St. Luke's,Houston,2026-01-15,Open,65000,Healthcare
4,Registered Nurse - Nights,St. Luke's,Houston,bad-date,Closed,70000,Healthcare
`

func writeTemp(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunJSON(t *testing.T) {
	file := writeTemp(t, "postings.csv", postingsCSV)

	code, out, errOut := runCLI(t, "--file", file, "--ref", "2026-02-10", "--category", "Technology")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}

	var got struct {
		Rows     int             `json:"rows"`
		Snapshot engine.Snapshot `json:"snapshot"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got.Rows != 4 || got.Snapshot.Stats.Total != 2 {
		t.Fatalf("rows=%d total=%d", got.Rows, got.Snapshot.Stats.Total)
	}
	if got.Snapshot.Stats.AverageWage != 120000 || got.Snapshot.Stats.WithWage != 1 {
		t.Errorf("stats = %+v", got.Snapshot.Stats)
	}
	if len(got.Snapshot.Phrases) == 0 || got.Snapshot.Phrases[0].Text != "Data Center" {
		t.Errorf("phrases = %+v", got.Snapshot.Phrases)
	}
}

func TestRunText(t *testing.T) {
	file := writeTemp(t, "postings.csv", postingsCSV)

	code, out, errOut := runCLI(t, "--file", file, "--ref", "2026-02-10", "--format", "text",
		"--employer", "St. Luke's")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	kit.MustContain(t, out, "Job postings: 2 of 4 match")
	kit.MustContain(t, out, "Registered Nurse")
	kit.MustContain(t, out, "By Employer")
	kit.MustContain(t, out, "0–5 days")
	kit.MustContain(t, out, "1 postings have unreadable dates: 4")
}

func TestRunCSVToFile(t *testing.T) {
	file := writeTemp(t, "postings.csv", postingsCSV)
	outPath := filepath.Join(t.TempDir(), "out.csv")

	code, _, errOut := runCLI(t, "--file", file, "--format", "csv", "--wage", "100k-150k", "--out", outPath)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read out: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("want header + 1 row, got %q", lines)
	}
	kit.MustContain(t, lines[1], "Data Center Technician")
}

func TestRunFiltersFile(t *testing.T) {
	file := writeTemp(t, "postings.csv", postingsCSV)
	filters := writeTemp(t, "filters.json", `{"locations":["Austin, TX"],"dateFrom":"2026-02-01"}`)

	code, out, errOut := runCLI(t, "--file", file, "--filters", filters, "--format", "text")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	kit.MustContain(t, out, "Job postings: 1 of 4 match")
}

func TestRunDiscover(t *testing.T) {
	file := writeTemp(t, "postings.csv", postingsCSV)

	code, out, errOut := runCLI(t, "--file", file, "--discover")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	kit.MustContain(t, out, `"target":"datePosted"`)
}

func TestRunJSONInput(t *testing.T) {
	file := writeTemp(t, "postings.json", `[{"id":"a","title":"Welder","employer":"Acme","datePosted":"2026-02-09","wage":null}]`)

	code, out, errOut := runCLI(t, "--file", file, "--ref", "2026-02-10", "--format", "pretty")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	kit.MustContain(t, out, `"averageWage": 0`)
}

func TestRunErrors(t *testing.T) {
	file := writeTemp(t, "postings.csv", postingsCSV)
	filters := writeTemp(t, "filters.json", `{}`)

	tests := []struct {
		name string
		args []string
		code int
		msg  string
	}{
		{"no file", []string{}, 2, "--file is required"},
		{"missing file", []string{"--file", filepath.Join(t.TempDir(), "nope.csv")}, 3, "no such file"},
		{"bad format", []string{"--file", file, "--format", "xml"}, 2, `unknown format "xml"`},
		{"bad wage", []string{"--file", file, "--wage", "lots"}, 2, "wage must be a known wage band"},
		{"bad ref", []string{"--file", file, "--ref", "tomorrow"}, 2, "bad --ref"},
		{"mixed filters", []string{"--file", file, "--filters", filters, "--q", "nurse"}, 2, "cannot be combined"},
		{"stray arg", []string{"--file", file, "extra"}, 2, "unexpected arguments"},
		{"unknown flag", []string{"--nope"}, 2, "bad flags"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := runCLI(t, tt.args...)
			if code != tt.code {
				t.Fatalf("exit = %d, want %d (%s)", code, tt.code, errOut)
			}
			kit.MustContain(t, errOut, tt.msg)
		})
	}
}

func TestRunVersionAndHelp(t *testing.T) {
	code, out, _ := runCLI(t, "--version")
	if code != 0 || !strings.HasPrefix(out, "jobsift ") {
		t.Fatalf("version: exit %d, out %q", code, out)
	}
	code, _, errOut := runCLI(t, "-h")
	if code != 0 {
		t.Fatalf("help exit %d", code)
	}
	kit.MustContain(t, errOut, "JOBSIFT_FRESHNESS_EDGES")
}

func TestSettingsFromEnv(t *testing.T) {
	t.Setenv("JOBSIFT_MAX_PHRASES", "3")
	t.Setenv("JOBSIFT_FRESHNESS_EDGES", "7,14")
	t.Setenv("JOBSIFT_EXTRA_STOP_WORDS", "nights, technician")
	t.Setenv("JOBSIFT_PARALLEL", "true")

	st := loadSettings()
	if st.MaxPhrases != 3 || !st.Parallel || st.Format != "json" || st.Currency != "$" {
		t.Fatalf("settings = %+v", st)
	}
	kit.EqualStrings(t, st.ExtraStopWords, []string{"nights", "technician"})
	if len(st.FreshnessEdges) != 2 || st.FreshnessEdges[1] != 14 {
		t.Fatalf("edges = %v", st.FreshnessEdges)
	}
	if n := len(st.engineOptions(zeroLogger())); n != 7 {
		t.Fatalf("engine options = %d, want 7", n)
	}
}

func zeroLogger() zerolog.Logger { return zerolog.Nop() }

func TestReadFileErrors(t *testing.T) {
	_, err := readFile(filepath.Join(t.TempDir(), "missing.csv"))
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("missing file: got %v, want not_found", err)
	}
	if e, ok := perr.As(err); !ok || e.Field() != "file" {
		t.Errorf("missing file: field not set on %v", err)
	}

	// a directory exists but cannot be read as a file
	_, err = readFile(t.TempDir())
	if !perr.IsCode(err, perr.ErrorCodeIO) {
		t.Fatalf("directory: got %v, want io", err)
	}
	if perr.Root(err) == err {
		t.Error("io error should wrap the os cause")
	}
}
