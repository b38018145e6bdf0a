package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/spektr-org/jobsift/engine"
	"github.com/spektr-org/jobsift/helpers"
	perr "github.com/spektr-org/jobsift/internal/platform/errors"
	"github.com/spektr-org/jobsift/internal/platform/logger"
	"github.com/spektr-org/jobsift/schema"
	"github.com/spektr-org/jobsift/translator"
)

// ============================================================================
// JOBSIFT CLI — Filter a job-posting file and summarize what is left
// ============================================================================

const version = "0.3.0"

func main() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()

	logger.Init(logger.FromEnv())
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// listFlag is a repeatable string flag that remembers whether it was given.
type listFlag struct {
	values []string
	set    bool
}

func (l *listFlag) String() string { return strings.Join(l.values, ",") }

func (l *listFlag) Set(v string) error {
	l.values = append(l.values, v)
	l.set = true
	return nil
}

type cliFlags struct {
	file        string
	schemaPath  string
	filtersPath string

	category  string
	employers listFlag
	locations listFlag
	statuses  listFlag
	wage      string
	from      string
	to        string
	q         string

	ref         string
	format      string
	out         string
	discover    bool
	showVersion bool
}

func parseFlags(args []string, stderr io.Writer, defaultFormat string) (*cliFlags, error) {
	fs := flag.NewFlagSet("jobsift", flag.ContinueOnError)
	fs.SetOutput(stderr)

	f := &cliFlags{}
	fs.StringVar(&f.file, "file", "", "Path to CSV or JSON postings file (required)")
	fs.StringVar(&f.schemaPath, "schema", "", "Path to schema JSON for CSV input (skips auto-detect)")
	fs.StringVar(&f.filtersPath, "filters", "", "Path to JSON filter request (instead of filter flags)")
	fs.StringVar(&f.category, "category", "", "Keep one category")
	fs.Var(&f.employers, "employer", "Keep this employer (repeatable)")
	fs.Var(&f.locations, "location", "Keep this location (repeatable)")
	fs.Var(&f.statuses, "status", "Keep this status (repeatable)")
	fs.StringVar(&f.wage, "wage", "", "Wage band: has-wage, no-wage, 150k-plus, 100k-150k, 50k-100k, under-50k")
	fs.StringVar(&f.from, "from", "", "Posted on or after YYYY-MM-DD")
	fs.StringVar(&f.to, "to", "", "Posted on or before YYYY-MM-DD")
	fs.StringVar(&f.q, "q", "", "Text to find in title, employer, or location")
	fs.StringVar(&f.ref, "ref", "", "Reference date for freshness, YYYY-MM-DD (default today)")
	fs.StringVar(&f.format, "format", defaultFormat, "Output format: json, pretty, text, csv")
	fs.StringVar(&f.out, "out", "", "Write output to file instead of stdout")
	fs.BoolVar(&f.discover, "discover", false, "Print auto-detected schema and exit")
	fs.BoolVar(&f.showVersion, "version", false, "Print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(stderr, `jobsift — filter job postings and summarize the rest

Usage:
  jobsift --file postings.csv --format text
  jobsift --file postings.csv --employer Oracle --employer Meta --wage 100k-150k
  jobsift --file postings.json --filters filters.json --format pretty
  jobsift --file postings.csv --q nurse --format csv --out nurses.csv
  jobsift --file postings.csv --discover --format pretty

Flags:
`)
		fs.PrintDefaults()
		fmt.Fprintf(stderr, `
Environment (also read from .env):
  JOBSIFT_FORMAT            default output format
  JOBSIFT_CURRENCY          wage prefix in text output (default "$")
  JOBSIFT_MAX_PHRASES       phrases kept (default %d)
  JOBSIFT_MIN_SUPPORT       postings a phrase must appear in (default %d)
  JOBSIFT_NGRAM_SIZES       phrase lengths in words, e.g. "2,3,4"
  JOBSIFT_EXTRA_STOP_WORDS  comma-separated words ignored in titles
  JOBSIFT_FRESHNESS_EDGES   band edges in days, e.g. "5,10,30,60"
  JOBSIFT_PARALLEL          compute results concurrently (true/false)
  JOBSIFT_TOP_GROUPS        rows per ranking in text output (default 10)
  LOG_LEVEL, LOG_FORMAT     logging (stderr)

Formats:
  json      Full snapshot as JSON (default)
  pretty    Pretty-printed JSON
  text      Human-readable summary
  csv       Filtered postings as CSV
`, engine.DefaultMaxPhrases, engine.DefaultMinSupport)
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "bad flags")
	}
	if fs.NArg() > 0 {
		return nil, perr.InvalidArgf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return f, nil
}

// values collects the filter flags that were actually given.
func (f *cliFlags) values() translator.Values {
	v := translator.Values{}
	add := func(key, val string) {
		if val != "" {
			v.Add(key, val)
		}
	}
	add(translator.KeyCategory, f.category)
	add(translator.KeyWage, f.wage)
	add(translator.KeyFrom, f.from)
	add(translator.KeyTo, f.to)
	add(translator.KeyQuery, f.q)
	for key, l := range map[string]*listFlag{
		translator.KeyEmployer: &f.employers,
		translator.KeyLocation: &f.locations,
		translator.KeyStatus:   &f.statuses,
	} {
		if l.set {
			v[key] = append([]string(nil), l.values...)
		}
	}
	return v
}

func run(args []string, stdout, stderr io.Writer) int {
	st := loadSettings()
	log := logger.Named("cli")

	f, err := parseFlags(args, stderr, st.Format)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return fail(stderr, err)
	}
	if err := execute(f, st, stdout, stderr); err != nil {
		// Coded errors are user-facing; anything else is unexpected.
		ev := log.Debug()
		if perr.IsCode(err, perr.ErrorCodeUnknown) {
			ev = log.Error()
		}
		ev.Err(err).AnErr("cause", perr.Root(err)).Str("code", perr.CodeOf(err).String()).Msg("run failed")
		return fail(stderr, err)
	}
	return 0
}

func execute(f *cliFlags, st settings, stdout, stderr io.Writer) error {
	log := logger.Named("cli")

	if f.showVersion {
		fmt.Fprintf(stdout, "jobsift %s\n", version)
		return nil
	}
	if f.file == "" {
		return perr.WithField(perr.InvalidArgf("--file is required"), "file")
	}
	switch f.format {
	case "json", "pretty", "text", "csv":
	default:
		return perr.WithField(perr.InvalidArgf("unknown format %q", f.format), "format")
	}

	filterValues := f.values()
	if f.filtersPath != "" && len(filterValues) > 0 {
		return perr.InvalidArgf("--filters cannot be combined with filter flags")
	}

	ref := time.Now()
	if f.ref != "" {
		t, err := time.Parse(engine.DateLayout, f.ref)
		if err != nil {
			return perr.WithField(perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "bad --ref %q", f.ref), "ref")
		}
		ref = t
	}

	// ── Read data ─────────────────────────────────────────────────────────
	data, err := readFile(f.file)
	if err != nil {
		return err
	}
	isJSON := strings.EqualFold(filepath.Ext(f.file), ".json")

	// ── Output writer ─────────────────────────────────────────────────────
	w := stdout
	if f.out != "" {
		file, err := os.Create(f.out)
		if err != nil {
			return perr.Wrapf(err, perr.ErrorCodeIO, "create %s", f.out)
		}
		defer file.Close()
		w = file
	}

	// ── Discover mode ─────────────────────────────────────────────────────
	if f.discover {
		if isJSON {
			return perr.InvalidArgf("--discover needs CSV input")
		}
		sch, err := schema.DiscoverFromCSV(data)
		if err != nil {
			return err
		}
		log.Info().Str("name", sch.Name).Int("columns", len(sch.Columns)).
			Int("skipped", len(sch.SkippedColumns)).Msg("schema discovered")
		return writeJSON(w, sch, f.format == "pretty")
	}

	// ── Load ──────────────────────────────────────────────────────────────
	loaded, err := load(data, isJSON, f.schemaPath)
	if err != nil {
		return err
	}
	log.Info().Str("file", f.file).Int("rows", loaded.Rows).Int("records", len(loaded.Records)).
		Int("skipped", loaded.Skipped).Msg("postings loaded")
	for _, p := range loaded.Problems {
		log.Debug().Msg(p)
	}

	// ── Filter request ────────────────────────────────────────────────────
	var state engine.FilterState
	if f.filtersPath != "" {
		raw, err := readFile(f.filtersPath)
		if err != nil {
			return err
		}
		state, err = translator.ParseFilterJSON(raw)
		if err != nil {
			return err
		}
	} else {
		state, err = translator.FromValues(filterValues)
		if err != nil {
			return err
		}
	}

	// ── Execute ───────────────────────────────────────────────────────────
	snap := engine.Execute(loaded.Store(), state, ref, st.engineOptions(*logger.Named("engine"))...)

	// ── Render output ─────────────────────────────────────────────────────
	switch f.format {
	case "csv":
		if err := helpers.WriteCSV(w, snap.View); err != nil {
			return err
		}
	case "text":
		writeText(w, snap, loaded, st)
	default:
		out := cliOutput{
			File:     f.file,
			Rows:     loaded.Rows,
			Skipped:  loaded.Skipped,
			Problems: loaded.Problems,
			Snapshot: snap,
		}
		if err := writeJSON(w, out, f.format == "pretty"); err != nil {
			return err
		}
	}
	if f.out != "" {
		log.Info().Str("out", f.out).Str("format", f.format).Msg("output written")
	}
	return nil
}

func load(data []byte, isJSON bool, schemaPath string) (*helpers.Loaded, error) {
	if isJSON {
		return helpers.ParseJSON(data)
	}
	if schemaPath == "" {
		loaded, sch, err := helpers.ParseCSVAuto(data)
		if err != nil {
			return nil, err
		}
		logger.Named("cli").Info().Str("name", sch.Name).Int("columns", len(sch.Columns)).
			Int("skipped", len(sch.SkippedColumns)).Msg("schema auto-detected")
		return loaded, nil
	}

	raw, err := readFile(schemaPath)
	if err != nil {
		return nil, err
	}
	var sch schema.Config
	if err := json.Unmarshal(raw, &sch); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeJSON, "parse schema %s", schemaPath)
	}
	return helpers.ParseCSV(data, sch)
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, perr.WithField(perr.NotFoundf("no such file %s", path), "file")
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeIO, "read %s", path)
	}
	return data, nil
}

func fail(stderr io.Writer, err error) int {
	fmt.Fprintln(stderr, errorStyle.Render("Error: "+err.Error()))
	return perr.ExitCode(err)
}
