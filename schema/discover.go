package schema

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	perr "github.com/spektr-org/jobsift/internal/platform/errors"
)

// ============================================================================
// AUTO-DISCOVERY — Header alias matching with content fallback
// ============================================================================
// Inspects a CSV and generates a schema.Config automatically.
//
// Mapping pipeline per column:
//   1. Header → snake_case key → alias table lookup
//   2. Unmatched columns → content sniffing (ISO dates, URLs)
//   3. First column wins a target; later claimants are skipped
//   4. Sample values + cardinality hint for every mapped column
// ============================================================================

// DiscoverOptions controls discovery behavior.
type DiscoverOptions struct {
	SampleSize int               // Max rows to inspect (0 = all). Default: 1000
	Overrides  map[string]string // Header → target, applied before aliases
	Name       string            // Dataset name override
}

// DefaultDiscoverOptions returns sensible defaults.
func DefaultDiscoverOptions() DiscoverOptions {
	return DiscoverOptions{
		SampleSize: 1000,
	}
}

// headerAliases maps normalized header keys to record fields.
var headerAliases = map[string]string{
	"id": TargetID, "posting_id": TargetID, "job_id": TargetID,
	"requisition_id": TargetID, "control_number": TargetID,

	"title": TargetTitle, "job_title": TargetTitle, "position": TargetTitle,
	"position_title": TargetTitle, "role": TargetTitle,

	"employer": TargetEmployer, "company": TargetEmployer, "organization": TargetEmployer,
	"organisation": TargetEmployer, "agency": TargetEmployer, "hiring_organization": TargetEmployer,

	"location": TargetLocation, "city": TargetLocation, "work_location": TargetLocation,
	"position_location": TargetLocation,

	"date_posted": TargetDatePosted, "posted": TargetDatePosted, "posted_date": TargetDatePosted,
	"posted_on": TargetDatePosted, "publication_date": TargetDatePosted, "open_date": TargetDatePosted,

	"status": TargetStatus, "employment_status": TargetStatus, "schedule": TargetStatus,
	"work_schedule": TargetStatus, "employment_type": TargetStatus,

	"wage": TargetWage, "salary": TargetWage, "pay": TargetWage,
	"annual_salary": TargetWage, "minimum_salary": TargetWage, "salary_min": TargetWage,

	"category": TargetCategory, "job_category": TargetCategory, "job_family": TargetCategory,
	"sector": TargetCategory,

	"source_occupation_code": TargetSourceOccupationCode, "occupation_code": TargetSourceOccupationCode,
	"soc_code": TargetSourceOccupationCode, "onet_code": TargetSourceOccupationCode,
	"occupational_series": TargetSourceOccupationCode,

	"posting_url": TargetPostingURL, "url": TargetPostingURL, "link": TargetPostingURL,
	"apply_url": TargetPostingURL, "position_uri": TargetPostingURL,
}

// LookupAlias returns the record field a header names, if any.
func LookupAlias(header string) (string, bool) {
	t, ok := headerAliases[toSnakeCase(header)]
	return t, ok
}

// DiscoverFromCSV generates a schema.Config by inspecting CSV data.
func DiscoverFromCSV(data []byte, opts ...DiscoverOptions) (*Config, error) {
	opt := DefaultDiscoverOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	// 1. Read headers
	headers, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, perr.Validationf("CSV is empty")
		}
		return nil, perr.Wrap(err, perr.ErrorCodeValidation, "failed to read CSV headers")
	}
	if len(headers) == 0 {
		return nil, perr.Validationf("CSV has no columns")
	}
	headers[0] = strings.TrimPrefix(headers[0], "\ufeff")

	// 2. Read sample rows
	var rows [][]string
	limit := opt.SampleSize
	if limit <= 0 {
		limit = 100000 // safety cap
	}
	for i := 0; i < limit; i++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}
		rows = append(rows, row)
	}

	// 3. Analyze each column
	overrides := make(map[string]string, len(opt.Overrides))
	for h, t := range opt.Overrides {
		overrides[toSnakeCase(h)] = t
	}

	columns := make([]columnAnalysis, len(headers))
	for i, header := range headers {
		columns[i] = analyzeColumn(header, i, rows)
	}

	config := &Config{
		Name:    opt.Name,
		Version: "1.0",
	}
	if config.Name == "" {
		config.Name = "Auto-discovered Postings"
	}

	// 4. Alias pass, then content pass for whatever is left
	claimed := make(map[string]string)
	mapped := make([]*ColumnMeta, len(columns))

	claim := func(i int, target, how string) bool {
		if prev, taken := claimed[target]; taken {
			config.SkippedColumns = append(config.SkippedColumns, SkippedColumn{
				Column:      columns[i].header,
				Reason:      fmt.Sprintf("%s already mapped from %q", target, prev),
				Recoverable: true,
			})
			return false
		}
		claimed[target] = columns[i].header
		meta := columns[i].toColumn(target, how)
		mapped[i] = &meta
		return true
	}

	handled := make([]bool, len(columns))
	for i, col := range columns {
		if t, ok := overrides[col.key]; ok {
			claim(i, t, "override")
			handled[i] = true
			continue
		}
		if t, ok := headerAliases[col.key]; ok {
			claim(i, t, "alias")
			handled[i] = true
		}
	}
	for i, col := range columns {
		if handled[i] {
			continue
		}
		t := col.sniffTarget()
		if t == "" {
			config.SkippedColumns = append(config.SkippedColumns, SkippedColumn{
				Column:      col.header,
				Reason:      col.skipReason(),
				Recoverable: col.nonNull > 0,
			})
			continue
		}
		if _, taken := claimed[t]; taken {
			config.SkippedColumns = append(config.SkippedColumns, SkippedColumn{
				Column:      col.header,
				Reason:      fmt.Sprintf("looks like %s but it is already mapped", t),
				Recoverable: true,
			})
			continue
		}
		claim(i, t, "content")
	}

	for _, m := range mapped {
		if m != nil {
			config.Columns = append(config.Columns, *m)
		}
	}
	config.DiscoveredFrom = "CSV"
	config.DiscoveredAt = time.Now().Format(time.RFC3339)

	return config, nil
}

// ============================================================================
// COLUMN ANALYSIS
// ============================================================================

type columnType int

const (
	typeString columnType = iota
	typeNumeric
	typeDate
	typeURL
)

type columnAnalysis struct {
	header string
	key    string
	index  int

	colType     columnType
	uniqueCount int
	nonNull     int
	sampleVals  []string

	cardinalityHint string
}

// analyzeColumn inspects all values in a column.
func analyzeColumn(header string, index int, rows [][]string) columnAnalysis {
	col := columnAnalysis{
		header: header,
		key:    toSnakeCase(header),
		index:  index,
	}

	values := make([]string, 0, len(rows))
	uniqueSet := make(map[string]bool)
	for _, row := range rows {
		if index >= len(row) {
			continue
		}
		val := strings.TrimSpace(row[index])
		if val == "" || val == "null" || val == "NULL" || val == "N/A" || val == "n/a" {
			continue
		}
		values = append(values, val)
		uniqueSet[val] = true
	}

	col.nonNull = len(values)
	col.uniqueCount = len(uniqueSet)
	col.sampleVals = collectSamples(uniqueSet, 10)
	col.colType = detectType(values)

	switch {
	case col.uniqueCount <= 10:
		col.cardinalityHint = "low"
	case col.uniqueCount <= 100:
		col.cardinalityHint = "medium"
	default:
		col.cardinalityHint = "high"
	}
	return col
}

// sniffTarget maps an unnamed column by its content. Only unambiguous
// shapes are claimed.
func (col *columnAnalysis) sniffTarget() string {
	switch col.colType {
	case typeDate:
		return TargetDatePosted
	case typeURL:
		return TargetPostingURL
	}
	return ""
}

func (col *columnAnalysis) skipReason() string {
	if col.nonNull == 0 {
		return "All values are empty/null"
	}
	return "No matching record field"
}

func (col *columnAnalysis) toColumn(target, how string) ColumnMeta {
	meta := DefaultColumn(col.header, col.index, target)
	meta.SampleValues = col.sampleVals
	meta.CardinalityHint = col.cardinalityHint
	meta.Matched = how
	return meta
}

// ============================================================================
// TYPE DETECTION
// ============================================================================

// detectType requires 80%+ of non-null values to match for date/url/numeric.
func detectType(values []string) columnType {
	if len(values) == 0 {
		return typeString
	}

	numCount, dateCount, urlCount := 0, 0, 0
	for _, v := range values {
		if isNumeric(v) {
			numCount++
		}
		if isISODate(v) {
			dateCount++
		}
		if isURL(v) {
			urlCount++
		}
	}

	threshold := int(float64(len(values)) * 0.8)
	if threshold == 0 {
		threshold = 1
	}

	switch {
	case dateCount >= threshold:
		return typeDate
	case urlCount >= threshold:
		return typeURL
	case numCount >= threshold:
		return typeNumeric
	}
	return typeString
}

func isNumeric(s string) bool {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "") // handle "1,234.56"
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimPrefix(s, "€")
	s = strings.TrimPrefix(s, "£")
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func isISODate(s string) bool {
	_, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	return err == nil
}

func isURL(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// ============================================================================
// STRING UTILITIES
// ============================================================================

// toSnakeCase converts "Column Name" or "columnName" → "column_name".
func toSnakeCase(s string) string {
	var result strings.Builder
	prev := rune(0)
	for i, r := range strings.TrimSpace(s) {
		if unicode.IsUpper(r) && i > 0 && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
			result.WriteRune('_')
		}
		result.WriteRune(r)
		prev = r
	}

	s = strings.ToLower(result.String())
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return strings.Trim(s, "_")
}

// toDisplayName cleans a header for human display.
// "date_posted" → "Date Posted", "datePosted" → "Date Posted"
func toDisplayName(s string) string {
	if strings.Contains(s, " ") {
		return strings.TrimSpace(s)
	}

	words := strings.Fields(strings.ReplaceAll(toSnakeCase(s), "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// collectSamples picks up to maxSamples representative values.
func collectSamples(uniqueSet map[string]bool, maxSamples int) []string {
	samples := make([]string, 0, len(uniqueSet))
	for v := range uniqueSet {
		samples = append(samples, v)
	}

	// Sort for deterministic output
	sort.Strings(samples)

	if len(samples) > maxSamples {
		samples = samples[:maxSamples]
	}
	return samples
}
