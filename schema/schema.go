package schema

import (
	perr "github.com/spektr-org/jobsift/internal/platform/errors"
	"github.com/spektr-org/jobsift/internal/platform/validate"
)

// ============================================================================
// SCHEMA — Maps the columns of a tabular source onto record fields
// ============================================================================
// Auto-discovered from CSV headers (DiscoverFromCSV) or written by hand and
// loaded as JSON. The loader uses it to find each record field in a row.
// ============================================================================

// Record field targets a column may map to.
const (
	TargetID                   = "id"
	TargetTitle                = "title"
	TargetEmployer             = "employer"
	TargetLocation             = "location"
	TargetDatePosted           = "datePosted"
	TargetStatus               = "status"
	TargetWage                 = "wage"
	TargetCategory             = "category"
	TargetSourceOccupationCode = "sourceOccupationCode"
	TargetPostingURL           = "postingUrl"
)

// Targets lists every mappable record field in canonical column order.
var Targets = []string{
	TargetID, TargetTitle, TargetEmployer, TargetLocation, TargetDatePosted,
	TargetStatus, TargetWage, TargetCategory, TargetSourceOccupationCode, TargetPostingURL,
}

// Config describes how a dataset's columns become records.
type Config struct {
	Name    string `json:"name" validate:"required"`
	Version string `json:"version,omitempty"`

	Columns []ColumnMeta `json:"columns" validate:"required,dive"`

	// Auto-discovery metadata
	DiscoveredFrom string `json:"discoveredFrom,omitempty"`
	DiscoveredAt   string `json:"discoveredAt,omitempty"`

	// Columns left unmapped during auto-discovery
	SkippedColumns []SkippedColumn `json:"skippedColumns,omitempty"`
}

// ColumnMeta binds one source column to one record field.
type ColumnMeta struct {
	Header          string   `json:"header" validate:"required"`
	Index           int      `json:"index" validate:"min=0"`
	Target          string   `json:"target" validate:"required,oneof=id title employer location datePosted status wage category sourceOccupationCode postingUrl"`
	DisplayName     string   `json:"displayName"`
	SampleValues    []string `json:"sampleValues,omitempty"`
	CardinalityHint string   `json:"cardinalityHint,omitempty"` // "low", "medium", "high"
	Matched         string   `json:"matched,omitempty"`         // "alias" or "content"
}

// SkippedColumn records why a column was excluded during auto-discovery.
type SkippedColumn struct {
	Column      string `json:"column"`
	Reason      string `json:"reason"`
	Recoverable bool   `json:"recoverable"` // Can be mapped by hand
}

// DefaultColumn creates a ColumnMeta with a display name derived from the header.
func DefaultColumn(header string, index int, target string) ColumnMeta {
	return ColumnMeta{
		Header:      header,
		Index:       index,
		Target:      target,
		DisplayName: toDisplayName(header),
	}
}

// Canonical returns the schema of a file whose header row is exactly Targets,
// which is what the CSV exporter writes.
func Canonical() *Config {
	cols := make([]ColumnMeta, len(Targets))
	for i, t := range Targets {
		cols[i] = DefaultColumn(t, i, t)
	}
	return &Config{Name: "Job Postings", Version: "1.0", Columns: cols}
}

// Column returns the column mapped to target.
func (c Config) Column(target string) (ColumnMeta, bool) {
	for _, col := range c.Columns {
		if col.Target == target {
			return col, true
		}
	}
	return ColumnMeta{}, false
}

// MappedTargets returns the record fields this schema can fill, in column order.
func (c Config) MappedTargets() []string {
	keys := make([]string, len(c.Columns))
	for i, col := range c.Columns {
		keys[i] = col.Target
	}
	return keys
}

// Validate checks the schema is usable by the loader: well-formed columns,
// a title column, and no field mapped twice.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	seen := make(map[string]string, len(c.Columns))
	for _, col := range c.Columns {
		if prev, ok := seen[col.Target]; ok {
			return perr.WithField(perr.Validationf("columns %q and %q both map to %s", prev, col.Header, col.Target), "columns")
		}
		seen[col.Target] = col.Header
	}
	if _, ok := seen[TargetTitle]; !ok {
		return perr.WithField(perr.Validationf("schema %q has no title column", c.Name), "columns")
	}
	return nil
}
