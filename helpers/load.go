package helpers

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/spektr-org/jobsift/engine"
)

// ============================================================================
// LOAD RESULT — Records plus what was dropped on the way in
// ============================================================================
// Record identity, in priority order:
//   1. the source's own id column
//   2. the posting URL
//   3. title + employer + date posted
// Options 2 and 3 become name-based UUIDs so ids are stable across loads.
// ============================================================================

// postingNamespace scopes derived posting ids.
var postingNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/spektr-org/jobsift/posting"))

// Loaded is the outcome of parsing one source.
type Loaded struct {
	Records  []engine.Record `json:"records"`
	Rows     int             `json:"rows"`     // data rows read
	Skipped  int             `json:"skipped"`  // rows not turned into records
	Problems []string        `json:"problems"` // one line per skipped row or coerced value
}

// Store wraps the loaded records in an immutable engine store.
func (l *Loaded) Store() *engine.Store { return engine.NewStore(l.Records) }

func (l *Loaded) skip(row int, format string, a ...any) {
	l.Skipped++
	l.problem(row, format, a...)
}

func (l *Loaded) problem(row int, format string, a ...any) {
	l.Problems = append(l.Problems, fmt.Sprintf("row %d: %s", row, fmt.Sprintf(format, a...)))
}

// identities hands out unique record ids for one load.
type identities struct {
	seen map[string]int
}

func newIdentities() *identities { return &identities{seen: make(map[string]int)} }

// assign returns r's id. ok is false when an explicit id repeats.
func (ids *identities) assign(r engine.Record) (string, bool) {
	if id := strings.TrimSpace(r.ID); id != "" {
		if ids.seen[id] > 0 {
			return id, false
		}
		ids.seen[id]++
		return id, true
	}

	name := r.PostingURL
	if name == "" {
		name = strings.Join([]string{r.Title, r.Employer, r.DatePosted}, "\x1f")
	}
	// identical postings still get distinct ids, in load order
	n := ids.seen["\x00"+name]
	ids.seen["\x00"+name]++
	if n > 0 {
		name = fmt.Sprintf("%s\x1f%d", name, n)
	}
	id := uuid.NewSHA1(postingNamespace, []byte(name)).String()
	ids.seen[id]++
	return id, true
}

// ParseWage reads a wage cell. Blank, zero, negative, and unparseable cells
// all mean "not listed"; ok is false for text that is not a finite number.
func ParseWage(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "null") || strings.EqualFold(s, "n/a") {
		return 0, true
	}
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimPrefix(s, "€")
	s = strings.TrimPrefix(s, "£")
	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	if f < 0 {
		return 0, true
	}
	return f, true
}
