package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// ============================================================================
// AGGREGATORS — Summary statistics and group-by rankings via RecordView
// ============================================================================
// All functions operate on RecordView and allocate their own output.
// Grouping walks the view in order so first-seen order is explicit, never
// taken from map iteration.
// ============================================================================

// Summarize computes the aggregate summary of a subset.
func Summarize(view RecordView) Stats {
	s := Stats{Total: view.Len()}
	if s.Total == 0 {
		return s
	}

	employers := make(map[string]bool)
	var sum float64
	minWage, maxWage := math.Inf(1), math.Inf(-1)

	for i := 0; i < view.Len(); i++ {
		r := view.At(i)
		employers[r.Employer] = true
		if !r.HasWage() {
			continue
		}
		s.WithWage++
		sum += r.Wage
		minWage = math.Min(minWage, r.Wage)
		maxWage = math.Max(maxWage, r.Wage)
	}

	s.DistinctEmployers = len(employers)
	if s.WithWage > 0 {
		s.AverageWage = int(math.Round(sum / float64(s.WithWage)))
		s.MinWage = int(math.Round(minWage))
		s.MaxWage = int(math.Round(maxWage))
	}
	return s
}

// Rank counts records per value of field, sorted by count descending.
// Ties keep the order in which values first appeared in the view.
func Rank(view RecordView, field Field) []GroupCount {
	groups := groupByField(view, field)
	SortGroups(groups)
	return groups
}

// RankTop is Rank limited to the first limit entries (0 = all).
func RankTop(view RecordView, field Field, limit int) []GroupCount {
	groups := Rank(view, field)
	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}
	return groups
}

// DistinctCount returns the number of distinct values of field in the view.
func DistinctCount(view RecordView, field Field) int {
	seen := make(map[string]bool)
	for i := 0; i < view.Len(); i++ {
		seen[field.Value(view.At(i))] = true
	}
	return len(seen)
}

// ============================================================================
// GROUPING
// ============================================================================

// groupByField returns one entry per distinct value in first-seen order.
func groupByField(view RecordView, field Field) []GroupCount {
	pos := make(map[string]int)
	groups := make([]GroupCount, 0)

	for i := 0; i < view.Len(); i++ {
		key := field.Value(view.At(i))
		idx, exists := pos[key]
		if !exists {
			idx = len(groups)
			pos[key] = idx
			groups = append(groups, GroupCount{Value: key})
		}
		groups[idx].Count++
	}
	return groups
}

// ============================================================================
// SORTING
// ============================================================================

// SortGroups orders groups by count descending. The sort is stable, so a
// first-seen ordered input keeps first-seen order among equal counts.
func SortGroups(groups []GroupCount) {
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Count > groups[j].Count })
}

// ============================================================================
// FORMATTING UTILITIES
// ============================================================================

// FormatWage formats a wage with a currency prefix and comma separators.
// Zero renders as "—", the no-data marker.
func FormatWage(amount int, currency string) string {
	if amount == 0 {
		return "—"
	}
	return currency + FormatInt(amount)
}

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	if n < 0 {
		return "-" + FormatInt(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", FormatInt(n/1000), n%1000)
}

// Percent returns part/whole*100 rounded to one decimal, 0 when whole is 0.
func Percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*1000) / 10
}

// LabelForField returns a capitalized label for a field.
func LabelForField(field Field) string {
	switch field {
	case FieldSourceOccupationCode:
		return "Occupation Code"
	case "":
		return ""
	}
	s := string(field)
	return strings.ToUpper(s[:1]) + s[1:]
}
