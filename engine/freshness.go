package engine

import (
	"fmt"
	"time"
)

// ============================================================================
// FRESHNESS — Exclusive recency bands relative to a reference date
// ============================================================================
// Edges [5 10 30 60] produce:
//   0–5 days | 6–10 days | 11–30 days | 31–60 days | 61+ days
// Age is counted in calendar days from civil-date day numbers, never by
// dividing durations. Postings dated after the reference land in the first
// band. Records with unparseable dates are returned as skipped ids.
// ============================================================================

// Bucketize partitions the view into freshness bands relative to ref.
func Bucketize(view RecordView, ref time.Time, opts ...Option) ([]Bucket, []string) {
	return bucketize(view, DateOf(ref), applyOptions(opts))
}

func bucketize(view RecordView, ref Date, cfg *config) ([]Bucket, []string) {
	buckets := FreshnessBands(cfg.FreshnessEdges)
	var skipped []string

	for i := 0; i < view.Len(); i++ {
		r := view.At(i)
		posted, ok := ParseDate(r.DatePosted)
		if !ok {
			skipped = append(skipped, r.ID)
			continue
		}
		buckets[bandIndex(buckets, DaysBetween(posted, ref))].Count++
	}

	cfg.Logger.Debug().
		Str("ref", ref.String()).
		Int("records", view.Len()).
		Int("skipped", len(skipped)).
		Msg("freshness bucketed")

	return buckets, appendUnique(nil, skipped...)
}

// FreshnessBands returns empty, ordered bands for the given edges.
func FreshnessBands(edges []int) []Bucket {
	if !validEdges(edges) {
		edges = DefaultFreshnessEdges
	}
	out := make([]Bucket, 0, len(edges)+1)
	lo := 0
	for _, hi := range edges {
		out = append(out, Bucket{Label: fmt.Sprintf("%d–%d days", lo, hi), MinDays: lo, MaxDays: hi})
		lo = hi + 1
	}
	out = append(out, Bucket{Label: fmt.Sprintf("%d+ days", lo), MinDays: lo, MaxDays: -1})
	return out
}

func bandIndex(buckets []Bucket, age int) int {
	for i, b := range buckets {
		if b.MaxDays < 0 || age <= b.MaxDays {
			return i
		}
	}
	return len(buckets) - 1
}
