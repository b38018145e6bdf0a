package engine

import (
	"strings"
	"sync"
	"time"
)

// ============================================================================
// EXECUTOR — One full recomputation
// ============================================================================
// Entry point: Execute(view, state, ref, opts...)
//
// Pipeline:
//   1. Apply the filter state → SubView
//   2. Feed the subset to every consumer:
//        Summarize · Rank(employer) · Rank(category) · ExtractPhrases · Bucketize
//   3. Merge diagnostics and report them once
//   4. Return Snapshot
//
// Nothing here blocks or performs I/O. With WithParallel(true) the consumers
// run concurrently; the subset is shared read-only and each consumer writes
// only its own Snapshot field.
// ============================================================================

// Execute runs the filter pipeline and derives every result from the subset.
// Equal inputs always produce equal snapshots, in sequential and parallel mode.
func Execute(view RecordView, state FilterState, ref time.Time, opts ...Option) *Snapshot {
	cfg := applyOptions(opts)
	refDate := DateOf(ref)

	cfg.Logger.Debug().
		Int("records", view.Len()).
		Str("ref", refDate.String()).
		Bool("parallel", cfg.Parallel).
		Msg("executing")

	// 1. Filter
	filtered, diag := applyFilters(view, state, cfg)

	snap := &Snapshot{
		ReferenceDate: refDate.String(),
		Filter:        state,
		View:          filtered,
	}

	// 2. Consumers
	var freshSkipped []string
	consumers := []func(){
		func() { snap.Records = Collect(filtered) },
		func() { snap.Stats = Summarize(filtered) },
		func() { snap.ByEmployer = Rank(filtered, FieldEmployer) },
		func() { snap.ByCategory = Rank(filtered, FieldCategory) },
		func() { snap.Phrases = extractPhrases(filtered, cfg) },
		func() { snap.Freshness, freshSkipped = bucketize(filtered, refDate, cfg) },
	}

	if cfg.Parallel {
		var wg sync.WaitGroup
		wg.Add(len(consumers))
		for _, fn := range consumers {
			go func(fn func()) {
				defer wg.Done()
				fn()
			}(fn)
		}
		wg.Wait()
	} else {
		for _, fn := range consumers {
			fn()
		}
	}

	// 3. Diagnostics, surfaced once per computation
	snap.Diagnostics = diag.merge(Diagnostics{Skipped: freshSkipped})
	if !snap.Diagnostics.Empty() {
		cfg.Logger.Warn().
			Int("skipped", len(snap.Diagnostics.Skipped)).
			Strs("skipped_ids", snap.Diagnostics.Skipped).
			Str("warnings", strings.Join(snap.Diagnostics.Warnings, "; ")).
			Msg("records excluded from computation")
	}

	cfg.Logger.Debug().
		Int("visible", snap.Stats.Total).
		Int("phrases", len(snap.Phrases)).
		Msg("snapshot ready")

	return snap
}
