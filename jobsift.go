// Package jobsift filters a static collection of job postings and derives
// summaries from whatever subset is visible.
//
// Usage:
//
//	import "github.com/spektr-org/jobsift/engine"
//
//	store := engine.NewStore(records)
//	snap := engine.Execute(store, engine.FilterState{
//	    Employers: engine.NewInclusionSet("Oracle"),
//	    Wage:      engine.Wage100to150k,
//	}, time.Now(),
//	    engine.WithMaxPhrases(10),
//	)
//
// A Snapshot holds the filtered records, aggregate statistics, employer and
// category rankings, recurring title phrases, and a freshness histogram.
// The engine never performs I/O; loading (helpers), column mapping (schema),
// and filter requests (translator) live in their own packages.
package jobsift
