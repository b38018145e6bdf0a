package main

import (
	"github.com/rs/zerolog"

	"github.com/spektr-org/jobsift/engine"
	"github.com/spektr-org/jobsift/internal/platform/config"
)

// settings are the JOBSIFT_* environment knobs. Flags override Format.
type settings struct {
	Format         string
	Currency       string
	MaxPhrases     int
	MinSupport     int
	NGramSizes     []int
	ExtraStopWords []string
	FreshnessEdges []int
	Parallel       bool
	TopGroups      int
}

func loadSettings() settings {
	c := config.New().Prefix("JOBSIFT_")
	return settings{
		Format:         c.MayEnum("FORMAT", "json", "json", "pretty", "text", "csv"),
		Currency:       c.MayString("CURRENCY", "$"),
		MaxPhrases:     c.MayInt("MAX_PHRASES", engine.DefaultMaxPhrases),
		MinSupport:     c.MayInt("MIN_SUPPORT", engine.DefaultMinSupport),
		NGramSizes:     c.MayInts("NGRAM_SIZES", engine.DefaultNGramSizes),
		ExtraStopWords: c.MayCSV("EXTRA_STOP_WORDS", nil),
		FreshnessEdges: c.MayInts("FRESHNESS_EDGES", engine.DefaultFreshnessEdges),
		Parallel:       c.MayBool("PARALLEL", false),
		TopGroups:      c.MayInt("TOP_GROUPS", 10),
	}
}

// engineOptions maps settings onto engine options. Out-of-range values are
// ignored by the options themselves.
func (s settings) engineOptions(log zerolog.Logger) []engine.Option {
	opts := []engine.Option{
		engine.WithLogger(log),
		engine.WithMaxPhrases(s.MaxPhrases),
		engine.WithMinSupport(s.MinSupport),
		engine.WithNGramSizes(s.NGramSizes...),
		engine.WithFreshnessEdges(s.FreshnessEdges...),
		engine.WithParallel(s.Parallel),
	}
	if len(s.ExtraStopWords) > 0 {
		opts = append(opts, engine.WithExtraStopWords(s.ExtraStopWords...))
	}
	return opts
}
