package engine

import (
	"strings"

	"github.com/rs/zerolog"
)

// ============================================================================
// ENGINE OPTIONS — Functional options for Execute() and the components
// ============================================================================

// Default limits for phrase extraction.
const (
	DefaultMaxPhrases = 15
	DefaultMinSupport = 2
)

// DefaultNGramSizes are the phrase window lengths, in tokens.
var DefaultNGramSizes = []int{2, 3, 4}

// DefaultFreshnessEdges are the inclusive upper day counts of every band but the last.
var DefaultFreshnessEdges = []int{5, 10, 30, 60}

// DefaultStopWords are dropped from titles before phrase mining: common
// English function words plus seniority and qualifier terms.
var DefaultStopWords = []string{
	"a", "an", "and", "or", "the", "of", "for", "in", "on", "at", "to", "with",
	"by", "from", "as", "is", "are", "be", "our", "your", "we", "you", "its",
	"into", "per", "via", "not", "all", "any", "new",
	"senior", "sr", "lead", "principal", "staff", "junior", "jr", "associate",
	"level", "ii", "iii", "iv", "remote",
}

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	Logger         zerolog.Logger
	WageBands      []WageRule
	StopWords      map[string]bool
	MaxPhrases     int
	MinSupport     int
	NGramSizes     []int
	FreshnessEdges []int
	Parallel       bool
}

// WithLogger routes engine logs to l. The default logger discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) {
		c.Logger = l
	}
}

// WithWageBands replaces the wage band table.
func WithWageBands(bands []WageRule) Option {
	return func(c *config) {
		if len(bands) > 0 {
			c.WageBands = append([]WageRule(nil), bands...)
		}
	}
}

// WithStopWords replaces the stop-word list.
func WithStopWords(words []string) Option {
	return func(c *config) {
		c.StopWords = toStopSet(words)
	}
}

// WithExtraStopWords adds words to the current stop-word list.
func WithExtraStopWords(words ...string) Option {
	return func(c *config) {
		merged := make(map[string]bool, len(c.StopWords)+len(words))
		for w := range c.StopWords {
			merged[w] = true
		}
		for w := range toStopSet(words) {
			merged[w] = true
		}
		c.StopWords = merged
	}
}

// WithMaxPhrases caps the number of phrases kept. Non-positive values are ignored.
func WithMaxPhrases(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.MaxPhrases = n
		}
	}
}

// WithMinSupport sets the minimum distinct-record support for a phrase.
// Values below 1 are ignored.
func WithMinSupport(n int) Option {
	return func(c *config) {
		if n >= 1 {
			c.MinSupport = n
		}
	}
}

// WithNGramSizes sets the phrase window lengths. Sizes below 2 are dropped.
func WithNGramSizes(sizes ...int) Option {
	return func(c *config) {
		var kept []int
		for _, n := range sizes {
			if n >= 2 {
				kept = append(kept, n)
			}
		}
		if len(kept) > 0 {
			c.NGramSizes = kept
		}
	}
}

// WithFreshnessEdges sets the band edges. Edges must be strictly increasing
// and non-negative; otherwise the option is ignored.
func WithFreshnessEdges(edges ...int) Option {
	return func(c *config) {
		if validEdges(edges) {
			c.FreshnessEdges = append([]int(nil), edges...)
		}
	}
}

// WithParallel runs the consumers of the filtered subset concurrently in Execute.
func WithParallel(on bool) Option {
	return func(c *config) {
		c.Parallel = on
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		Logger:         zerolog.Nop(),
		WageBands:      DefaultWageBands,
		StopWords:      toStopSet(DefaultStopWords),
		MaxPhrases:     DefaultMaxPhrases,
		MinSupport:     DefaultMinSupport,
		NGramSizes:     DefaultNGramSizes,
		FreshnessEdges: DefaultFreshnessEdges,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func toStopSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			set[w] = true
		}
	}
	return set
}

func validEdges(edges []int) bool {
	if len(edges) == 0 {
		return false
	}
	prev := -1
	for _, e := range edges {
		if e <= prev {
			return false
		}
		prev = e
	}
	return true
}
