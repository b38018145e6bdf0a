package engine

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ============================================================================
// PHRASES — Salient multi-word title phrases
// ============================================================================
// Pipeline:
//   1. Normalize each title to lower-case ASCII tokens
//   2. Drop stop words and one-letter tokens
//   3. Collect contiguous n-grams per title (each phrase once per title)
//   4. Support = distinct titles containing the phrase; drop below MinSupport
//   5. Sort by support desc, first-seen order on ties
//   6. Containment dedup against already-kept phrases
//   7. Stop at MaxPhrases
//   8. Title-case for presentation
// ============================================================================

// titlePunct are separators that become spaces before stripping.
var titlePunct = strings.NewReplacer("-", " ", "/", " ", ",", " ", "(", " ", ")", " ")

// ExtractPhrases mines recurring phrases from record titles in the view.
func ExtractPhrases(view RecordView, opts ...Option) []Phrase {
	return extractPhrases(view, applyOptions(opts))
}

type phraseCandidate struct {
	text    string
	support int
}

func extractPhrases(view RecordView, cfg *config) []Phrase {
	if view.Len() < cfg.MinSupport {
		return []Phrase{}
	}

	byText := make(map[string]*phraseCandidate)
	var order []*phraseCandidate

	for i := 0; i < view.Len(); i++ {
		tokens := tokenize(view.At(i).Title, cfg.StopWords)
		if len(tokens) < 2 {
			continue
		}
		inTitle := make(map[string]bool)
		for _, n := range cfg.NGramSizes {
			for start := 0; start+n <= len(tokens); start++ {
				p := strings.Join(tokens[start:start+n], " ")
				if inTitle[p] {
					continue
				}
				inTitle[p] = true
				c, ok := byText[p]
				if !ok {
					c = &phraseCandidate{text: p}
					byText[p] = c
					order = append(order, c)
				}
				c.support++
			}
		}
	}

	candidates := make([]*phraseCandidate, 0, len(order))
	for _, c := range order {
		if c.support >= cfg.MinSupport {
			candidates = append(candidates, c)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].support > candidates[j].support })

	kept := dedupeByContainment(candidates, cfg.MaxPhrases)

	caser := cases.Title(language.English)
	out := make([]Phrase, len(kept))
	for i, c := range kept {
		out[i] = Phrase{Text: caser.String(c.text), Support: c.support}
	}

	cfg.Logger.Debug().
		Int("records", view.Len()).
		Int("candidates", len(candidates)).
		Int("kept", len(out)).
		Msg("phrases extracted")

	return out
}

// dedupeByContainment walks candidates in rank order. A candidate is dropped
// when it is a substring of a kept phrase, or when a kept phrase is a
// substring of it and its support does not exceed that phrase's support.
// Support is compared raw, without normalizing for phrase length.
func dedupeByContainment(candidates []*phraseCandidate, limit int) []*phraseCandidate {
	kept := make([]*phraseCandidate, 0, limit)
	for _, c := range candidates {
		if len(kept) >= limit {
			break
		}
		redundant := false
		for _, k := range kept {
			if strings.Contains(k.text, c.text) {
				redundant = true
				break
			}
			if strings.Contains(c.text, k.text) && c.support <= k.support {
				redundant = true
				break
			}
		}
		if !redundant {
			kept = append(kept, c)
		}
	}
	return kept
}

// Tokenize returns the phrase-mining tokens of a title under the default
// stop-word list.
func Tokenize(title string) []string {
	return tokenize(title, toStopSet(DefaultStopWords))
}

func tokenize(title string, stop map[string]bool) []string {
	s := titlePunct.Replace(title)

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z':
			b.WriteByte(ch)
		case ch == ' ', ch == '\t', ch == '\n', ch == '\r', ch == '\v', ch == '\f':
			b.WriteByte(ch)
		}
	}

	fields := strings.Fields(strings.ToLower(b.String()))
	tokens := fields[:0]
	for _, t := range fields {
		if len(t) <= 1 || stop[t] {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}
