package engine

// ============================================================================
// WAGE BANDS — Mutually exclusive wage selectors
// ============================================================================

// WageBand is the tag of a wage selector. Empty means no restriction.
type WageBand string

const (
	WageListed    WageBand = "has-wage"
	WageUnlisted  WageBand = "no-wage"
	Wage150kPlus  WageBand = "150k-plus"
	Wage100to150k WageBand = "100k-150k"
	Wage50to100k  WageBand = "50k-100k"
	WageUnder50k  WageBand = "under-50k"
)

// WageRule describes one band. Min is inclusive, Max exclusive; Max 0 means
// unbounded. Unlisted selects records without a wage and ignores Min/Max.
// Listed bands never match an unlisted wage.
type WageRule struct {
	Band     WageBand `json:"band"`
	Label    string   `json:"label"`
	Min      float64  `json:"min"`
	Max      float64  `json:"max"`
	Unlisted bool     `json:"unlisted,omitempty"`
}

// DefaultWageBands is the band table used unless WithWageBands overrides it.
var DefaultWageBands = []WageRule{
	{Band: WageListed, Label: "Has wage listed"},
	{Band: WageUnlisted, Label: "No wage listed", Unlisted: true},
	{Band: Wage150kPlus, Label: "$150k+", Min: 150000},
	{Band: Wage100to150k, Label: "$100k–$150k", Min: 100000, Max: 150000},
	{Band: Wage50to100k, Label: "$50k–$100k", Min: 50000, Max: 100000},
	{Band: WageUnder50k, Label: "Under $50k", Max: 50000},
}

// Matches reports whether wage falls in the band.
func (w WageRule) Matches(wage float64) bool {
	if !listedWage(wage) {
		return w.Unlisted
	}
	if w.Unlisted {
		return false
	}
	if wage < w.Min {
		return false
	}
	return w.Max <= 0 || wage < w.Max
}

// LookupWageBand finds a band in table; ok is false for unknown tags.
func LookupWageBand(table []WageRule, band WageBand) (WageRule, bool) {
	for _, r := range table {
		if r.Band == band {
			return r, true
		}
	}
	return WageRule{}, false
}
