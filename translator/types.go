package translator

// ============================================================================
// TRANSLATOR — User filter requests → engine.FilterState
// ============================================================================
// A Request is what a person writes: a JSON filter file or a set of CLI
// flags. It is validated once here so the engine only ever sees a
// well-formed FilterState.
//
//   JSON file ──ParseFilterJSON──┐
//                                ├── Request ──validate──► engine.FilterState
//   Values   ──FromValues───────┘
// ============================================================================

// Request is a filter request before validation.
//
// List fields distinguish "absent" (nil, no restriction) from "present but
// empty" ([] in JSON, which excludes everything).
type Request struct {
	Category  string   `json:"category,omitempty" validate:"max=200"`
	Employers []string `json:"employers,omitempty" validate:"omitempty,dive,required"`
	Locations []string `json:"locations,omitempty" validate:"omitempty,dive,required"`
	Statuses  []string `json:"statuses,omitempty" validate:"omitempty,dive,required"`
	Wage      string   `json:"wage,omitempty" validate:"omitempty,wageband"`
	DateFrom  string   `json:"dateFrom,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DateTo    string   `json:"dateTo,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Query     string   `json:"query,omitempty" validate:"max=500"`
}

// Values carries repeated filter parameters by key, as collected from flags.
// Recognized keys are the Key* constants; list keys may repeat.
type Values map[string][]string

// Value keys.
const (
	KeyCategory = "category"
	KeyEmployer = "employer"
	KeyLocation = "location"
	KeyStatus   = "status"
	KeyWage     = "wage"
	KeyFrom     = "from"
	KeyTo       = "to"
	KeyQuery    = "q"
)

// Add appends value under key.
func (v Values) Add(key, value string) { v[key] = append(v[key], value) }

// Get returns the last value for key, or "".
func (v Values) Get(key string) string {
	vs := v[key]
	if len(vs) == 0 {
		return ""
	}
	return vs[len(vs)-1]
}
