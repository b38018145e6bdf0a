package engine

import "encoding/json"

// ============================================================================
// INCLUSION SET — "keep if value is in this set"
// ============================================================================
// Persistent: With / Without / Toggle return a new set and leave the
// receiver untouched, so one base set can back several derived views.
// Insertion order is kept so output built from a set is deterministic.
// ============================================================================

// InclusionSet is an immutable set of field values.
type InclusionSet struct {
	order []string
	index map[string]struct{}
}

// NewInclusionSet builds a set from values. Duplicates collapse to the first occurrence.
func NewInclusionSet(values ...string) *InclusionSet {
	s := &InclusionSet{
		order: make([]string, 0, len(values)),
		index: make(map[string]struct{}, len(values)),
	}
	for _, v := range values {
		if _, ok := s.index[v]; ok {
			continue
		}
		s.index[v] = struct{}{}
		s.order = append(s.order, v)
	}
	return s
}

// Len returns the number of members. A nil set has none.
func (s *InclusionSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Contains reports membership.
func (s *InclusionSet) Contains(v string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[v]
	return ok
}

// Values returns the members in insertion order.
func (s *InclusionSet) Values() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.order...)
}

// With returns a set that also contains v.
func (s *InclusionSet) With(v string) *InclusionSet {
	if s.Contains(v) {
		return s
	}
	return NewInclusionSet(append(s.Values(), v)...)
}

// Without returns a set that does not contain v.
func (s *InclusionSet) Without(v string) *InclusionSet {
	if !s.Contains(v) {
		if s == nil {
			return NewInclusionSet()
		}
		return s
	}
	kept := make([]string, 0, len(s.order)-1)
	for _, m := range s.order {
		if m != v {
			kept = append(kept, m)
		}
	}
	return NewInclusionSet(kept...)
}

// Toggle adds v when absent and removes it when present.
func (s *InclusionSet) Toggle(v string) *InclusionSet {
	if s.Contains(v) {
		return s.Without(v)
	}
	return s.With(v)
}

// Equal compares membership, ignoring order.
func (s *InclusionSet) Equal(o *InclusionSet) bool {
	if s.Len() != o.Len() {
		return false
	}
	for _, v := range s.Values() {
		if !o.Contains(v) {
			return false
		}
	}
	return true
}

// covers reports whether the set has exactly the given distinct values.
func (s *InclusionSet) covers(distinct []string) bool {
	return s.Equal(NewInclusionSet(distinct...))
}

// MarshalJSON encodes the set as an array in insertion order.
func (s *InclusionSet) MarshalJSON() ([]byte, error) {
	vals := s.Values()
	if vals == nil {
		vals = []string{}
	}
	return json.Marshal(vals)
}

// UnmarshalJSON decodes an array of strings.
func (s *InclusionSet) UnmarshalJSON(data []byte) error {
	var vals []string
	if err := json.Unmarshal(data, &vals); err != nil {
		return err
	}
	*s = *NewInclusionSet(vals...)
	return nil
}
