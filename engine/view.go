package engine

// ============================================================================
// RECORD VIEW — Read-only indexed access to postings
// ============================================================================
// The engine never mutates consumer data. It reads through this interface.
//
// Implementations:
//   Store          — the immutable record store (owns a private copy)
//   SubView        — filtered subset (indices into parent, no record copy)
//   DomainView[T]  — reads host structs via accessor functions
// ============================================================================

// RecordView provides indexed access to a sequence of Records.
// Implementations must be safe for concurrent readers.
type RecordView interface {
	Len() int
	At(index int) Record
}

// Collect materializes a view into a freshly allocated slice.
func Collect(view RecordView) []Record {
	if view == nil {
		return nil
	}
	out := make([]Record, view.Len())
	for i := range out {
		out[i] = view.At(i)
	}
	return out
}

// ============================================================================
// STORE — immutable record collection
// ============================================================================

// Store is the Record Store. It copies its input so later writes to the
// caller's slice cannot leak into computations.
type Store struct {
	records []Record
}

// NewStore creates a Store from records.
func NewStore(records []Record) *Store {
	cp := make([]Record, len(records))
	copy(cp, records)
	return &Store{records: cp}
}

func (s *Store) Len() int { return len(s.records) }

func (s *Store) At(i int) Record {
	if i < 0 || i >= len(s.records) {
		return Record{}
	}
	return s.records[i]
}

// Records returns a copy of every record in load order.
func (s *Store) Records() []Record { return Collect(s) }

// ============================================================================
// SUB VIEW — filtered subset
// ============================================================================

// SubView is a filtered subset of a parent RecordView.
// Holds indices into the parent, never records.
type SubView struct {
	parent  RecordView
	indices []int
}

func newSubView(parent RecordView, indices []int) RecordView {
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int { return len(v.indices) }

func (v *SubView) At(i int) Record {
	if i < 0 || i >= len(v.indices) {
		return Record{}
	}
	return v.parent.At(v.indices[i])
}

// ============================================================================
// DOMAIN ADAPTER — host structs without conversion
// ============================================================================
//
// Usage:
//
//	adapter := engine.NewDomainAdapter[Posting]().
//	    ID(func(p Posting) string { return p.Key }).
//	    Field(engine.FieldTitle, func(p Posting) string { return p.Name }).
//	    Wage(func(p Posting) float64 { return p.Salary })
//
//	view := adapter.Bind(postings)
//	snap := engine.Execute(view, state, time.Now())
//
// ============================================================================

// DomainAdapter builds a RecordView from typed structs.
// Declare once, bind many times.
type DomainAdapter[T any] struct {
	id     func(T) string
	fields map[Field]func(T) string
	date   func(T) string
	wage   func(T) float64
	url    func(T) string
}

// NewDomainAdapter creates a new adapter for type T.
func NewDomainAdapter[T any]() *DomainAdapter[T] {
	return &DomainAdapter[T]{fields: make(map[Field]func(T) string)}
}

// ID registers the id accessor.
func (a *DomainAdapter[T]) ID(fn func(T) string) *DomainAdapter[T] {
	a.id = fn
	return a
}

// Field registers an accessor for a categorical or text field.
func (a *DomainAdapter[T]) Field(f Field, fn func(T) string) *DomainAdapter[T] {
	a.fields[f] = fn
	return a
}

// DatePosted registers the posting date accessor (YYYY-MM-DD).
func (a *DomainAdapter[T]) DatePosted(fn func(T) string) *DomainAdapter[T] {
	a.date = fn
	return a
}

// Wage registers the wage accessor.
func (a *DomainAdapter[T]) Wage(fn func(T) float64) *DomainAdapter[T] {
	a.wage = fn
	return a
}

// PostingURL registers the posting URL accessor.
func (a *DomainAdapter[T]) PostingURL(fn func(T) string) *DomainAdapter[T] {
	a.url = fn
	return a
}

// Bind creates a RecordView over data. Holds a reference; the caller must
// not mutate data while the view is in use.
func (a *DomainAdapter[T]) Bind(data []T) RecordView {
	fields := make(map[Field]func(T) string, len(a.fields))
	for k, fn := range a.fields {
		fields[k] = fn
	}
	return &DomainView[T]{data: data, id: a.id, fields: fields, date: a.date, wage: a.wage, url: a.url}
}

// DomainView reads typed struct fields via registered accessor functions.
type DomainView[T any] struct {
	data   []T
	id     func(T) string
	fields map[Field]func(T) string
	date   func(T) string
	wage   func(T) float64
	url    func(T) string
}

func (v *DomainView[T]) Len() int { return len(v.data) }

func (v *DomainView[T]) At(i int) Record {
	if i < 0 || i >= len(v.data) {
		return Record{}
	}
	item := v.data[i]
	str := func(f Field) string {
		if fn, ok := v.fields[f]; ok {
			return fn(item)
		}
		return ""
	}
	r := Record{
		Title:                str(FieldTitle),
		Employer:             str(FieldEmployer),
		Location:             str(FieldLocation),
		Status:               str(FieldStatus),
		Category:             str(FieldCategory),
		SourceOccupationCode: str(FieldSourceOccupationCode),
	}
	if v.id != nil {
		r.ID = v.id(item)
	}
	if v.date != nil {
		r.DatePosted = v.date(item)
	}
	if v.wage != nil {
		r.Wage = v.wage(item)
	}
	if v.url != nil {
		r.PostingURL = v.url(item)
	}
	return r
}
