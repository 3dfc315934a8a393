package postgrest

import "strings"

type param struct {
	key   string
	value string
}

// Query accumulates parameters, filters and sorts for a single request.
// It is created empty by a builder, mutated by chained calls and consumed
// once by Build.
type Query struct {
	params   []param
	filters  []Filter
	sorts    []Sort
	rangeSet bool
	from, to int
}

// NewQuery returns an empty Query.
func NewQuery() *Query {
	return &Query{}
}

// AddParam appends a key/value pair unless the exact same pair is already
// present. Re-adding an identical pair is a no-op; adding the same key with
// a different value appends a second entry. Repeated keys are valid
// PostgREST filters (e.g. two gt/lt bounds form a range query), so this
// method never overwrites. Use SetParam for scalar parameters where the
// last write should win.
func (q *Query) AddParam(key, value string) {
	for _, p := range q.params {
		if p.key == key && p.value == value {
			return
		}
	}
	q.params = append(q.params, param{key: key, value: value})
}

// SetParam sets a scalar parameter, replacing any previous value for the
// key while keeping its original position.
func (q *Query) SetParam(key, value string) {
	for i, p := range q.params {
		if p.key == key {
			q.params[i].value = value
			return
		}
	}
	q.params = append(q.params, param{key: key, value: value})
}

// AddFilter appends a filter condition.
func (q *Query) AddFilter(f Filter) {
	q.filters = append(q.filters, f)
}

// AddSort appends a sorting criterion.
func (q *Query) AddSort(s Sort) {
	q.sorts = append(q.sorts, s)
}

// SetRange records a pagination range. The range travels as a Range header
// rather than in the query string.
func (q *Query) SetRange(from, to int) {
	q.rangeSet = true
	q.from, q.to = from, to
}

// Range returns the pagination range, if set.
func (q *Query) Range() (from, to int, ok bool) {
	return q.from, q.to, q.rangeSet
}

// Build concatenates the query string: params in insertion order, then
// filters, then sorts, sections joined by a single '&'. An empty query
// builds to "".
func (q *Query) Build() string {
	var sb strings.Builder

	for i, p := range q.params {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(p.key)
		sb.WriteByte('=')
		sb.WriteString(p.value)
	}

	for i, f := range q.filters {
		if i > 0 || sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(f.String())
	}

	for i, s := range q.sorts {
		if i > 0 || sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(s.String())
	}

	return sb.String()
}
