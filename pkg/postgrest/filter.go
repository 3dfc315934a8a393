package postgrest

import "fmt"

// Operator is a comparison operator for query filters. Each value maps to
// the PostgREST operator code used on the wire.
type Operator int

const (
	Equals Operator = iota
	NotEquals
	GreaterThan
	LessThan
	GreaterThanOrEquals
	LessThanOrEquals
)

// Code returns the PostgREST operator code: eq, neq, gt, lt, gte, lte.
func (o Operator) Code() string {
	switch o {
	case Equals:
		return "eq"
	case NotEquals:
		return "neq"
	case GreaterThan:
		return "gt"
	case LessThan:
		return "lt"
	case GreaterThanOrEquals:
		return "gte"
	case LessThanOrEquals:
		return "lte"
	default:
		return "eq"
	}
}

// SortOrder is the direction of a Sort.
type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

func (s SortOrder) String() string {
	if s == Descending {
		return "desc"
	}
	return "asc"
}

// Filter is a single filter condition. Column and Value are passed through
// verbatim: reserved query-string characters in Value are not escaped.
type Filter struct {
	Column   string
	Value    string
	Operator Operator
}

// NewFilter constructs a Filter.
func NewFilter(column string, operator Operator, value string) Filter {
	return Filter{Column: column, Operator: operator, Value: value}
}

// String renders the filter as a PostgREST query fragment, e.g. "age.gt=30".
func (f Filter) String() string {
	return fmt.Sprintf("%s.%s=%s", f.Column, f.Operator.Code(), f.Value)
}

// Sort is a sorting criterion. Multiple sorts apply in append order.
type Sort struct {
	Column string
	Order  SortOrder
}

// String renders the sort as a PostgREST order fragment, e.g. "name.asc".
func (s Sort) String() string {
	return fmt.Sprintf("%s.%s", s.Column, s.Order)
}
