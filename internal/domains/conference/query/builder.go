// Package query translates ordered client filters into SQL fragments
// for the conference search endpoint.
package query

import (
	"errors"
	"fmt"
	"strconv"
)

// Filter is one client-supplied condition in a search request.
type Filter struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

var (
	ErrUnknownField              = errors.New("unknown filter field")
	ErrUnknownOperator           = errors.New("unknown filter operator")
	ErrMultipleInequalityFilters = errors.New("inequality filters are allowed on only one field")
	ErrInvalidNumericValue       = errors.New("filter value must be numeric")
)

// operators maps wire operator names to SQL.
var operators = map[string]string{
	"EQ":   "=",
	"GT":   ">",
	"GTEQ": ">=",
	"LT":   "<",
	"LTEQ": "<=",
	"NE":   "<>",
}

type fieldSpec struct {
	column  string
	numeric bool
	// topics is an array column and compares element-wise
	array bool
}

var fields = map[string]fieldSpec{
	"CITY":          {column: "city"},
	"TOPIC":         {column: "topics", array: true},
	"MONTH":         {column: "month", numeric: true},
	"MAX_ATTENDEES": {column: "max_attendees", numeric: true},
}

// Query is the rendered output: WHERE fragments with numbered
// placeholders, their arguments, and the ORDER BY columns.
type Query struct {
	Where   []string
	Args    []interface{}
	OrderBy []string
}

// Build validates and renders the filters.
//
// At most one distinct field may carry an inequality operator. When one
// does, results are ordered by that field first and name second, which
// mirrors how an index-backed inequality scan would return them.
func Build(filters []Filter) (*Query, error) {
	q := &Query{}
	inequalityField := ""

	for _, f := range filters {
		spec, ok := fields[f.Field]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, f.Field)
		}

		op, ok := operators[f.Operator]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownOperator, f.Operator)
		}

		if f.Operator != "EQ" {
			if inequalityField != "" && inequalityField != f.Field {
				return nil, ErrMultipleInequalityFilters
			}
			inequalityField = f.Field
		}

		var arg interface{} = f.Value
		if spec.numeric {
			n, err := strconv.Atoi(f.Value)
			if err != nil {
				return nil, fmt.Errorf("%w: %s=%q", ErrInvalidNumericValue, f.Field, f.Value)
			}
			arg = n
		}

		q.Args = append(q.Args, arg)
		placeholder := fmt.Sprintf("$%d", len(q.Args))

		switch {
		case spec.array && f.Operator == "EQ":
			q.Where = append(q.Where, fmt.Sprintf("%s = ANY(%s)", placeholder, spec.column))
		case spec.array:
			// Any element satisfying the comparison matches
			q.Where = append(q.Where, fmt.Sprintf(
				"EXISTS (SELECT 1 FROM unnest(%s) AS topic WHERE topic %s %s)",
				spec.column, op, placeholder))
		default:
			q.Where = append(q.Where, fmt.Sprintf("%s %s %s", spec.column, op, placeholder))
		}
	}

	if inequalityField != "" {
		col := fields[inequalityField].column
		q.OrderBy = append(q.OrderBy, col)
		if col != "name" {
			q.OrderBy = append(q.OrderBy, "name")
		}
	} else {
		q.OrderBy = []string{"name"}
	}

	return q, nil
}
