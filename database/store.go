package database

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Store errors. Implementations wrap these so callers can test with errors.Is.
var (
	ErrNotFound         = errors.New("record not found")
	ErrConflict         = errors.New("unique constraint violated")
	ErrInvalidReference = errors.New("referenced record does not exist")
	ErrInvalidInput     = errors.New("value rejected by the data store")
	ErrUnavailable      = errors.New("data store unavailable")
)

// Store is the table-oriented data API the repositories talk to. Rows are
// written as JSON-shaped structs and read back into slices of structs.
type Store interface {
	// Select reads the rows matching q into dest, a pointer to a slice.
	Select(ctx context.Context, table string, q *Query, dest any) error
	// Insert writes row, a pointer to a struct, and refreshes it from the stored representation.
	Insert(ctx context.Context, table string, row any) error
	// Update applies patch to the rows matching q and reads them into dest.
	// It returns ErrNotFound when nothing matched.
	Update(ctx context.Context, table string, q *Query, patch map[string]any, dest any) error
	// Upsert inserts row or merges it into the row sharing the onConflict columns.
	Upsert(ctx context.Context, table string, row any, onConflict ...string) error
	// Delete removes the rows matching q. It returns ErrNotFound when nothing matched.
	Delete(ctx context.Context, table string, q *Query) error
	Ping(ctx context.Context) error
}

type Operator string

const (
	OpEq  Operator = "eq"
	OpNeq Operator = "neq"
	OpGte Operator = "gte"
	OpLt  Operator = "lt"
)

var sqlOperators = map[Operator]string{
	OpEq:  "=",
	OpNeq: "<>",
	OpGte: ">=",
	OpLt:  "<",
}

type Filter struct {
	Column string
	Op     Operator
	Value  any
}

type Order struct {
	Column string
	Desc   bool
}

// Query is a conjunction of column filters plus ordering and a row limit.
type Query struct {
	Filters []Filter
	Orders  []Order
	Max     int
}

func NewQuery() *Query {
	return &Query{}
}

// ByID is shorthand for an id equality query.
func ByID(id string) *Query {
	return NewQuery().Eq("id", id)
}

func (q *Query) where(column string, op Operator, value any) *Query {
	q.Filters = append(q.Filters, Filter{Column: column, Op: op, Value: value})
	return q
}

func (q *Query) Eq(column string, value any) *Query  { return q.where(column, OpEq, value) }
func (q *Query) Neq(column string, value any) *Query { return q.where(column, OpNeq, value) }
func (q *Query) Gte(column string, value any) *Query { return q.where(column, OpGte, value) }
func (q *Query) Lt(column string, value any) *Query  { return q.where(column, OpLt, value) }

func (q *Query) OrderBy(column string, desc bool) *Query {
	q.Orders = append(q.Orders, Order{Column: column, Desc: desc})
	return q
}

func (q *Query) Limit(n int) *Query {
	q.Max = n
	return q
}

// Values renders the query as PostgREST query-string parameters.
func (q *Query) Values() url.Values {
	values := url.Values{}
	if q == nil {
		return values
	}
	for _, f := range q.Filters {
		values.Add(f.Column, fmt.Sprintf("%s.%s", f.Op, formatValue(f.Value)))
	}
	if len(q.Orders) > 0 {
		parts := make([]string, 0, len(q.Orders))
		for _, o := range q.Orders {
			dir := "asc"
			if o.Desc {
				dir = "desc"
			}
			parts = append(parts, o.Column+"."+dir)
		}
		values.Set("order", strings.Join(parts, ","))
	}
	if q.Max > 0 {
		values.Set("limit", fmt.Sprint(q.Max))
	}
	return values
}

// whereClause renders the filters as a SQL condition with positional arguments.
func (q *Query) whereClause() (string, []any) {
	if q == nil || len(q.Filters) == 0 {
		return "", nil
	}
	conds := make([]string, 0, len(q.Filters))
	args := make([]any, 0, len(q.Filters))
	for _, f := range q.Filters {
		conds = append(conds, fmt.Sprintf("%s %s ?", f.Column, sqlOperators[f.Op]))
		args = append(args, f.Value)
	}
	return strings.Join(conds, " AND "), args
}

func formatValue(v any) string {
	switch val := v.(type) {
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
