package storage

import (
	"fmt"
	"strings"
	"time"
)

type (
	SortField string
	SortOrder string
)

const (
	SortByDate   SortField = "date"
	SortByAmount SortField = "amount"

	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"

	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// ExpenseQuery filters a page of expenses. Every set filter applies.
type ExpenseQuery struct {
	Limit      int
	Offset     int
	CategoryID string
	StartDate  *time.Time
	EndDate    *time.Time
	SortBy     SortField
	SortOrder  SortOrder
}

// Normalized returns q with defaults applied and unknown values replaced.
func (q ExpenseQuery) Normalized() ExpenseQuery {
	if q.Limit < 1 {
		q.Limit = DefaultPageLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	if q.SortBy != SortByAmount {
		q.SortBy = SortByDate
	}
	if q.SortOrder != SortAsc {
		q.SortOrder = SortDesc
	}
	return q
}

// Dialect adapts shared SQL fragments to a driver.
type Dialect struct {
	Placeholder func(n int) string
	Time        func(t time.Time) any
}

// Args accumulates positional query arguments for a dialect.
type Args struct {
	dialect Dialect
	values  []any
}

func NewArgs(d Dialect) *Args {
	return &Args{dialect: d}
}

// Add appends v and returns its placeholder.
func (a *Args) Add(v any) string {
	a.values = append(a.values, v)
	return a.dialect.Placeholder(len(a.values))
}

// AddTime appends t converted for the dialect.
func (a *Args) AddTime(t time.Time) string {
	return a.Add(a.dialect.Time(t))
}

func (a *Args) Values() []any {
	return a.values
}

// ExpenseSelect reads expenses left-joined with their category, aliased e and c.
const ExpenseSelect = `SELECT e.id, e.user_id, e.category_id, e.amount, e.description, e.date, e.created_at, e.updated_at,
	c.id, c.name, c.color, c.icon
	FROM expenses e
	LEFT JOIN categories c ON c.id = e.category_id`

// ExpensePageSQL builds the paginated expense query for userID.
func ExpensePageSQL(d Dialect, userID string, q ExpenseQuery) (string, []any) {
	q = q.Normalized()
	args := NewArgs(d)

	conds := []string{"e.user_id = " + args.Add(userID)}
	if q.CategoryID != "" {
		conds = append(conds, "e.category_id = "+args.Add(q.CategoryID))
	}
	if q.StartDate != nil {
		conds = append(conds, "e.date >= "+args.AddTime(*q.StartDate))
	}
	if q.EndDate != nil {
		conds = append(conds, "e.date <= "+args.AddTime(*q.EndDate))
	}

	col := "e.date"
	if q.SortBy == SortByAmount {
		col = "e.amount"
	}
	dir := "DESC"
	if q.SortOrder == SortAsc {
		dir = "ASC"
	}

	query := fmt.Sprintf("%s WHERE %s ORDER BY %s %s, e.id %s LIMIT %s OFFSET %s",
		ExpenseSelect, strings.Join(conds, " AND "), col, dir, dir, args.Add(q.Limit), args.Add(q.Offset))
	return query, args.Values()
}
