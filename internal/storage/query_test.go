package storage

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testDialect = Dialect{
	Placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
	Time:        func(t time.Time) any { return t.Unix() },
}

func TestExpenseQueryNormalized(t *testing.T) {
	q := ExpenseQuery{Limit: 0, Offset: -4, SortBy: "bogus", SortOrder: "sideways"}.Normalized()
	assert.Equal(t, DefaultPageLimit, q.Limit)
	assert.Equal(t, 0, q.Offset)
	assert.Equal(t, SortByDate, q.SortBy)
	assert.Equal(t, SortDesc, q.SortOrder)

	q = ExpenseQuery{Limit: 5000, SortBy: SortByAmount, SortOrder: SortAsc}.Normalized()
	assert.Equal(t, MaxPageLimit, q.Limit)
	assert.Equal(t, SortByAmount, q.SortBy)
	assert.Equal(t, SortAsc, q.SortOrder)
}

func TestExpensePageSQLDefaults(t *testing.T) {
	query, args := ExpensePageSQL(testDialect, "u1", ExpenseQuery{})
	assert.Contains(t, query, "WHERE e.user_id = $1 ORDER BY e.date DESC, e.id DESC LIMIT $2 OFFSET $3")
	assert.Equal(t, []any{"u1", DefaultPageLimit, 0}, args)
}

func TestExpensePageSQLFilters(t *testing.T) {
	start := time.Unix(100, 0)
	end := time.Unix(200, 0)
	query, args := ExpensePageSQL(testDialect, "u1", ExpenseQuery{
		Limit:      20,
		Offset:     40,
		CategoryID: "c1",
		StartDate:  &start,
		EndDate:    &end,
		SortBy:     SortByAmount,
		SortOrder:  SortAsc,
	})
	assert.Contains(t, query, "e.user_id = $1 AND e.category_id = $2 AND e.date >= $3 AND e.date <= $4")
	assert.Contains(t, query, "ORDER BY e.amount ASC, e.id ASC LIMIT $5 OFFSET $6")
	assert.Equal(t, []any{"u1", "c1", int64(100), int64(200), 20, 40}, args)
}
