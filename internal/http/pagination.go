package http

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"budgetly/internal/core"
	"budgetly/internal/storage"
)

type pagination struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	HasMore bool `json:"hasMore"`
}

// parseExpenseQuery reads the list parameters. Values that do not parse
// fall back to their defaults and unparseable dates are dropped.
func parseExpenseQuery(q url.Values) (int, storage.ExpenseQuery) {
	page := positiveInt(q.Get("page"), 1)
	limit := positiveInt(q.Get("limit"), storage.DefaultPageLimit)
	if limit > storage.MaxPageLimit {
		limit = storage.MaxPageLimit
	}
	// keep (page-1)*limit representable
	if page > math.MaxInt/limit {
		page = math.MaxInt / limit
	}

	query := storage.ExpenseQuery{
		Limit:      limit,
		Offset:     (page - 1) * limit,
		CategoryID: strings.TrimSpace(q.Get("categoryId")),
		SortBy:     storage.SortField(q.Get("sortBy")),
		SortOrder:  storage.SortOrder(q.Get("sortOrder")),
	}

	if t, _, err := core.ParseDate(q.Get("startDate")); err == nil {
		query.StartDate = &t
	}
	if t, dateOnly, err := core.ParseDate(q.Get("endDate")); err == nil {
		if dateOnly {
			t = core.EndOfDay(t)
		}
		query.EndDate = &t
	}

	return page, query.Normalized()
}

func positiveInt(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return def
	}
	return n
}

