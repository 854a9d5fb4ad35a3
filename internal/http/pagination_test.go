package http

import (
	"math"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budgetly/internal/storage"
)

func TestParseExpenseQueryDefaults(t *testing.T) {
	page, q := parseExpenseQuery(url.Values{})
	assert.Equal(t, 1, page)
	assert.Equal(t, storage.ExpenseQuery{
		Limit:     10,
		Offset:    0,
		SortBy:    storage.SortByDate,
		SortOrder: storage.SortDesc,
	}, q)
}

func TestParseExpenseQuery(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"explicit", "page=3&limit=20", 3, 20, 40},
		{"non numeric", "page=x&limit=y", 1, 10, 0},
		{"below one", "page=0&limit=-4", 1, 10, 0},
		{"capped", "page=2&limit=1000", 2, 100, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.raw)
			require.NoError(t, err)
			page, q := parseExpenseQuery(values)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLimit, q.Limit)
			assert.Equal(t, tt.wantOffset, q.Offset)
		})
	}
}

func TestParseExpenseQueryFilters(t *testing.T) {
	values := url.Values{
		"categoryId": {" c1 "},
		"startDate":  {"2025-01-01"},
		"endDate":    {"2025-01-31"},
		"sortBy":     {"amount"},
		"sortOrder":  {"asc"},
	}
	_, q := parseExpenseQuery(values)

	assert.Equal(t, "c1", q.CategoryID)
	assert.Equal(t, storage.SortByAmount, q.SortBy)
	assert.Equal(t, storage.SortAsc, q.SortOrder)
	require.NotNil(t, q.StartDate)
	require.NotNil(t, q.EndDate)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local), *q.StartDate)
	assert.True(t, q.EndDate.Add(time.Nanosecond).Equal(time.Date(2025, 2, 1, 0, 0, 0, 0, time.Local)))

	_, q = parseExpenseQuery(url.Values{"endDate": {"2025-01-31T10:00:00Z"}, "startDate": {"soon"}, "sortBy": {"description"}})
	assert.Nil(t, q.StartDate)
	require.NotNil(t, q.EndDate)
	assert.Equal(t, 10, q.EndDate.UTC().Hour())
	assert.Equal(t, storage.SortByDate, q.SortBy)
}

func TestParseExpenseQueryHugePageDoesNotWrap(t *testing.T) {
	values := url.Values{"page": {"922337203685477590"}, "limit": {"10"}}
	page, q := parseExpenseQuery(values)

	assert.Equal(t, math.MaxInt/10, page)
	assert.Equal(t, (page-1)*10, q.Offset)
	assert.Positive(t, q.Offset)

	values = url.Values{"page": {strconv.Itoa(math.MaxInt)}, "limit": {"100"}}
	_, q = parseExpenseQuery(values)
	assert.Positive(t, q.Offset)
}
