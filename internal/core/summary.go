package core

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// RecentExpensesLimit caps Summary.RecentExpenses.
	RecentExpensesLimit = 5
	// NoTopCategory is reported when no expense carries a category.
	NoTopCategory = "N/A"
)

// Summary is the dashboard view over a user's expenses.
type Summary struct {
	ThisMonthTotal float64   `json:"thisMonthTotal"`
	ThisMonthCount int       `json:"thisMonthCount"`
	TotalCount     int       `json:"totalCount"`
	TopCategory    string    `json:"topCategory"`
	RecentExpenses []Expense `json:"recentExpenses"`
}

// MonthStart returns local midnight of the first day of now's month.
func MonthStart(now time.Time) time.Time {
	y, m, _ := now.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
}

// Summarize aggregates expenses, which must be sorted by date descending.
func Summarize(expenses []Expense, now time.Time) Summary {
	start := MonthStart(now)

	total := decimal.Zero
	monthCount := 0
	counts := make(map[string]int)
	var order []string

	for _, e := range expenses {
		if !e.Date.Before(start) {
			total = total.Add(decimal.NewFromFloat(e.Amount))
			monthCount++
		}
		name := e.CategoryName()
		if name == "" {
			continue
		}
		if _, seen := counts[name]; !seen {
			order = append(order, name)
		}
		counts[name]++
	}

	// strict > keeps the first-encountered name on ties
	top, best := NoTopCategory, 0
	for _, name := range order {
		if counts[name] > best {
			top, best = name, counts[name]
		}
	}

	recent := expenses
	if len(recent) > RecentExpensesLimit {
		recent = recent[:RecentExpensesLimit]
	}
	if recent == nil {
		recent = []Expense{}
	}

	return Summary{
		ThisMonthTotal: total.InexactFloat64(),
		ThisMonthCount: monthCount,
		TotalCount:     len(expenses),
		TopCategory:    top,
		RecentExpenses: recent,
	}
}
