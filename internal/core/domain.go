package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// User is an account. PasswordHash never leaves the process.
	User struct {
		ID           string    `json:"id"`
		Email        string    `json:"email"`
		Name         *string   `json:"name"`
		PasswordHash string    `json:"-"`
		CreatedAt    time.Time `json:"createdAt"`
		UpdatedAt    time.Time `json:"updatedAt"`
	}

	// Category groups expenses. A nil UserID marks a default category
	// shared by every user and mutable by none.
	Category struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		Color     *string   `json:"color"`
		Icon      *string   `json:"icon"`
		UserID    *string   `json:"userId"`
		CreatedAt time.Time `json:"createdAt"`
	}

	// CategorySummary is the category shape embedded in expense reads.
	CategorySummary struct {
		ID    string  `json:"id"`
		Name  string  `json:"name"`
		Color *string `json:"color"`
		Icon  *string `json:"icon"`
	}

	Expense struct {
		ID          string           `json:"id"`
		UserID      string           `json:"userId"`
		CategoryID  *string          `json:"categoryId"`
		Amount      float64          `json:"amount"`
		Description string           `json:"description"`
		Date        time.Time        `json:"date"`
		CreatedAt   time.Time        `json:"createdAt"`
		UpdatedAt   time.Time        `json:"updatedAt"`
		Category    *CategorySummary `json:"category"`
	}
)

// IsDefault reports whether the category is owner-less.
func (c Category) IsDefault() bool {
	return c.UserID == nil
}

// OwnedBy reports whether userID owns the category.
func (c Category) OwnedBy(userID string) bool {
	return c.UserID != nil && *c.UserID == userID
}

// VisibleTo reports whether userID may read the category.
func (c Category) VisibleTo(userID string) bool {
	return c.IsDefault() || c.OwnedBy(userID)
}

// CategoryName returns the joined category name, or "" when uncategorized.
func (e Expense) CategoryName() string {
	if e.Category == nil {
		return ""
	}
	return e.Category.Name
}

var ErrInvalidDate = errors.New("invalid date")

const dateOnlyLayout = "2006-01-02"

// ParseDate accepts RFC 3339 timestamps or YYYY-MM-DD dates. Date-only
// values are midnight in local time; dateOnly reports which form matched.
func ParseDate(s string) (t time.Time, dateOnly bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, ErrInvalidDate
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, false, nil
	}
	if t, err := time.ParseInLocation(dateOnlyLayout, s, time.Local); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, ErrInvalidDate
}

// EndOfDay returns the last instant of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// NormalizeEmail is the stored form of an address: trimmed and lower-cased.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
