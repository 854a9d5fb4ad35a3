package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryOwnership(t *testing.T) {
	owner := "u1"
	def := Category{ID: "c1"}
	own := Category{ID: "c2", UserID: &owner}

	assert.True(t, def.IsDefault())
	assert.True(t, def.VisibleTo("anyone"))
	assert.False(t, def.OwnedBy("u1"))

	assert.False(t, own.IsDefault())
	assert.True(t, own.OwnedBy("u1"))
	assert.True(t, own.VisibleTo("u1"))
	assert.False(t, own.VisibleTo("u2"))
}

func TestParseDate(t *testing.T) {
	ts, dateOnly, err := ParseDate("2025-01-31T10:30:00Z")
	require.NoError(t, err)
	assert.False(t, dateOnly)
	assert.Equal(t, time.Date(2025, 1, 31, 10, 30, 0, 0, time.UTC), ts.UTC())

	d, dateOnly, err := ParseDate(" 2025-01-31 ")
	require.NoError(t, err)
	assert.True(t, dateOnly)
	assert.Equal(t, time.Date(2025, 1, 31, 0, 0, 0, 0, time.Local), d)

	for _, bad := range []string{"", "31/01/2025", "tomorrow"} {
		_, _, err := ParseDate(bad)
		assert.ErrorIs(t, err, ErrInvalidDate, bad)
	}
}

func TestEndOfDay(t *testing.T) {
	d := time.Date(2025, 1, 31, 0, 0, 0, 0, time.Local)
	end := EndOfDay(d)
	assert.Equal(t, 31, end.Day())
	assert.True(t, end.Add(time.Nanosecond).Equal(time.Date(2025, 2, 1, 0, 0, 0, 0, time.Local)))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ada@example.com", NormalizeEmail("  Ada@Example.COM "))
}
