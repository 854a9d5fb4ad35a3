package validation

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issues(t *testing.T, v any) []Issue {
	t.Helper()
	err := Validate(v)
	if err == nil {
		return nil
	}
	var verr *Error
	require.ErrorAs(t, err, &verr)
	return verr.Issues
}

func ptr[T any](v T) *T { return &v }

func TestCategorySchemas(t *testing.T) {
	assert.Empty(t, issues(t, &CreateCategoryInput{Name: "Food"}))
	assert.Empty(t, issues(t, &CreateCategoryInput{Name: strings.Repeat("é", 50)}))

	assert.Equal(t, []Issue{{Field: "name", Message: "Category name is required"}},
		issues(t, &CreateCategoryInput{}))
	assert.Equal(t, []Issue{{Field: "name", Message: "Category name must be at most 50 characters"}},
		issues(t, &CreateCategoryInput{Name: strings.Repeat("x", 51)}))

	assert.Empty(t, issues(t, &UpdateCategoryInput{}))
	assert.Equal(t, []Issue{{Field: "name", Message: "Category name is required"}},
		issues(t, &UpdateCategoryInput{Name: ptr("")}))
}

func TestCreateExpenseSchema(t *testing.T) {
	date := &Date{Time: time.Now()}

	assert.Empty(t, issues(t, &CreateExpenseInput{Amount: 0.01, Description: "Lunch", Date: date}))

	for _, amount := range []float64{0, -1, -0.01} {
		assert.Equal(t, []Issue{{Field: "amount", Message: "Amount must be a positive number"}},
			issues(t, &CreateExpenseInput{Amount: amount, Description: "Lunch", Date: date}), "amount %v", amount)
	}

	got := issues(t, &CreateExpenseInput{Amount: 1})
	assert.ElementsMatch(t, []Issue{
		{Field: "description", Message: "Description is required"},
		{Field: "date", Message: "Date is required"},
	}, got)

	assert.Equal(t, []Issue{{Field: "description", Message: "Description must be at most 200 characters"}},
		issues(t, &CreateExpenseInput{Amount: 1, Description: strings.Repeat("x", 201), Date: date}))
}

func TestUpdateExpenseSchema(t *testing.T) {
	assert.Empty(t, issues(t, &UpdateExpenseInput{}))
	assert.Equal(t, []Issue{{Field: "amount", Message: "Amount must be a positive number"}},
		issues(t, &UpdateExpenseInput{Amount: ptr(0.0)}))
	assert.Equal(t, []Issue{{Field: "description", Message: "Description is required"}},
		issues(t, &UpdateExpenseInput{Description: ptr("")}))
}

func TestUserSchemas(t *testing.T) {
	assert.Empty(t, issues(t, &UpdateProfileInput{Email: ptr("a@example.com")}))
	assert.Equal(t, []Issue{{Field: "email", Message: "Invalid email address"}},
		issues(t, &UpdateProfileInput{Email: ptr("nope")}))

	assert.ElementsMatch(t, []Issue{
		{Field: "currentPassword", Message: "Current password is required"},
		{Field: "newPassword", Message: "New password must be at least 8 characters"},
	}, issues(t, &ChangePasswordInput{NewPassword: "short"}))

	assert.Empty(t, issues(t, &RegisterInput{Email: "a@example.com", Password: "longenough"}))
	assert.Equal(t, []Issue{{Field: "password", Message: "Password must be at least 8 characters"}},
		issues(t, &RegisterInput{Email: "a@example.com", Password: "x"}))
}

func TestErrorMessage(t *testing.T) {
	err := Validate(&CreateCategoryInput{})
	require.Error(t, err)
	assert.Equal(t, "validation failed: name: Category name is required", err.Error())
}

func TestNullableDecoding(t *testing.T) {
	var in UpdateExpenseInput

	require.NoError(t, json.Unmarshal([]byte(`{}`), &in))
	assert.False(t, in.CategoryID.Set)

	in = UpdateExpenseInput{}
	require.NoError(t, json.Unmarshal([]byte(`{"categoryId":null}`), &in))
	assert.True(t, in.CategoryID.Set)
	assert.Nil(t, in.CategoryID.Value)

	in = UpdateExpenseInput{}
	require.NoError(t, json.Unmarshal([]byte(`{"categoryId":"c1"}`), &in))
	assert.True(t, in.CategoryID.Set)
	require.NotNil(t, in.CategoryID.Value)
	assert.Equal(t, "c1", *in.CategoryID.Value)

	assert.Error(t, json.Unmarshal([]byte(`{"categoryId":5}`), &in))
}

func TestDateDecoding(t *testing.T) {
	var in CreateExpenseInput
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2025-03-01"}`), &in))
	require.NotNil(t, in.Date)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local), in.Date.Time)

	require.NoError(t, json.Unmarshal([]byte(`{"date":"2025-03-01T10:00:00Z"}`), &in))
	assert.Equal(t, 10, in.Date.UTC().Hour())

	assert.Error(t, json.Unmarshal([]byte(`{"date":"yesterday"}`), &in))
	assert.Error(t, json.Unmarshal([]byte(`{"date":12}`), &in))
}

func TestDecodeIssue(t *testing.T) {
	decode := func(body string, v any) error {
		return json.Unmarshal([]byte(body), v)
	}

	tests := []struct {
		name string
		body string
		v    any
		want Issue
	}{
		{"bad date", `{"amount":5,"date":"garbage"}`, &CreateExpenseInput{}, Issue{Field: "date", Message: "Invalid date"}},
		{"date of wrong type", `{"date":12}`, &UpdateExpenseInput{}, Issue{Field: "date", Message: "Invalid date"}},
		{"amount as string", `{"amount":"5"}`, &CreateExpenseInput{}, Issue{Field: "amount", Message: "Expected number, received string"}},
		{"name as number", `{"name":42}`, &CreateCategoryInput{}, Issue{Field: "name", Message: "Expected string, received number"}},
		{"nullable of wrong type", `{"categoryId":5}`, &UpdateExpenseInput{}, Issue{Field: "categoryId", Message: "Expected string, received number"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issue, ok := DecodeIssue(decode(tt.body, tt.v))
			require.True(t, ok)
			assert.Equal(t, tt.want, issue)
		})
	}

	_, ok := DecodeIssue(decode(`{"name":`, &CreateCategoryInput{}))
	assert.False(t, ok)
	_, ok = DecodeIssue(nil)
	assert.False(t, ok)
}
