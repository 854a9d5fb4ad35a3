package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"time"

	"budgetly/internal/core"
)

// Date accepts RFC 3339 timestamps or YYYY-MM-DD dates.
type Date struct {
	time.Time
}

var dateType = reflect.TypeOf(Date{})

// UnmarshalJSON reports any unusable value as a *json.UnmarshalTypeError
// so the decoder attaches the field name.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return &json.UnmarshalTypeError{Value: jsonKind(b), Type: dateType}
	}
	t, _, err := core.ParseDate(s)
	if err != nil {
		return &json.UnmarshalTypeError{Value: "string", Type: dateType}
	}
	d.Time = t
	return nil
}

// DecodeIssue turns a body decoding failure caused by one field into an
// Issue. Syntax errors and anything else not tied to a field report false.
func DecodeIssue(err error) (Issue, bool) {
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) || typeErr.Field == "" {
		return Issue{}, false
	}
	if typeErr.Type == dateType {
		return Issue{Field: typeErr.Field, Message: "Invalid date"}, true
	}
	return Issue{
		Field:   typeErr.Field,
		Message: "Expected " + kindName(typeErr.Type) + ", received " + typeErr.Value,
	}, true
}

func kindName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Float32, reflect.Float64,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "number"
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return "object"
	}
}

// jsonKind names the JSON type of a raw value the way the decoder does.
func jsonKind(b []byte) string {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return "value"
	}
	switch b[0] {
	case '"':
		return "string"
	case '{':
		return "object"
	case '[':
		return "array"
	case 't', 'f':
		return "bool"
	case 'n':
		return "null"
	default:
		return "number"
	}
}

// Nullable tells an absent field from an explicit null.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

func (n *Nullable[T]) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

type (
	CreateCategoryInput struct {
		Name  string  `json:"name" validate:"required,min=1,max=50" label:"Category name"`
		Color *string `json:"color"`
		Icon  *string `json:"icon"`
	}

	UpdateCategoryInput struct {
		Name  *string `json:"name" validate:"omitempty,min=1,max=50" label:"Category name"`
		Color *string `json:"color"`
		Icon  *string `json:"icon"`
	}

	CreateExpenseInput struct {
		Amount      float64 `json:"amount" validate:"gt=0" label:"Amount"`
		Description string  `json:"description" validate:"required,min=1,max=200" label:"Description"`
		CategoryID  *string `json:"categoryId"`
		Date        *Date   `json:"date" validate:"required" label:"Date"`
	}

	UpdateExpenseInput struct {
		Amount      *float64         `json:"amount" validate:"omitempty,gt=0" label:"Amount"`
		Description *string          `json:"description" validate:"omitempty,min=1,max=200" label:"Description"`
		CategoryID  Nullable[string] `json:"categoryId"`
		Date        *Date            `json:"date"`
	}

	UpdateProfileInput struct {
		Name  *string `json:"name" validate:"omitempty,min=1" label:"Name"`
		Email *string `json:"email" validate:"omitempty,email" label:"Email"`
	}

	ChangePasswordInput struct {
		CurrentPassword string `json:"currentPassword" validate:"required" label:"Current password"`
		NewPassword     string `json:"newPassword" validate:"min=8,max=72" label:"New password"`
	}

	RegisterInput struct {
		Email    string  `json:"email" validate:"required,email" label:"Email"`
		Password string  `json:"password" validate:"min=8,max=72" label:"Password"`
		Name     *string `json:"name" validate:"omitempty,min=1" label:"Name"`
	}

	LoginInput struct {
		Email    string `json:"email" validate:"required" label:"Email"`
		Password string `json:"password" validate:"required" label:"Password"`
	}
)
