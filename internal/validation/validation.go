// Package validation holds the request schemas of the API and turns
// validator failures into field-level issues.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Issue describes one offending field.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is returned when a payload fails its schema.
type Error struct {
	Issues []Issue
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		parts[i] = is.Field + ": " + is.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks v against its struct tags. It returns *Error for
// schema failures and a plain error when v cannot be validated at all.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate: %w", err)
	}

	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	out := &Error{Issues: make([]Issue, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Issues = append(out.Issues, Issue{Field: fe.Field(), Message: message(t, fe)})
	}
	return out
}

func label(t reflect.Type, fe validator.FieldError) string {
	if f, ok := t.FieldByName(fe.StructField()); ok {
		if l := f.Tag.Get("label"); l != "" {
			return l
		}
	}
	return fe.StructField()
}

func message(t reflect.Type, fe validator.FieldError) string {
	l := label(t, fe)
	switch fe.Tag() {
	case "required":
		return l + " is required"
	case "min":
		if fe.Param() == "1" {
			return l + " is required"
		}
		return fmt.Sprintf("%s must be at least %s characters", l, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", l, fe.Param())
	case "gt":
		return l + " must be a positive number"
	case "email":
		return "Invalid email address"
	}
	return l + " is invalid"
}
