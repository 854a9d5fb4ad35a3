package storage

import (
	"context"
	"errors"
	"time"

	"budgetly/internal/core"
)

// ErrNotFound indicates a record does not exist or is outside the
// caller's scope. Scoped mutations that match zero rows return it too.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

type (
	NewUser struct {
		Email        string
		Name         *string
		PasswordHash string
	}

	// UserPatch updates only the non-nil fields.
	UserPatch struct {
		Name         *string
		Email        *string
		PasswordHash *string
	}

	NewCategory struct {
		Name   string
		Color  *string
		Icon   *string
		UserID string
	}

	CategoryPatch struct {
		Name  *string
		Color *string
		Icon  *string
	}

	NewExpense struct {
		UserID      string
		CategoryID  *string
		Amount      float64
		Description string
		Date        time.Time
	}

	// ExpensePatch updates only the fields that are set. SetCategory
	// distinguishes "leave alone" from "clear" when CategoryID is nil.
	ExpensePatch struct {
		Amount      *float64
		Description *string
		Date        *time.Time
		SetCategory bool
		CategoryID  *string
	}
)

// IsEmpty reports whether the patch changes nothing.
func (p CategoryPatch) IsEmpty() bool {
	return p.Name == nil && p.Color == nil && p.Icon == nil
}

// IsEmpty reports whether the patch changes nothing.
func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.PasswordHash == nil
}

type UserStore interface {
	CreateUser(ctx context.Context, u NewUser) (core.User, error)
	GetUserByID(ctx context.Context, id string) (core.User, error)
	GetUserByEmail(ctx context.Context, email string) (core.User, error)
	UpdateUser(ctx context.Context, id string, patch UserPatch) (core.User, error)
}

type CategoryStore interface {
	ListCategoriesForUser(ctx context.Context, userID string) ([]core.Category, error)
	// GetCategory scopes the lookup to own or default categories when
	// actingUserID is non-empty; an empty actingUserID is unscoped.
	GetCategory(ctx context.Context, id, actingUserID string) (core.Category, error)
	CreateCategory(ctx context.Context, c NewCategory) (core.Category, error)
	UpdateCategory(ctx context.Context, id, ownerID string, patch CategoryPatch) (core.Category, error)
	DeleteCategory(ctx context.Context, id, ownerID string) error
}

type ExpenseStore interface {
	ListExpensesByUser(ctx context.Context, userID string) ([]core.Expense, error)
	ListExpensesPage(ctx context.Context, userID string, q ExpenseQuery) ([]core.Expense, error)
	GetExpense(ctx context.Context, id, ownerID string) (core.Expense, error)
	CreateExpense(ctx context.Context, e NewExpense) (core.Expense, error)
	UpdateExpense(ctx context.Context, id, ownerID string, patch ExpensePatch) (core.Expense, error)
	DeleteExpense(ctx context.Context, id, ownerID string) error
}

// Store is the full persistence surface used by the API.
type Store interface {
	UserStore
	CategoryStore
	ExpenseStore
	Ping(ctx context.Context) error
	Close() error
}
