package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"budgetly/internal/core"
	"budgetly/internal/storage"
)

func scanExpense(row pgx.Row) (core.Expense, error) {
	var (
		e                 core.Expense
		catID, catName    *string
		catColor, catIcon *string
	)
	err := row.Scan(&e.ID, &e.UserID, &e.CategoryID, &e.Amount, &e.Description, &e.Date, &e.CreatedAt, &e.UpdatedAt,
		&catID, &catName, &catColor, &catIcon)
	if err != nil {
		return core.Expense{}, err
	}
	if catID != nil && catName != nil {
		e.Category = &core.CategorySummary{ID: *catID, Name: *catName, Color: catColor, Icon: catIcon}
	}
	return e, nil
}

func (s *Store) queryExpenses(ctx context.Context, query string, args ...any) ([]core.Expense, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	expenses := []core.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (s *Store) ListExpensesByUser(ctx context.Context, userID string) ([]core.Expense, error) {
	return s.queryExpenses(ctx, storage.ExpenseSelect+` WHERE e.user_id = $1 ORDER BY e.date DESC, e.id DESC`, userID)
}

func (s *Store) ListExpensesPage(ctx context.Context, userID string, q storage.ExpenseQuery) ([]core.Expense, error) {
	query, args := storage.ExpensePageSQL(dialect, userID, q)
	return s.queryExpenses(ctx, query, args...)
}

func (s *Store) GetExpense(ctx context.Context, id, ownerID string) (core.Expense, error) {
	e, err := scanExpense(s.pool.QueryRow(ctx, storage.ExpenseSelect+` WHERE e.id = $1 AND e.user_id = $2`, id, ownerID))
	if err != nil {
		return core.Expense{}, notFound(err)
	}
	return e, nil
}

func (s *Store) CreateExpense(ctx context.Context, in storage.NewExpense) (core.Expense, error) {
	id := uuid.NewString()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO expenses (id, user_id, category_id, amount, description, date) VALUES ($1, $2, $3, $4, $5, $6)`,
		id, in.UserID, in.CategoryID, in.Amount, in.Description, in.Date)
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	return s.GetExpense(ctx, id, in.UserID)
}

func (s *Store) UpdateExpense(ctx context.Context, id, ownerID string, patch storage.ExpensePatch) (core.Expense, error) {
	args := storage.NewArgs(dialect)
	var sets []string
	if patch.Amount != nil {
		sets = append(sets, "amount = "+args.Add(*patch.Amount))
	}
	if patch.Description != nil {
		sets = append(sets, "description = "+args.Add(*patch.Description))
	}
	if patch.Date != nil {
		sets = append(sets, "date = "+args.AddTime(*patch.Date))
	}
	if patch.SetCategory {
		sets = append(sets, "category_id = "+args.Add(patch.CategoryID))
	}
	sets = append(sets, "updated_at = "+args.AddTime(time.Now()))

	query := `UPDATE expenses SET ` + strings.Join(sets, ", ") +
		` WHERE id = ` + args.Add(id) + ` AND user_id = ` + args.Add(ownerID)
	tag, err := s.pool.Exec(ctx, query, args.Values()...)
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	if err := affected(tag); err != nil {
		return core.Expense{}, err
	}
	return s.GetExpense(ctx, id, ownerID)
}

func (s *Store) DeleteExpense(ctx context.Context, id, ownerID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return affected(tag)
}
