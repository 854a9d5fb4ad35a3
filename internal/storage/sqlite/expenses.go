package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"budgetly/internal/core"
	"budgetly/internal/storage"
)

func scanExpense(row rowScanner) (core.Expense, error) {
	var (
		e                      core.Expense
		date, created, updated int64
		catID, catName         *string
		catColor, catIcon      *string
	)
	err := row.Scan(&e.ID, &e.UserID, &e.CategoryID, &e.Amount, &e.Description, &date, &created, &updated,
		&catID, &catName, &catColor, &catIcon)
	if err != nil {
		return core.Expense{}, err
	}
	e.Date = fromMillis(date)
	e.CreatedAt = fromMillis(created)
	e.UpdatedAt = fromMillis(updated)
	if catID != nil && catName != nil {
		e.Category = &core.CategorySummary{ID: *catID, Name: *catName, Color: catColor, Icon: catIcon}
	}
	return e, nil
}

func collectExpenses(rows *sql.Rows) ([]core.Expense, error) {
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

// ListExpensesByUser returns every expense of userID, newest first.
func (s *Store) ListExpensesByUser(ctx context.Context, userID string) ([]core.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		storage.ExpenseSelect+` WHERE e.user_id = ? ORDER BY e.date DESC, e.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	return collectExpenses(rows)
}

func (s *Store) ListExpensesPage(ctx context.Context, userID string, q storage.ExpenseQuery) ([]core.Expense, error) {
	query, args := storage.ExpensePageSQL(dialect, userID, q)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query expense page: %w", err)
	}
	return collectExpenses(rows)
}

func (s *Store) GetExpense(ctx context.Context, id, ownerID string) (core.Expense, error) {
	row := s.db.QueryRowContext(ctx,
		storage.ExpenseSelect+` WHERE e.id = ? AND e.user_id = ?`, id, ownerID)
	e, err := scanExpense(row)
	if err != nil {
		return core.Expense{}, notFound(err)
	}
	return e, nil
}

func (s *Store) CreateExpense(ctx context.Context, in storage.NewExpense) (core.Expense, error) {
	id := uuid.NewString()
	now := time.Now().UnixMilli()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (id, user_id, category_id, amount, description, date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, in.UserID, in.CategoryID, in.Amount, in.Description, in.Date.UnixMilli(), now, now)
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	return s.GetExpense(ctx, id, in.UserID)
}

// UpdateExpense applies patch to an owned expense and refreshes updated_at.
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
	res, err := s.db.ExecContext(ctx, query, args.Values()...)
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	if err := rowsAffected(res); err != nil {
		return core.Expense{}, err
	}
	return s.GetExpense(ctx, id, ownerID)
}

func (s *Store) DeleteExpense(ctx context.Context, id, ownerID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ? AND user_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return rowsAffected(res)
}
