package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"budgetly/internal/core"
	"budgetly/internal/storage"
)

const categoryColumns = `id, name, color, icon, user_id, created_at`

func scanCategory(row rowScanner) (core.Category, error) {
	var (
		c       core.Category
		created int64
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Color, &c.Icon, &c.UserID, &created); err != nil {
		return core.Category{}, err
	}
	c.CreatedAt = fromMillis(created)
	return c, nil
}

// ListCategoriesForUser returns the user's categories together with the
// default ones.
func (s *Store) ListCategoriesForUser(ctx context.Context, userID string) ([]core.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE user_id = ? OR user_id IS NULL ORDER BY name, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := []core.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *Store) GetCategory(ctx context.Context, id, actingUserID string) (core.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = ?`
	args := []any{id}
	if actingUserID != "" {
		query += ` AND (user_id = ? OR user_id IS NULL)`
		args = append(args, actingUserID)
	}
	c, err := scanCategory(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return core.Category{}, notFound(err)
	}
	return c, nil
}

func (s *Store) CreateCategory(ctx context.Context, in storage.NewCategory) (core.Category, error) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	owner := in.UserID
	c := core.Category{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Color:     in.Color,
		Icon:      in.Icon,
		UserID:    &owner,
		CreatedAt: now,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (`+categoryColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Color, c.Icon, owner, now.UnixMilli())
	if err != nil {
		return core.Category{}, fmt.Errorf("insert category: %w", err)
	}
	return c, nil
}

func (s *Store) UpdateCategory(ctx context.Context, id, ownerID string, patch storage.CategoryPatch) (core.Category, error) {
	if patch.IsEmpty() {
		row := s.db.QueryRowContext(ctx,
			`SELECT `+categoryColumns+` FROM categories WHERE id = ? AND user_id = ?`, id, ownerID)
		c, err := scanCategory(row)
		if err != nil {
			return core.Category{}, notFound(err)
		}
		return c, nil
	}

	args := storage.NewArgs(dialect)
	var sets []string
	if patch.Name != nil {
		sets = append(sets, "name = "+args.Add(*patch.Name))
	}
	if patch.Color != nil {
		sets = append(sets, "color = "+args.Add(*patch.Color))
	}
	if patch.Icon != nil {
		sets = append(sets, "icon = "+args.Add(*patch.Icon))
	}

	query := `UPDATE categories SET ` + strings.Join(sets, ", ") +
		` WHERE id = ` + args.Add(id) + ` AND user_id = ` + args.Add(ownerID) +
		` RETURNING ` + categoryColumns
	c, err := scanCategory(s.db.QueryRowContext(ctx, query, args.Values()...))
	if err != nil {
		return core.Category{}, notFound(err)
	}
	return c, nil
}

// DeleteCategory removes an owned category; referencing expenses keep
// existing with a NULL category.
func (s *Store) DeleteCategory(ctx context.Context, id, ownerID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ? AND user_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return rowsAffected(res)
}
