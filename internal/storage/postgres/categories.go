package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"budgetly/internal/core"
	"budgetly/internal/storage"
)

const categoryColumns = `id, name, color, icon, user_id, created_at`

func scanCategory(row pgx.Row) (core.Category, error) {
	var c core.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Color, &c.Icon, &c.UserID, &c.CreatedAt); err != nil {
		return core.Category{}, err
	}
	return c, nil
}

func (s *Store) ListCategoriesForUser(ctx context.Context, userID string) ([]core.Category, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE user_id = $1 OR user_id IS NULL ORDER BY name, id`, userID)
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
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`
	args := []any{id}
	if actingUserID != "" {
		query += ` AND (user_id = $2 OR user_id IS NULL)`
		args = append(args, actingUserID)
	}
	c, err := scanCategory(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return core.Category{}, notFound(err)
	}
	return c, nil
}

func (s *Store) CreateCategory(ctx context.Context, in storage.NewCategory) (core.Category, error) {
	const query = `INSERT INTO categories (id, name, color, icon, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + categoryColumns
	c, err := scanCategory(s.pool.QueryRow(ctx, query, uuid.NewString(), in.Name, in.Color, in.Icon, in.UserID))
	if err != nil {
		return core.Category{}, fmt.Errorf("insert category: %w", err)
	}
	return c, nil
}

func (s *Store) UpdateCategory(ctx context.Context, id, ownerID string, patch storage.CategoryPatch) (core.Category, error) {
	if patch.IsEmpty() {
		c, err := scanCategory(s.pool.QueryRow(ctx,
			`SELECT `+categoryColumns+` FROM categories WHERE id = $1 AND user_id = $2`, id, ownerID))
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
	c, err := scanCategory(s.pool.QueryRow(ctx, query, args.Values()...))
	if err != nil {
		return core.Category{}, notFound(err)
	}
	return c, nil
}

func (s *Store) DeleteCategory(ctx context.Context, id, ownerID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return affected(tag)
}
