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

const userColumns = `id, email, name, password_hash, created_at, updated_at`

func scanUser(row rowScanner) (core.User, error) {
	var (
		u                core.User
		created, updated int64
	)
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &created, &updated); err != nil {
		return core.User{}, err
	}
	u.CreatedAt = fromMillis(created)
	u.UpdatedAt = fromMillis(updated)
	return u, nil
}

func (s *Store) CreateUser(ctx context.Context, in storage.NewUser) (core.User, error) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	u := core.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: in.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Name, u.PasswordHash, now.UnixMilli(), now.UnixMilli())
	if err != nil {
		if isUniqueViolation(err) {
			return core.User{}, storage.ErrAlreadyExists
		}
		return core.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (core.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return core.User{}, notFound(err)
	}
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err != nil {
		return core.User{}, notFound(err)
	}
	return u, nil
}

func (s *Store) UpdateUser(ctx context.Context, id string, patch storage.UserPatch) (core.User, error) {
	if patch.IsEmpty() {
		return s.GetUserByID(ctx, id)
	}

	args := storage.NewArgs(dialect)
	var sets []string
	if patch.Name != nil {
		sets = append(sets, "name = "+args.Add(*patch.Name))
	}
	if patch.Email != nil {
		sets = append(sets, "email = "+args.Add(*patch.Email))
	}
	if patch.PasswordHash != nil {
		sets = append(sets, "password_hash = "+args.Add(*patch.PasswordHash))
	}
	sets = append(sets, "updated_at = "+args.AddTime(time.Now()))

	query := `UPDATE users SET ` + strings.Join(sets, ", ") +
		` WHERE id = ` + args.Add(id) + ` RETURNING ` + userColumns
	u, err := scanUser(s.db.QueryRowContext(ctx, query, args.Values()...))
	if err != nil {
		if isUniqueViolation(err) {
			return core.User{}, storage.ErrAlreadyExists
		}
		return core.User{}, notFound(err)
	}
	return u, nil
}
