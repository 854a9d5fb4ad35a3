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

const userColumns = `id, email, name, password_hash, created_at, updated_at`

func scanUser(row pgx.Row) (core.User, error) {
	var u core.User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return core.User{}, err
	}
	return u, nil
}

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, in storage.NewUser) (core.User, error) {
	const query = `INSERT INTO users (id, email, name, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns
	u, err := scanUser(s.pool.QueryRow(ctx, query, uuid.NewString(), in.Email, in.Name, in.PasswordHash))
	if err != nil {
		if isUniqueViolation(err) {
			return core.User{}, storage.ErrAlreadyExists
		}
		return core.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// GetUserByID fetches a user by id.
func (s *Store) GetUserByID(ctx context.Context, id string) (core.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return core.User{}, notFound(err)
	}
	return u, nil
}

// GetUserByEmail fetches a user by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
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
	u, err := scanUser(s.pool.QueryRow(ctx, query, args.Values()...))
	if err != nil {
		if isUniqueViolation(err) {
			return core.User{}, storage.ErrAlreadyExists
		}
		return core.User{}, notFound(err)
	}
	return u, nil
}
