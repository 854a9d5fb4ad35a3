package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budgetly/internal/auth"
	"budgetly/internal/storage/sqlite"
)

func TestRunCreatesUser(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "users.db")
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)

	err := run([]string{"-email", "Ann@Example.com", "-name", "Ann", "-password", "long-secret", "-cost", "4", "-db", dbPath},
		new(bytes.Buffer), stdout, stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "User ann@example.com created successfully")

	store, err := sqlite.Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	u, err := store.GetUserByEmail(context.Background(), "ann@example.com")
	require.NoError(t, err)
	require.NotNil(t, u.Name)
	assert.Equal(t, "Ann", *u.Name)
	assert.NoError(t, auth.NewHasher(4).Compare(u.PasswordHash, "long-secret"))
}

func TestRunDuplicateUser(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "dup.db")
	args := []string{"-email", "ann@example.com", "-password", "long-secret", "-cost", "4", "-db", dbPath}

	require.NoError(t, run(args, new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer)))

	err := run(args, new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestRunMissingEmail(t *testing.T) {
	stdout := new(bytes.Buffer)
	err := run([]string{"-password", "long-secret"}, new(bytes.Buffer), stdout, new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required flags: email")
	assert.Contains(t, stdout.String(), "Usage:")
}

func TestRunRejectsShortPassword(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "short.db")
	err := run([]string{"-email", "ann@example.com", "-password", "short", "-db", dbPath},
		new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Password must be at least 8 characters")
}

func TestRunInteractivePassword(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "prompt.db")
	stdout := new(bytes.Buffer)

	err := run([]string{"-email", "bo@example.com", "-cost", "4", "-db", dbPath},
		bytes.NewBufferString("typed-secret\n"), stdout, new(bytes.Buffer))
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Password: ")
	assert.Contains(t, stdout.String(), "created successfully")
}
