package backend

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budgetly/internal/config"
	"budgetly/internal/log"
	"budgetly/internal/storage"
)

func TestFromAppConfig(t *testing.T) {
	_, err := FromAppConfig(nil)
	assert.Error(t, err)

	_, err = FromAppConfig(&config.Config{DataBackend: "sheets"})
	assert.Error(t, err)

	cfg, err := FromAppConfig(&config.Config{DataBackend: "postgres", DatabaseURL: "postgres://x", AMQPQueue: "q"})
	require.NoError(t, err)
	assert.Equal(t, PostgresBackend, cfg.Type)
	assert.Equal(t, "postgres://x", cfg.DatabaseURL)
	assert.Equal(t, "q", cfg.AMQPQueue)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"sqlite ok", Config{Type: SQLiteBackend, SQLiteDBPath: "x.db"}, false},
		{"sqlite missing path", Config{Type: SQLiteBackend}, true},
		{"postgres missing url", Config{Type: PostgresBackend}, true},
		{"amqp missing queue", Config{Type: SQLiteBackend, SQLiteDBPath: "x.db", AMQPURL: "amqp://", AMQPExchange: "e"}, true},
		{"unknown", Config{Type: "memory"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUnknownBackendListsValidTypes(t *testing.T) {
	err := Config{Type: "memory"}.Validate()
	require.Error(t, err)
	assert.Equal(t, "invalid backend type: memory (valid: [sqlite postgres])", err.Error())

	for _, bt := range GetBackendTypes() {
		assert.True(t, bt.IsValid(), bt.String())
	}
	assert.False(t, BackendType("").IsValid())
}

func TestCreateSQLiteBackend(t *testing.T) {
	logger := log.New(log.NewTextConfig(io.Discard, slog.LevelInfo, log.ComponentApp))
	path := filepath.Join(t.TempDir(), "nested", "budgetly.db")
	ctx := context.Background()

	result, err := NewFactory(logger).CreateBackend(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: path})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, result.Cleanup()) })

	require.NoError(t, result.Store.Ping(ctx))

	user, err := result.Store.CreateUser(ctx, storage.NewUser{Email: "a@example.com", PasswordHash: "h"})
	require.NoError(t, err)

	e, err := result.Expenses.Create(ctx, storage.NewExpense{UserID: user.ID, Amount: 3, Description: "Coffee", Date: time.Now()})
	require.NoError(t, err)
	assert.Equal(t, "Coffee", e.Description)
}
