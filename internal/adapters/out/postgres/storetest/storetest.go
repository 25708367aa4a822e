// Package storetest opens throwaway databases with the full schema for adapter tests.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/abhijeetraiiit/nccart/internal/adapters/out/postgres"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// SQLite returns a migrated private in-memory database. The pool holds a single
// connection, so concurrent callers are serialized the way SQLite needs.
func SQLite(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := postgres.Open(postgres.DatabaseConfig{
		Driver:       "sqlite",
		DSN:          "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		MaxOpenConns: 1,
	})
	require.NoError(t, err)
	require.NoError(t, postgres.Migrate(db))

	t.Cleanup(func() {
		_ = postgres.Close(db)
	})
	return db
}

// Postgres starts a postgres container, returns a migrated connection to it and
// terminates the container when the test ends. It skips under -short.
func Postgres(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres container tests are skipped in short mode")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := postgres.Open(postgres.DatabaseConfig{Driver: "postgres", DSN: dsn, MaxOpenConns: 10})
	require.NoError(t, err)
	require.NoError(t, postgres.Migrate(db))
	t.Cleanup(func() {
		_ = postgres.Close(db)
	})
	return db
}
