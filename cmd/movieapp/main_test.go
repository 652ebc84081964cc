package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movieapp/movie-api/internal/core/domain"
	"github.com/movieapp/movie-api/internal/infrastructure/db/sqlstore"
)

func setTestEnv(t *testing.T) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "movies")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_NAME", name)
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("ENV", "test")
	t.Setenv("LOG_LEVEL", "error")
	return name + ".db"
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out

	require.NoError(t, app.Run([]string{"movieapp", "version"}))
	assert.Equal(t, version, strings.TrimSpace(out.String()))
}

func TestMigrateThenSeed(t *testing.T) {
	dsn := setTestEnv(t)
	t.Setenv("ADMIN_PASSWORD", "s3cret")

	require.NoError(t, newApp().Run([]string{"movieapp", "migrate"}))
	require.NoError(t, newApp().Run([]string{"movieapp", "seed"}))
	// A second run finds everything in place.
	require.NoError(t, newApp().Run([]string{"movieapp", "seed"}))

	ctx := context.Background()
	db, err := sqlstore.Connect(ctx, sqlstore.Config{Driver: sqlstore.DriverSQLite, DSN: dsn})
	require.NoError(t, err)
	defer db.Close()

	users := sqlstore.NewUserRepository(db)
	admins, err := users.CountByRole(ctx, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), admins)

	total, err := users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	movies, err := sqlstore.NewMovieRepository(db).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(13), movies)
}

func TestSeedPromptNeedsTerminal(t *testing.T) {
	setTestEnv(t)

	err := newApp().Run([]string{"movieapp", "seed", "--prompt"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interactive terminal")
}

func TestMissingSecretFailsFast(t *testing.T) {
	setTestEnv(t)
	t.Setenv("JWT_SECRET", "")

	err := newApp().Run([]string{"movieapp", "migrate"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config")
}
