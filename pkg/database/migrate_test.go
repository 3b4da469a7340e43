package database

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"testing"

	"user-service/pkg/database/migrations"
	"user-service/pkg/utils"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_RunsEmbeddedMigrations(t *testing.T) {
	orig := gooseUp
	t.Cleanup(func() { gooseUp = orig })

	var gotDir string
	gooseUp = func(_ context.Context, _ *sql.DB, dir string) error {
		gotDir = dir
		return nil
	}

	require.NoError(t, Migrate(context.Background(), nil))
	assert.Equal(t, ".", gotDir)
}

func TestMigrate_WrapsError(t *testing.T) {
	orig := gooseUp
	t.Cleanup(func() { gooseUp = orig })

	boom := errors.New("boom")
	gooseUp = func(context.Context, *sql.DB, string) error { return boom }

	err := Migrate(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestMigrations_Embedded(t *testing.T) {
	files, err := fs.Glob(migrations.FS, "*.sql")
	require.NoError(t, err)
	assert.Contains(t, files, "00001_create_users.sql")
}

func TestConnString_DefaultPort(t *testing.T) {
	cfg, err := pgxpool.ParseConfig(ConnString(utils.DatabaseConfig{Host: "db", Name: "users", User: "u", Password: "p"}))
	require.NoError(t, err)
	assert.Equal(t, uint16(5432), cfg.ConnConfig.Port)
	assert.Equal(t, "db", cfg.ConnConfig.Host)
}

func TestConnString_Credentials(t *testing.T) {
	cases := []struct {
		name     string
		password string
	}{
		{"empty password", ""},
		{"password with space", "p w"},
		{"password with quotes and slashes", `a'b\c@d/e?f`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := pgxpool.ParseConfig(ConnString(utils.DatabaseConfig{
				Host:     "db",
				Port:     "6543",
				Name:     "userdb",
				User:     "postgres",
				Password: tc.password,
			}))
			require.NoError(t, err)
			assert.Equal(t, "userdb", cfg.ConnConfig.Database)
			assert.Equal(t, "postgres", cfg.ConnConfig.User)
			assert.Equal(t, tc.password, cfg.ConnConfig.Password)
			assert.Equal(t, uint16(6543), cfg.ConnConfig.Port)
		})
	}
}
