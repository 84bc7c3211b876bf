package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoad_SQLiteDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("AUTH_JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "ticketdesk.db", cfg.Store.SQLitePath)
	assert.Equal(t, "0.0.0.0:8000", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Zero(t, cfg.Auth.TokenTTL())
	assert.False(t, cfg.Auth.ProtectResources)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	content := "STORE_DRIVER=sqlite\nAUTH_JWT_SECRET=from-file\nAUTH_ACCESS_TOKEN_TTL_MINUTES=15\nAUTH_PROTECT_RESOURCES=true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	// godotenv never overrides variables that are already set.
	for _, key := range []string{"STORE_DRIVER", "AUTH_JWT_SECRET", "AUTH_ACCESS_TOKEN_TTL_MINUTES", "AUTH_PROTECT_RESOURCES"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Auth.JWTSecret)
	assert.Equal(t, 15*time.Minute, cfg.Auth.TokenTTL())
	assert.True(t, cfg.Auth.ProtectResources)
}

func TestLoad_MissingEnvFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "postgres without dsn",
			cfg:     Config{Store: StoreConfig{Driver: StoreDriverPostgres}, Auth: AuthConfig{JWTSecret: "x"}},
			wantErr: true,
		},
		{
			name: "postgres with dsn",
			cfg: Config{
				Store:    StoreConfig{Driver: StoreDriverPostgres},
				Postgres: PostgresConfig{DSN: "postgres://localhost/db"},
				Auth:     AuthConfig{JWTSecret: "x"},
			},
		},
		{
			name:    "unknown driver",
			cfg:     Config{Store: StoreConfig{Driver: "mongo"}, Auth: AuthConfig{JWTSecret: "x"}},
			wantErr: true,
		},
		{
			name:    "missing secret",
			cfg:     Config{Store: StoreConfig{Driver: StoreDriverSQLite, SQLitePath: "x.db"}},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
