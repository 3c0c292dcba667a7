package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	t.Chdir(t.TempDir())
	wd, err := os.Getwd()
	require.NoError(t, err)
	return wd
}

func TestLoad_Defaults(t *testing.T) {
	wd := chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(wd, "unintend.db"), cfg.Database.Path)
	assert.Equal(t, filepath.Join(wd, "uploads"), cfg.Uploads.Dir)
	assert.Equal(t, "/uploads", cfg.Uploads.PublicPrefix)
	assert.Empty(t, cfg.Seed.Password)
	assert.Empty(t, cfg.Seed.Baseline)
	assert.Equal(t, bcrypt.DefaultCost, cfg.Seed.PasswordCost)
	assert.Equal(t, "0.0.0.0:8000", cfg.Server.Addr)
	assert.Equal(t, "us-east-1", cfg.Storage.Region)
	assert.Equal(t, 1440, cfg.Auth.TokenTTLMinutes)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	wd := chdirTemp(t)
	t.Setenv("UNINTEND_DATABASE_PATH", "data/store.db")
	t.Setenv("UNINTEND_SEED_PASSWORDCOST", "4")
	t.Setenv("UNINTEND_STORAGE_BUCKET", "media")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(wd, "data", "store.db"), cfg.Database.Path)
	assert.Equal(t, 4, cfg.Seed.PasswordCost)
	assert.Equal(t, "media", cfg.Storage.Bucket)
}

func TestLoad_DotEnv(t *testing.T) {
	chdirTemp(t)
	t.Setenv("UNINTEND_LOG_LEVEL", "warn")
	t.Cleanup(func() { _ = os.Unsetenv("UNINTEND_SEED_PASSWORD") })

	require.NoError(t, os.WriteFile(".env", []byte(`
# demo settings
UNINTEND_SEED_PASSWORD="from-dotenv"
UNINTEND_LOG_LEVEL=debug
not a pair
`), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Seed.Password)
	// Process env wins over the file.
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_ConfigFile(t *testing.T) {
	chdirTemp(t)
	require.NoError(t, os.WriteFile("config.yaml", []byte("server:\n  addr: 127.0.0.1:9000\n"), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
}

func TestLoad_RejectsBadCost(t *testing.T) {
	chdirTemp(t)
	t.Setenv("UNINTEND_SEED_PASSWORDCOST", "99")

	_, err := Load()
	assert.Error(t, err)
}

func TestSetDatabasePath(t *testing.T) {
	wd := chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.SetDatabasePath("other.db"))
	assert.Equal(t, filepath.Join(wd, "other.db"), cfg.Database.Path)
}
