package Config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":3001", cfg.HTTPAddr)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, "0 8 * * 6", cfg.WeeklyCheckinCron)
	assert.Equal(t, devSecret, cfg.JWTSecret)
	assert.False(t, cfg.Email().Configured())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_DRIVER", " Postgres ")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("SMTP_TLS", "true")
	t.Setenv("APP_URL", "https://homelist.example.com/")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Production())
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 2525, cfg.SMTPPort)
	assert.True(t, cfg.Email().TLSEnabled)
	assert.Equal(t, "https://homelist.example.com", cfg.AppURL)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
}

func TestProductionRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load("")
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("FROM_NAME=Home Crew\n"), 0644))
	t.Setenv("APP_ENV", "development")
	t.Setenv("FROM_NAME", "")
	os.Unsetenv("FROM_NAME")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Home Crew", cfg.FromName)
}
