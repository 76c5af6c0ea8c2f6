package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func writeEnv(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFrom_FileWithDefaults(t *testing.T) {
	path := writeEnv(t, "DB_HOST=db\nDB_USER=fabdive\nDB_NAME=fabdive\nJWT_ACCESS_SECRET="+testSecret+"\n")

	cfg, err := LoadFrom(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "db", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "host=db port=5432 user=fabdive password= dbname=fabdive sslmode=disable", cfg.Database.GetDSN())
	assert.Equal(t, "localhost:6379", cfg.Redis.GetAddr())
	assert.Equal(t, "/home", cfg.Onboarding.SignedOutPath)
	assert.Equal(t, "/matches", cfg.Onboarding.DonePath)
	assert.Equal(t, 15*time.Minute, cfg.Onboarding.MagicLinkTTL)
	assert.Equal(t, 5, cfg.Crush.DailyLimit)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, 30*24*time.Hour, cfg.JWT.SessionTTL)
}

func TestLoadFrom_EnvironmentOverridesFile(t *testing.T) {
	path := writeEnv(t, "DB_HOST=db\nDB_USER=fabdive\nDB_NAME=fabdive\nJWT_ACCESS_SECRET="+testSecret+"\n")
	t.Setenv("ONBOARDING_DONE_PATH", "/discover")
	t.Setenv("CRUSH_DAILY_LIMIT", "3")

	cfg, err := LoadFrom(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "/discover", cfg.Onboarding.DonePath)
	assert.Equal(t, 3, cfg.Crush.DailyLimit)
}

func TestLoadFrom_MissingFileUsesEnvironment(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "fabdive")
	t.Setenv("DB_NAME", "fabdive")
	t.Setenv("JWT_ACCESS_SECRET", testSecret)

	cfg, err := LoadFrom(viper.New(), filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Database.Host)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Database: DatabaseConfig{Host: "db", User: "u", DBName: "d"},
			JWT:      JWTConfig{AccessSecret: testSecret},
			Storage:  StorageConfig{Type: "local"},
			Crush:    CrushConfig{DailyLimit: 5},
		}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"no db host", func(c *Config) { c.Database.Host = "" }, "database host is required"},
		{"short secret", func(c *Config) { c.JWT.AccessSecret = "short" }, "at least 32 characters"},
		{"gcs without bucket", func(c *Config) { c.Storage.Type = "gcs" }, "storage bucket"},
		{"unknown storage", func(c *Config) { c.Storage.Type = "ftp" }, "unknown storage type"},
		{"zero crush limit", func(c *Config) { c.Crush.DailyLimit = 0 }, "crush daily limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
