package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SOCIAL_AUTH_JWTSECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:6001", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, DatabaseSQLite, cfg.Database.Driver)
	assert.Equal(t, StorageLocal, cfg.Storage.Driver)
	assert.Equal(t, "public/assets", cfg.Storage.LocalDir)
	assert.Equal(t, time.Duration(0), cfg.Auth.TokenTTL)
	assert.Equal(t, bcrypt.DefaultCost, cfg.Auth.BcryptCost)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "legacy-secret")
	t.Setenv("MONGO_URL", "mongodb://localhost:27017")
	t.Setenv("SOCIAL_DATABASE_DRIVER", DatabaseMongoDB)
	t.Setenv("SOCIAL_AUTH_TOKENTTL", "24h")
	t.Setenv("SOCIAL_CORS_ALLOWEDORIGINS", "http://localhost:3000,https://example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "legacy-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Database.MongoURI)
	assert.Equal(t, DatabaseMongoDB, cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, []string{"http://localhost:3000", "https://example.com"}, cfg.CORS.AllowedOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestLoadReadsDotEnvAndConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("SOCIAL_AUTH_JWTSECRET", "from-env")
	t.Cleanup(func() { _ = os.Unsetenv("SOCIAL_STORAGE_KEYPREFIX") })

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("SOCIAL_STORAGE_KEYPREFIX=avatars\nSOCIAL_AUTH_JWTSECRET=from-dotenv\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
		[]byte("server:\n  addr: 127.0.0.1:9000\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "avatars", cfg.Storage.KeyPrefix)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		var cfg Config
		cfg.Auth.JWTSecret = "secret"
		cfg.Auth.BcryptCost = bcrypt.DefaultCost
		cfg.Database.Driver = DatabaseSQLite
		cfg.Database.Path = "data/social.db"
		cfg.Storage.Driver = StorageLocal
		cfg.Storage.LocalDir = "public/assets"
		cfg.Server.MaxUploadBytes = 1 << 20
		return cfg
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing secret", func(c *Config) { c.Auth.JWTSecret = " " }},
		{"negative ttl", func(c *Config) { c.Auth.TokenTTL = -time.Second }},
		{"bcrypt cost too high", func(c *Config) { c.Auth.BcryptCost = bcrypt.MaxCost + 1 }},
		{"unknown database", func(c *Config) { c.Database.Driver = "postgres" }},
		{"mongodb without uri", func(c *Config) { c.Database.Driver = DatabaseMongoDB }},
		{"unknown storage", func(c *Config) { c.Storage.Driver = "ftp" }},
		{"s3 without bucket", func(c *Config) { c.Storage.Driver = StorageS3 }},
		{"no upload limit", func(c *Config) { c.Server.MaxUploadBytes = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
