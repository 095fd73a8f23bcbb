package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "./data/receipts.db", cfg.Storage.SQLitePath)
	assert.Equal(t, int32(10), cfg.Storage.MaxConns)
	assert.False(t, cfg.Auth.Required)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "receiptsplit.yaml")
	yaml := `
server:
  port: 9090
  allowed_origins:
    - https://split.example.com
    - http://localhost:5173
storage:
  driver: postgres
  postgres_url: postgres://split@localhost/split
  max_conns: 4
auth:
  jwt_secret: file-secret
  required: true
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"https://split.example.com", "http://localhost:5173"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, "postgres://split@localhost/split", cfg.Storage.PostgresURL)
	assert.Equal(t, int32(4), cfg.Storage.MaxConns)
	assert.Equal(t, "file-secret", cfg.Auth.JWTSecret)
	assert.True(t, cfg.Auth.Required)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o600))

	t.Setenv("RECEIPTSPLIT_SERVER_PORT", "7000")
	t.Setenv("RECEIPTSPLIT_AUTH_REQUIRED", "true")
	t.Setenv("JWT_SECRET", "legacy-secret")
	t.Setenv("DB_PATH", "/tmp/legacy.db")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := load(path)
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.True(t, cfg.Auth.Required)
	assert.Equal(t, "legacy-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "/tmp/legacy.db", cfg.Storage.SQLitePath)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:  ServerConfig{Port: 8080},
			Storage: StorageConfig{Driver: DriverSQLite, SQLitePath: "x.db"},
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 70000 }, errMsg: "server.port"},
		{name: "unknown driver", mutate: func(c *Config) { c.Storage.Driver = "mysql" }, errMsg: "unknown storage.driver"},
		{name: "postgres without url", mutate: func(c *Config) { c.Storage.Driver = DriverPostgres }, errMsg: "postgres_url"},
		{name: "required auth without secret", mutate: func(c *Config) { c.Auth.Required = true }, errMsg: "jwt_secret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
