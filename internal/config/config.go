// Package config loads server configuration from an optional YAML file,
// a .env file and the environment.
//
// Precedence, highest first: environment variables, config file, defaults.
// Every key can be set as RECEIPTSPLIT_<SECTION>_<KEY>, for example
// RECEIPTSPLIT_STORAGE_DRIVER=postgres. The older variables PORT, DB_PATH,
// DATABASE_URL, JWT_SECRET, ALLOWED_ORIGINS and LOG_LEVEL are still honored.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is the complete server configuration.
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Auth    AuthConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port           int
	AllowedOrigins []string
	StaticPath     string
}

type StorageConfig struct {
	Driver      string
	SQLitePath  string
	PostgresURL string
	MaxConns    int32
}

type AuthConfig struct {
	JWTSecret string
	// Required rejects RPCs without a valid bearer token. When false, a
	// valid token is still honored and anonymous callers share one history.
	Required bool
}

type LogConfig struct {
	Level string
}

// Load reads .env (if present), then the config file named by CONFIG_PATH or
// ./config.yaml (if present), then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(os.Getenv("CONFIG_PATH"))
}

func load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix("RECEIPTSPLIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	legacy := map[string]string{
		"server.port":            "PORT",
		"server.allowed_origins": "ALLOWED_ORIGINS",
		"server.static_path":     "STATIC_PATH",
		"storage.sqlite_path":    "DB_PATH",
		"storage.postgres_url":   "DATABASE_URL",
		"auth.jwt_secret":        "JWT_SECRET",
		"log.level":              "LOG_LEVEL",
	}
	for key, env := range legacy {
		prefixed := "RECEIPTSPLIT_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, env); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetInt("server.port"),
			AllowedOrigins: stringList(v.Get("server.allowed_origins")),
			StaticPath:     v.GetString("server.static_path"),
		},
		Storage: StorageConfig{
			Driver:      strings.ToLower(v.GetString("storage.driver")),
			SQLitePath:  v.GetString("storage.sqlite_path"),
			PostgresURL: v.GetString("storage.postgres_url"),
			MaxConns:    v.GetInt32("storage.max_conns"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("auth.jwt_secret"),
			Required:  v.GetBool("auth.required"),
		},
		Log: LogConfig{
			Level: v.GetString("log.level"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.static_path", "")
	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.sqlite_path", "./data/receipts.db")
	v.SetDefault("storage.postgres_url", "")
	v.SetDefault("storage.max_conns", 10)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.required", false)
	v.SetDefault("log.level", "info")
}

// Validate reports the first inconsistent setting.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return errors.New("storage.sqlite_path is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.Storage.PostgresURL == "" {
			return errors.New("storage.postgres_url (DATABASE_URL) is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown storage.driver %q (want %s or %s)", c.Storage.Driver, DriverSQLite, DriverPostgres)
	}
	if c.Auth.Required && c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret (JWT_SECRET) is required when auth.required is set")
	}
	return nil
}

// stringList accepts either a YAML list or a comma-separated string.
func stringList(raw any) []string {
	var parts []string
	switch val := raw.(type) {
	case string:
		parts = strings.Split(val, ",")
	case []string:
		parts = val
	case []any:
		for _, p := range val {
			parts = append(parts, fmt.Sprint(p))
		}
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
