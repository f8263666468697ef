// Package config loads service configuration: built-in defaults, then an
// optional YAML file, then environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable holding the YAML file path.
const EnvConfigPath = "FRONTUSER_CONFIG"

// Config is the full service configuration.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Auth     AuthConfig     `yaml:"auth"`
}

type AppConfig struct {
	Port string `yaml:"port"`
	Env  string `yaml:"env"`
}

// IsDevelopment reports whether the service runs in development mode.
func (a AppConfig) IsDevelopment() bool {
	return a.Env == "development"
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	MaxConns int32  `yaml:"max_conns"`
	Migrate  bool   `yaml:"migrate"`
}

// RedisConfig selects the session store. An empty Addr keeps sessions in
// process memory.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type AuthConfig struct {
	Provider         string        `yaml:"provider"`
	JWTSecret        string        `yaml:"jwt_secret"`
	JWTIssuer        string        `yaml:"jwt_issuer"`
	AccessTokenTTL   time.Duration `yaml:"access_token_ttl"`
	SessionTTL       time.Duration `yaml:"session_ttl"`
	SessionCookie    string        `yaml:"session_cookie"`
	MaxLoginAttempts int           `yaml:"max_login_attempts"`
	LockDuration     time.Duration `yaml:"lock_duration"`
	AuditEvents      bool          `yaml:"audit_events"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		App: AppConfig{Port: "8080", Env: "development"},
		Log: LogConfig{Level: "info"},
		Database: DatabaseConfig{
			MaxConns: 10,
			Migrate:  true,
		},
		Auth: AuthConfig{
			Provider:         "frontuser:login",
			JWTIssuer:        "frontuser",
			AccessTokenTTL:   15 * time.Minute,
			SessionTTL:       24 * time.Hour,
			SessionCookie:    "frontuser_session",
			MaxLoginAttempts: 5,
			LockDuration:     15 * time.Minute,
			AuditEvents:      true,
		},
	}
}

// Load builds the configuration. path may be empty, in which case
// FRONTUSER_CONFIG is consulted; with neither set only defaults and
// environment apply. The result is validated.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.App.Port = getEnv("APP_PORT", c.App.Port)
	c.App.Env = getEnv("APP_ENV", c.App.Env)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)

	c.Database.URL = getEnv("DATABASE_URL", c.Database.URL)
	c.Database.MaxConns = int32(getEnvInt("DATABASE_MAX_CONNS", int(c.Database.MaxConns)))
	c.Database.Migrate = getEnvBool("DATABASE_MIGRATE", c.Database.Migrate)

	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvInt("REDIS_DB", c.Redis.DB)

	c.Auth.Provider = getEnv("AUTH_PROVIDER", c.Auth.Provider)
	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)
	c.Auth.JWTIssuer = getEnv("JWT_ISSUER", c.Auth.JWTIssuer)
	c.Auth.AccessTokenTTL = getEnvDuration("ACCESS_TOKEN_TTL", c.Auth.AccessTokenTTL)
	c.Auth.SessionTTL = getEnvDuration("SESSION_TTL", c.Auth.SessionTTL)
	c.Auth.SessionCookie = getEnv("SESSION_COOKIE", c.Auth.SessionCookie)
	c.Auth.MaxLoginAttempts = getEnvInt("MAX_LOGIN_ATTEMPTS", c.Auth.MaxLoginAttempts)
	c.Auth.LockDuration = getEnvDuration("LOCK_DURATION", c.Auth.LockDuration)
	c.Auth.AuditEvents = getEnvBool("AUTH_AUDIT_EVENTS", c.Auth.AuditEvents)
}

// Validate reports every problem found, joined.
func (c Config) Validate() error {
	var errs []error

	if c.App.Port == "" {
		errs = append(errs, errors.New("app.port is required"))
	}
	if c.Database.URL == "" {
		errs = append(errs, errors.New("database.url (DATABASE_URL) is required"))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret (JWT_SECRET) is required"))
	}
	if c.Auth.Provider == "" {
		errs = append(errs, errors.New("auth.provider is required"))
	}
	if c.Auth.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("auth.access_token_ttl must be positive"))
	}
	if c.Auth.SessionTTL <= 0 {
		errs = append(errs, errors.New("auth.session_ttl must be positive"))
	}
	if c.Auth.MaxLoginAttempts < 0 {
		errs = append(errs, errors.New("auth.max_login_attempts must not be negative"))
	}

	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
