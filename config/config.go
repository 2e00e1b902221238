package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string

	// Logging configuration
	LogLevel  string
	LogFormat string

	Database  DatabaseConfig
	Redis     RedisConfig
	Gemini    GeminiConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	S3        S3Settings
}

// DatabaseConfig selects and configures the recipe store
type DatabaseConfig struct {
	// Driver is one of sqlite, postgres or memory
	Driver string
	// Path is the sqlite database file
	Path string

	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig configures the redis client used for rate limiting
type RedisConfig struct {
	URL      string
	Host     string
	Port     string
	Password string
	DB       int
}

// GeminiConfig configures the recipe generation model
type GeminiConfig struct {
	APIKey string
	APIURL string
	Model  string
	// Language, when set, is the language every generated text value is written in
	Language string
}

// AuthConfig holds the single configured user
type AuthConfig struct {
	User         string
	PasswordHash string
	JWTSecret    string
	TokenTTL     time.Duration
	CookieSecure bool
}

// Enabled reports whether login is required
func (a AuthConfig) Enabled() bool {
	return a.User != ""
}

// RateLimitConfig bounds recipe generations per user or client IP
type RateLimitConfig struct {
	GenerationLimit  int
	GenerationWindow time.Duration
}

// S3Settings configures the recipe export bucket
type S3Settings struct {
	Bucket     string
	Region     string
	Endpoint   string
	PresignTTL time.Duration
}

// Database drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// secretKeys may come from the environment, from <NAME>_FILE or from a docker secret
var secretKeys = []string{
	"jwt_secret",
	"db_password",
	"redis_password",
	"gemini_api_key",
	"auth_password_hash",
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	for _, key := range secretKeys {
		if v.GetString(key) != "" {
			continue
		}
		value, err := readSecretFile(key)
		if err != nil {
			return nil, err
		}
		if value != "" {
			v.Set(key, value)
		}
	}

	env, err := ParseEnvironment(v.GetString("env"))
	if err != nil {
		return nil, err
	}
	if v.GetBool("ci") {
		env = CI
	}

	cfg := &Config{
		Environment: env,
		ServerPort:  v.GetString("server_port"),
		ServerHost:  v.GetString("server_host"),
		CORSOrigins: splitList(v.GetString("cors_allowed_origins")),
		LogLevel:    v.GetString("log_level"),
		LogFormat:   v.GetString("log_format"),
		Database: DatabaseConfig{
			Driver:          strings.ToLower(v.GetString("db_driver")),
			Path:            v.GetString("db_path"),
			Host:            v.GetString("db_host"),
			Port:            v.GetString("db_port"),
			User:            v.GetString("db_user"),
			Password:        v.GetString("db_password"),
			Name:            v.GetString("db_name"),
			SSLMode:         v.GetString("db_ssl_mode"),
			MaxOpenConns:    v.GetInt("db_max_open_conns"),
			MaxIdleConns:    v.GetInt("db_max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("db_conn_max_lifetime"),
		},
		Redis: RedisConfig{
			URL:      v.GetString("redis_url"),
			Host:     v.GetString("redis_host"),
			Port:     v.GetString("redis_port"),
			Password: v.GetString("redis_password"),
			DB:       v.GetInt("redis_db"),
		},
		Gemini: GeminiConfig{
			APIKey:   strings.TrimSpace(v.GetString("gemini_api_key")),
			APIURL:   v.GetString("gemini_api_url"),
			Model:    v.GetString("gemini_model"),
			Language: strings.TrimSpace(v.GetString("gemini_language")),
		},
		Auth: AuthConfig{
			User:         strings.TrimSpace(v.GetString("auth_user")),
			PasswordHash: strings.TrimSpace(v.GetString("auth_password_hash")),
			JWTSecret:    v.GetString("jwt_secret"),
			TokenTTL:     v.GetDuration("auth_token_ttl"),
			CookieSecure: env == Production,
		},
		RateLimit: RateLimitConfig{
			GenerationLimit:  v.GetInt("generation_rate_limit"),
			GenerationWindow: v.GetDuration("generation_rate_window"),
		},
		S3: S3Settings{
			Bucket:     v.GetString("s3_bucket_name"),
			Region:     v.GetString("aws_region"),
			Endpoint:   v.GetString("s3_endpoint"),
			PresignTTL: v.GetDuration("s3_presign_ttl"),
		},
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", string(Development))
	v.SetDefault("server_port", "8080")
	v.SetDefault("server_host", "0.0.0.0")
	v.SetDefault("cors_allowed_origins", "http://localhost:3000")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	v.SetDefault("db_driver", DriverSQLite)
	v.SetDefault("db_path", "recipes.db")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_name", "recipes")
	v.SetDefault("db_ssl_mode", "disable")
	v.SetDefault("db_max_open_conns", 25)
	v.SetDefault("db_max_idle_conns", 5)
	v.SetDefault("db_conn_max_lifetime", "1h")

	v.SetDefault("redis_host", "localhost")
	v.SetDefault("redis_port", "6379")
	v.SetDefault("redis_db", 0)

	v.SetDefault("gemini_api_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("gemini_model", "gemini-pro")

	v.SetDefault("auth_token_ttl", "24h")

	v.SetDefault("generation_rate_limit", 20)
	v.SetDefault("generation_rate_window", "1h")

	v.SetDefault("s3_bucket_name", "recipebox-exports")
	v.SetDefault("s3_presign_ttl", "15m")
}

// readSecretFile resolves a secret from <NAME>_FILE, falling back to the docker
// secrets directory. A missing docker secret is not an error.
func readSecretFile(key string) (string, error) {
	if path := os.Getenv(strings.ToUpper(key) + "_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read %s_FILE: %w", strings.ToUpper(key), err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	return readSecret(key), nil
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// RedisAddr returns host:port for the redis client when no URL is configured
func (r RedisConfig) RedisAddr() string {
	return r.Host + ":" + r.Port
}
