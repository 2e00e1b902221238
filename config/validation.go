package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// requirement is a single named check applied to a loaded Config
type requirement struct {
	field string
	check func(cfg *Config) string
}

var (
	baseRequirements = []requirement{
		{"SERVER_PORT", func(cfg *Config) string {
			port, err := strconv.Atoi(cfg.ServerPort)
			if err != nil || port < 1 || port > 65535 {
				return "must be a port between 1 and 65535"
			}
			return ""
		}},
		{"DB_DRIVER", func(cfg *Config) string {
			switch cfg.Database.Driver {
			case DriverSQLite, DriverPostgres, DriverMemory:
				return ""
			}
			return fmt.Sprintf("unsupported driver %q (want sqlite, postgres or memory)", cfg.Database.Driver)
		}},
		{"DB_PATH", func(cfg *Config) string {
			if cfg.Database.Driver == DriverSQLite && cfg.Database.Path == "" {
				return "is required for the sqlite driver"
			}
			return ""
		}},
		{"DB_HOST", func(cfg *Config) string {
			if cfg.Database.Driver == DriverPostgres && (cfg.Database.Host == "" || cfg.Database.Name == "") {
				return "DB_HOST and DB_NAME are required for the postgres driver"
			}
			return ""
		}},
		{"GENERATION_RATE_LIMIT", func(cfg *Config) string {
			if cfg.RateLimit.GenerationLimit < 1 || cfg.RateLimit.GenerationWindow <= 0 {
				return "limit and window must be positive"
			}
			return ""
		}},
		{"AUTH_PASSWORD_HASH", func(cfg *Config) string {
			if cfg.Auth.Enabled() && cfg.Auth.PasswordHash == "" {
				return "is required when AUTH_USER is set"
			}
			return ""
		}},
		{"JWT_SECRET", func(cfg *Config) string {
			if cfg.Auth.Enabled() && cfg.Auth.JWTSecret == "" {
				return "is required when AUTH_USER is set"
			}
			return ""
		}},
	}

	// Environment-specific requirements
	requirements = map[Environment][]requirement{
		Production: {
			{"AUTH_USER", func(cfg *Config) string {
				if !cfg.Auth.Enabled() {
					return "is required in production"
				}
				return ""
			}},
			{"DB_DRIVER", func(cfg *Config) string {
				if cfg.Database.Driver == DriverMemory {
					return "memory driver is not allowed in production"
				}
				return ""
			}},
		},
	}
)

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	var errs []string

	checks := append([]requirement{}, baseRequirements...)
	checks = append(checks, requirements[cfg.Environment]...)
	for _, req := range checks {
		if msg := req.check(cfg); msg != "" {
			errs = append(errs, ValidationError{Field: req.field, Message: msg}.Error())
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}

	return nil
}
