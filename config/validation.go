package config

import (
	"fmt"
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

// Validate checks the configuration against the current environment's
// requirements. Development and test run fine on defaults; production must
// supply its secrets explicitly.
func Validate(cfg *Config) error {
	var errors []string

	if cfg.ServerPort == "" {
		errors = append(errors, "SERVER_PORT must not be empty")
	}

	if IsProduction() {
		if cfg.JWTSecret == "" {
			errors = append(errors, "JWT_SECRET (or jwt_secret secret) is required in production")
		}
		if cfg.DBPassword == "" {
			errors = append(errors, "DB_PASSWORD (or db_password secret) is required in production")
		}
		if cfg.DBSSLMode == "" {
			errors = append(errors, "DB_SSL_MODE is required in production")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}
	return nil
}
