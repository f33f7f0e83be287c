package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// JWT configuration
	JWTSecret string

	// External AI service configuration
	AIAPIKey string
	AIAPIURL string
	AIModel  string

	// Fitness provider configuration
	FitnessAPIKey  string
	FitnessBaseURL string

	// S3 configuration
	S3Bucket  string
	AWSRegion string
}

// Load creates a Config from environment variables. In development a .env
// file in the working directory is loaded first; missing .env is not an
// error.
func Load() (*Config, error) {
	if !IsProduction() {
		_ = godotenv.Load()
	}

	cfg := &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		ServerHost: getEnv("SERVER_HOST", "0.0.0.0"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnvOrSecret("DB_USER", "db_user", "postgres"),
		DBPassword: getEnvOrSecret("DB_PASSWORD", "db_password", ""),
		DBName:     getEnv("DB_NAME", "nutritrack"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnvOrSecret("REDIS_PASSWORD", "redis_password", ""),

		JWTSecret: getEnvOrSecret("JWT_SECRET", "jwt_secret", ""),

		AIAPIKey: getEnvOrSecret("AI_API_KEY", "ai_api_key", ""),
		AIAPIURL: getEnv("AI_API_URL", ""),
		AIModel:  getEnv("AI_MODEL", ""),

		FitnessAPIKey:  getEnvOrSecret("FITNESS_API_KEY", "fitness_api_key", ""),
		FitnessBaseURL: getEnv("FITNESS_BASE_URL", ""),

		S3Bucket:  getEnv("S3_BUCKET_NAME", "nutritrack-meal-photos"),
		AWSRegion: getEnv("AWS_REGION", "us-east-1"),
	}

	if db := os.Getenv("REDIS_DB"); db != "" {
		n, err := strconv.Atoi(db)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB value %q: %w", db, err)
		}
		cfg.RedisDB = n
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// DSN returns the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// RedisAddr returns the redis host:port address.
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvOrSecret reads an environment variable, falling back to a Docker
// secret file at /run/secrets/<name>, then to the default.
func getEnvOrSecret(envKey, secretName, fallback string) string {
	if value := os.Getenv(envKey); value != "" {
		return value
	}
	if data, err := os.ReadFile("/run/secrets/" + secretName); err == nil {
		if value := strings.TrimSpace(string(data)); value != "" {
			return value
		}
	}
	return fallback
}
