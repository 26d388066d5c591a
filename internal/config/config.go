package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all environment-driven settings for the service.
type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	DatabaseURL string
	RedisURL    string

	// Auth secrets. JWTSecret and PasswordPepper are base64-encoded random
	// material; RegistrationKey gates account creation.
	JWTSecret       string
	PasswordPepper  string
	RegistrationKey string

	// AvatarDir is the directory avatar uploads are written to. It is
	// served by the frontend under /images/avatar/.
	AvatarDir string

	// KafkaBrokers enables the Kafka event publisher when non-empty;
	// otherwise events stay in-process.
	KafkaBrokers []string
}

// LoadConfig reads configuration from the environment (and .env if present).
func LoadConfig() (*Config, error) {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		LogLevel:        parseLogLevel(getEnv("LOG_LEVEL", "info")),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisURL:        os.Getenv("REDIS_URL"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		PasswordPepper:  os.Getenv("PASSWORD_PEPPER"),
		RegistrationKey: os.Getenv("REGISTRATION_KEY"),
		AvatarDir:       getEnv("AVATAR_DIR", "../frontend/public/images/avatar"),
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	missing := []string{}
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.PasswordPepper == "" {
		missing = append(missing, "PASSWORD_PEPPER")
	}
	if c.RegistrationKey == "" {
		missing = append(missing, "REGISTRATION_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// IsProduction reports whether the service runs in production mode.
// Cookies are only marked Secure in production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
