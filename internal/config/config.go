package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort               = "8080"
	defaultDatabaseURL        = "tour.db"
	defaultJWTSecret          = "change-me-jwt-secret"
	defaultSubmitCooldown     = "24h"
	defaultDeleteWindow       = "24h"
	defaultMaxDeletionsPerDay = "3"
	defaultAdminTokenTTL      = "1h"
)

type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	// StorageDriver is "sql" for DatabaseURL or "memory" for a throwaway store.
	StorageDriver string

	JWTSecret     string
	AdminTokenTTL time.Duration

	SubmitCooldown     time.Duration
	DeleteWindow       time.Duration
	MaxDeletionsPerDay int
	Timezone           *time.Location

	// BannedWords overrides the built-in list when set.
	BannedWords        []string
	CORSAllowedOrigins []string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config_dotenv_ignored error=%v", err)
	}

	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(getEnv("STORAGE_DRIVER", "sql")))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.BannedWords = parseListEnv("BANNED_WORDS")
	cfg.CORSAllowedOrigins = parseListEnv("CORS_ALLOWED_ORIGINS")

	var err error
	cfg.AdminTokenTTL, err = parseDurationEnv("ADMIN_TOKEN_TTL", defaultAdminTokenTTL)
	if err != nil {
		return nil, err
	}

	cfg.SubmitCooldown, err = parseDurationEnv("REVIEW_SUBMIT_COOLDOWN", defaultSubmitCooldown)
	if err != nil {
		return nil, err
	}

	cfg.DeleteWindow, err = parseDurationEnv("REVIEW_DELETE_WINDOW", defaultDeleteWindow)
	if err != nil {
		return nil, err
	}

	cfg.MaxDeletionsPerDay, err = parseIntEnv("REVIEW_MAX_DELETIONS_PER_DAY", defaultMaxDeletionsPerDay)
	if err != nil {
		return nil, err
	}

	cfg.Timezone, err = time.LoadLocation(strings.TrimSpace(getEnv("TIMEZONE", "Local")))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE value: %w", err)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	log.Printf("review policy: cooldown=%s delete_window=%s max_deletions_per_day=%d timezone=%s",
		cfg.SubmitCooldown, cfg.DeleteWindow, cfg.MaxDeletionsPerDay, cfg.Timezone)

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if cfg.StorageDriver != "sql" && cfg.StorageDriver != "memory" {
		return fmt.Errorf("STORAGE_DRIVER must be one of: sql, memory")
	}
	if cfg.StorageDriver == "sql" && cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.SubmitCooldown <= 0 {
		return fmt.Errorf("REVIEW_SUBMIT_COOLDOWN must be > 0")
	}
	if cfg.DeleteWindow <= 0 {
		return fmt.Errorf("REVIEW_DELETE_WINDOW must be > 0")
	}
	if cfg.MaxDeletionsPerDay <= 0 {
		return fmt.Errorf("REVIEW_MAX_DELETIONS_PER_DAY must be > 0")
	}
	if cfg.AdminTokenTTL <= 0 {
		return fmt.Errorf("ADMIN_TOKEN_TTL must be > 0")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if cfg.StorageDriver == "memory" {
			return fmt.Errorf("in prod/release STORAGE_DRIVER must be sql")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseListEnv(name string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(name), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
