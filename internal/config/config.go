package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	AppEnv         string
	Port           string
	LogLevel       string
	AllowedOrigins string

	DatabaseURL string
	RedisURL    string

	MeiliSearchHost string
	MeiliMasterKey  string

	JWTSecret  string
	JWTTTL     time.Duration
	BcryptCost int

	MaxAdmins        int
	NotifyOnApproval bool

	RateLimitIdea  time.Duration
	IdempotencyTTL time.Duration
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		MeiliSearchHost: os.Getenv("MEILISEARCH_HOST"),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),

		JWTSecret: getEnv("JWT_SECRET", "change-me"),
	}

	ttlMinutes, err := strconv.Atoi(getEnv("JWT_TTL_MINUTES", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL_MINUTES: %w", err)
	}
	cfg.JWTTTL = time.Duration(ttlMinutes) * time.Minute

	cfg.BcryptCost, err = strconv.Atoi(getEnv("BCRYPT_COST", strconv.Itoa(bcrypt.DefaultCost)))
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}

	cfg.MaxAdmins, err = strconv.Atoi(getEnv("MAX_ADMINS", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_ADMINS: %w", err)
	}

	cfg.NotifyOnApproval, err = strconv.ParseBool(getEnv("NOTIFY_ON_APPROVAL", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid NOTIFY_ON_APPROVAL: %w", err)
	}

	cfg.RateLimitIdea, err = time.ParseDuration(getEnv("RATE_LIMIT_IDEA", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_IDEA: %w", err)
	}
	cfg.IdempotencyTTL, err = time.ParseDuration(getEnv("IDEMPOTENCY_TTL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid IDEMPOTENCY_TTL: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
