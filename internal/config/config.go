package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	SessionBackendCookie   = "cookie"
	SessionBackendPostgres = "postgres"

	defaultPort       = "3000"
	defaultSessionTTL = 7 * 24 * time.Hour
)

var ErrBackendAPIMissing = errors.New("BACKEND_API is not set")

type Config struct {
	BackendAPI     string
	AppPort        string
	AppEnv         string
	AppSecret      string
	SessionBackend string
	SessionTTL     time.Duration
	SecureCookies  bool

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
}

// Load reads the environment. A missing BACKEND_API is an error; main
// treats any error here as fatal.
func Load() (*Config, error) {
	_ = godotenv.Load()

	backend := normalizeBaseURL(os.Getenv("BACKEND_API"))
	if backend == "" {
		return nil, ErrBackendAPIMissing
	}

	cfg := &Config{
		BackendAPI:     backend,
		AppPort:        getenv("APP_PORT", defaultPort),
		AppEnv:         os.Getenv("APP_ENV"),
		AppSecret:      os.Getenv("APP_SECRET"),
		SessionBackend: strings.ToLower(getenv("SESSION_BACKEND", SessionBackendCookie)),
		SessionTTL:     getenvDuration("SESSION_TTL", defaultSessionTTL),
		SecureCookies:  getenvBool("SECURE_COOKIES", false),
		DBHost:         os.Getenv("DB_HOST"),
		DBUser:         os.Getenv("DB_USER"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBName:         os.Getenv("DB_NAME"),
		DBPort:         os.Getenv("DB_PORT"),
	}

	switch cfg.SessionBackend {
	case SessionBackendCookie:
	case SessionBackendPostgres:
		if cfg.DBHost == "" {
			return nil, errors.New("SESSION_BACKEND=postgres requires DB_HOST")
		}
	default:
		return nil, errors.New("SESSION_BACKEND must be cookie or postgres")
	}

	if cfg.AppSecret == "" {
		if cfg.AppEnv == "production" {
			return nil, errors.New("APP_SECRET is required in production")
		}
		cfg.AppSecret = "kidofood-development-secret"
	}

	return cfg, nil
}

func normalizeBaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	return strings.TrimSuffix(raw, "/")
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
