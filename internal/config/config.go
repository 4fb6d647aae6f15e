package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port int

	// DataDir holds the flat JSON record collections (parcels.json,
	// users.json, api-keys.json, webhooks.json).
	DataDir string

	JWTSecret string
	AccessTTL time.Duration

	AdminUsername string
	AdminPassword string
	AdminEmail    string
	AdminPhone    string

	// Registration emails must end with this suffix.
	AllowedEmailDomain string

	CORSOrigins []string

	RateLimit  int
	RateWindow time.Duration

	WebhookTimeout time.Duration

	TracingEnabled bool
	OTLPEndpoint   string
}

func Load() Config {
	// .env is optional; real env always wins.
	_ = godotenv.Load()

	return Config{
		Env:                getEnv("APP_ENV", "dev"),
		Port:               getEnvInt("PORT", 3000),
		DataDir:            getEnv("DATA_DIR", "data"),
		JWTSecret:          getEnv("JWT_SECRET", "dev-secret-change-me"),
		AccessTTL:          getEnvDuration("ACCESS_TTL", 24*time.Hour),
		AdminUsername:      getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:      getEnv("ADMIN_PASSWORD", ""),
		AdminEmail:         getEnv("ADMIN_EMAIL", "admin@gmail.com"),
		AdminPhone:         getEnv("ADMIN_PHONE", "01700000000"),
		AllowedEmailDomain: getEnv("ALLOWED_EMAIL_DOMAIN", "@gmail.com"),
		CORSOrigins:        splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		RateLimit:          getEnvInt("RATE_LIMIT", 120),
		RateWindow:         getEnvDuration("RATE_WINDOW", time.Minute),
		WebhookTimeout:     getEnvDuration("WEBHOOK_TIMEOUT", 5*time.Second),
		TracingEnabled:     getEnv("OTEL_ENABLED", "") == "1",
		OTLPEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return d
	}
	return fallback
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}
