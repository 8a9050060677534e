package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/portaria-app/backend/internal/utils"
)

// Config holds every externally supplied setting. All required values
// are read once at startup; a missing one is fatal.
type Config struct {
	Port        string
	DatabaseURL string

	JWTSecret          []byte
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string

	SendGridAPIKey string
	EmailFrom      string

	CORSAllowedOrigins []string

	// Bootstrap super admin, created on first start if absent.
	SuperAdminEmail    string
	SuperAdminPassword string
	SuperAdminName     string
}

// LoadConfig reads .env (if present) and the process environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		utils.Logger.Info("No .env file found, relying on environment")
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: mustGetEnv("DATABASE_URL"),

		JWTSecret:          []byte(mustGetEnv("JWT_SECRET")),
		AccessTokenExpiry:  getEnvDuration("ACCESS_TOKEN_EXPIRY_MINUTES", 60) * time.Minute,
		RefreshTokenExpiry: getEnvDuration("REFRESH_TOKEN_EXPIRY_HOURS", 24*7) * time.Hour,

		TwilioAccountSID: mustGetEnv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  mustGetEnv("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber: mustGetEnv("TWILIO_FROM_NUMBER"),

		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		EmailFrom:      getEnv("EMAIL_FROM", "no-reply@portaria.app"),

		CORSAllowedOrigins: splitEnv("CORS_ALLOWED_ORIGINS", "*"),

		SuperAdminEmail:    getEnv("SUPER_ADMIN_EMAIL", ""),
		SuperAdminPassword: getEnv("SUPER_ADMIN_PASSWORD", ""),
		SuperAdminName:     getEnv("SUPER_ADMIN_NAME", "Administrador"),
	}

	if len(cfg.JWTSecret) < 32 {
		utils.Logger.Fatal("JWT_SECRET must be at least 32 bytes")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func mustGetEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		utils.Logger.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnvDuration(key string, fallback int64) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return time.Duration(fallback)
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		utils.Logger.Fatalf("Invalid integer for %s: %q", key, v)
	}
	return time.Duration(n)
}

func splitEnv(key, fallback string) []string {
	v := getEnv(key, fallback)
	parts := strings.Split(v, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
