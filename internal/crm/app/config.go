package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/crmgate/pkg/httpx"
	"github.com/aussiebroadwan/crmgate/pkg/jwtx"
	"github.com/joho/godotenv"
)

type Config struct {
	Issuer         string   // Issuer claim for tokens (default: crmgate)
	Audience       []string // Audience claim, comma separated in CRM_AUDIENCE (default: crm-dashboard)
	BootstrapToken string   // Optional: token required to perform bootstrap

	DatabaseFile   string // Path to SQLite database file (default: ./crm.db)
	PepperFile     string // Path to the password pepper, created when missing (default: ./pepper)
	SigningKeyFile string // Path to the Ed25519 PEM key, created when missing (default: ./signing.pem)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired token sweep interval (default: 1h)

	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	RoleCacheSize   int
	RoleCacheTTL    time.Duration

	RateLimits httpx.RateLimitProfiles
}

// LoadConfig reads the environment. Values from .env files in the working
// directory are loaded first and never override variables already set.
func LoadConfig() Config {
	_ = godotenv.Load(".env")

	return Config{
		Issuer:               getEnvOrDefault("CRM_ISSUER", "crmgate"),
		Audience:             splitList(getEnvOrDefault("CRM_AUDIENCE", "crm-dashboard")),
		BootstrapToken:       os.Getenv("BOOTSTRAP_TOKEN"),
		DatabaseFile:         getEnvOrDefault("CRM_DATABASE_FILE", "crm.db"),
		PepperFile:           getEnvOrDefault("CRM_PEPPER_FILE", "pepper"),
		SigningKeyFile:       getEnvOrDefault("CRM_SIGNING_KEY_FILE", "signing.pem"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", time.Hour),
		AccessTokenTTL:       getEnvDurationOrDefault("ACCESS_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTokenTTL:      getEnvDurationOrDefault("REFRESH_TOKEN_TTL", jwtx.DefaultRefreshTokenTTL),
		RoleCacheSize:        getEnvIntOrDefault("ROLE_CACHE_SIZE", 1024),
		RoleCacheTTL:         getEnvDurationOrDefault("ROLE_CACHE_TTL", 5*time.Minute),
		RateLimits:           httpx.RateLimitProfilesFromEnv(os.Getenv),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
