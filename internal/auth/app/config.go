package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/campfirehq/campfire/pkg/jwtx"
)

type Config struct {
	SigningSecret string // Required: HMAC secret for access tokens (min 32 bytes)
	Issuer        string // Optional: issuer claim for tokens (default: campfire-auth)
	Audience      string // Optional: audience claim for tokens (default: campfire)

	AccessTokenTTL  time.Duration // Optional: access token lifetime (default: 15m)
	RefreshTokenTTL time.Duration // Optional: refresh token lifetime (default: 30 days)

	AddressRateLimit  int           // Optional: requests per window per address (default: 300)
	AddressRateWindow time.Duration // Optional: address window length (default: 1m)
	ClientRateLimit   int           // Optional: requests per window per address:client pair (default: 60)
	ClientRateWindow  time.Duration // Optional: client window length (default: 1m)

	ExemptPaths []string // Optional: comma-separated path prefixes that skip attribution and limiting

	AdminRoles  string // Optional: semicolon-delimited roles for the admin surface (default: Admin;Moderator)
	MemberRoles string // Optional: semicolon-delimited roles for the member surface (default: User;Admin;Moderator)

	AdminUsername string // Optional: initial admin username, seeded only into an empty database
	AdminPassword string // Optional: initial admin password

	DatabaseFile         string        // Optional: path to SQLite database file (default: ./auth.db)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 5m)
}

func LoadConfig() Config {
	return Config{
		SigningSecret: os.Getenv("AUTH_SIGNING_SECRET"),
		Issuer:        getEnvOrDefault("AUTH_ISSUER", "campfire-auth"),
		Audience:      getEnvOrDefault("AUTH_AUDIENCE", "campfire"),

		AccessTokenTTL:  getEnvDurationOrDefault("AUTH_ACCESS_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTokenTTL: getEnvDurationOrDefault("AUTH_REFRESH_TOKEN_TTL", jwtx.DefaultRefreshTokenTTL),

		AddressRateLimit:  getEnvIntOrDefault("RATE_LIMIT_ADDRESS", 300),
		AddressRateWindow: getEnvDurationOrDefault("RATE_WINDOW_ADDRESS", time.Minute),
		ClientRateLimit:   getEnvIntOrDefault("RATE_LIMIT_CLIENT", 60),
		ClientRateWindow:  getEnvDurationOrDefault("RATE_WINDOW_CLIENT", time.Minute),

		// Only the credential-exchange endpoints are exempt. Logout still
		// carries a session and must pass attribution and limiting.
		ExemptPaths: getEnvListOrDefault("RATE_EXEMPT_PATHS",
			"/swagger", "/livez", "/readyz",
			"/v1/auth/login", "/v1/auth/register", "/v1/auth/refresh",
			"/ws/signal"),

		AdminRoles:  getEnvOrDefault("AUTH_ADMIN_ROLES", "Admin;Moderator"),
		MemberRoles: getEnvOrDefault("AUTH_MEMBER_ROLES", "User;Admin;Moderator"),

		AdminUsername: os.Getenv("AUTH_ADMIN_USERNAME"),
		AdminPassword: os.Getenv("AUTH_ADMIN_PASSWORD"),

		DatabaseFile:         getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 5*time.Minute),
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

	// Duration strings first (e.g. "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are treated as seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue ...string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for part := range strings.SplitSeq(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
