package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	BackendURL string // Required: base URL of the identity backend

	MarkerSecret string // Optional: secret the internal marker is derived from (default: random per boot)

	DatabaseFile      string        // Optional: path to SQLite audit database file (default: ./gateway.db)
	AuditRetention    time.Duration // Optional: how long audit events are kept (default: 30 days)
	FingerprintLength int           // Optional: device fingerprint hash length, 32-64 (default: 48)

	AccessTTL    time.Duration // Optional: access token cookie lifetime (default: 15m)
	RefreshTTL   time.Duration // Optional: refresh token cookie lifetime (default: 7 days)
	GateKeyTTL   time.Duration // Optional: gate key cookie lifetime (default: 90s)
	CookieSecure bool          // Optional: set the Secure attribute on cookies (default: true outside dev)

	CallTimeout  time.Duration // Optional: deadline for backend auth calls (default: 10s)
	LightTimeout time.Duration // Optional: deadline for lighter calls such as resend (default: 5s)

	AssetsDir string // Optional: directory served under /assets/

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Audit housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	cfg := Config{
		BackendURL:   os.Getenv("GATEWAY_BACKEND_URL"),
		MarkerSecret: os.Getenv("GATEWAY_MARKER_SECRET"),

		DatabaseFile:      getEnvOrDefault("GATEWAY_DATABASE_FILE", "gateway.db"),
		AuditRetention:    getEnvDurationOrDefault("GATEWAY_AUDIT_RETENTION", 30*24*time.Hour),
		FingerprintLength: getEnvIntOrDefault("GATEWAY_FINGERPRINT_LENGTH", 48),

		AccessTTL:  getEnvDurationOrDefault("GATEWAY_ACCESS_TTL", 15*time.Minute),
		RefreshTTL: getEnvDurationOrDefault("GATEWAY_REFRESH_TTL", 7*24*time.Hour),
		GateKeyTTL: getEnvDurationOrDefault("GATEWAY_GATE_KEY_TTL", 90*time.Second),

		CallTimeout:  getEnvDurationOrDefault("GATEWAY_CALL_TIMEOUT", 10*time.Second),
		LightTimeout: getEnvDurationOrDefault("GATEWAY_LIGHT_TIMEOUT", 5*time.Second),

		AssetsDir: os.Getenv("GATEWAY_ASSETS_DIR"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	// Secure cookies everywhere except local dev, unless explicitly forced.
	if v := os.Getenv("GATEWAY_COOKIE_SECURE"); v != "" {
		cfg.CookieSecure = v == "true" || v == "1"
	} else {
		cfg.CookieSecure = cfg.Env != "dev"
	}

	return cfg
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

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Integer values are read as minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
