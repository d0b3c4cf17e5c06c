package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string

	HTTPAddr string

	CatalogBaseURL  string
	CatalogTimeout  time.Duration
	CatalogCacheTTL time.Duration

	CommerceBaseURL string
	CommerceTimeout time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	Presence PresenceConfig

	GuardWarnDelay time.Duration
	SessionIdleTTL time.Duration

	RateLimit RateLimitConfig

	OTLPEndpoint string
}

// PresenceConfig controls the viewer presence subsystem. The TTL is the
// authoritative expiry enforced by the presence store; the track interval
// keeps a live view renewed well inside it.
type PresenceConfig struct {
	TTL            time.Duration
	TrackInterval  time.Duration
	PollInterval   time.Duration
	ReleaseTimeout time.Duration
}

type RateLimitConfig struct {
	Enabled          bool
	SessionOpenRate  float64
	SessionOpenBurst int
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_SERVICE", "storefront"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),

		HTTPAddr: getenv("HTTP_ADDR", ":8080"),

		CatalogBaseURL:  strings.TrimRight(getenv("CATALOG_BASE_URL", "http://localhost:8081"), "/"),
		CatalogTimeout:  getenvDuration("CATALOG_TIMEOUT", 5*time.Second),
		CatalogCacheTTL: getenvDuration("CATALOG_CACHE_TTL", 30*time.Second),

		CommerceBaseURL: strings.TrimRight(getenv("COMMERCE_BASE_URL", "http://localhost:8082"), "/"),
		CommerceTimeout: getenvDuration("COMMERCE_TIMEOUT", 5*time.Second),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getenvInt("REDIS_DB", 0),

		Presence: PresenceConfig{
			TTL:            getenvDuration("PRESENCE_TTL", 45*time.Second),
			TrackInterval:  getenvDuration("PRESENCE_TRACK_INTERVAL", 10*time.Second),
			PollInterval:   getenvDuration("PRESENCE_POLL_INTERVAL", 30*time.Second),
			ReleaseTimeout: getenvDuration("PRESENCE_RELEASE_TIMEOUT", 2*time.Second),
		},

		GuardWarnDelay: getenvDuration("GUARD_WARN_DELAY", 400*time.Millisecond),
		SessionIdleTTL: getenvDuration("SESSION_IDLE_TTL", 10*time.Minute),

		RateLimit: RateLimitConfig{
			Enabled:          getenvBool("RATE_LIMIT_ENABLED", false),
			SessionOpenRate:  getenvFloat("RATE_LIMIT_SESSION_OPEN_RATE", 5),
			SessionOpenBurst: getenvInt("RATE_LIMIT_SESSION_OPEN_BURST", 10),
		},

		OTLPEndpoint: getenv("OTLP_ENDPOINT", "localhost:4317"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}
