package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

type Config struct {
	ListenPort      string        // ex: ":5000"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request deadline applied by the router

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	Store      string // "sqlite" | "redis"
	SQLitePath string // database file when Store == "sqlite"
	SeedFile   string // optional YAML list imported into an empty store at startup

	// Redis (only read when Store == "redis")
	RedisAddr           string
	RedisUser           string
	RedisPassword       string
	RedisDB             int
	RedisDT             time.Duration // dial timeout
	RedisRT             time.Duration // read timeout
	RedisWT             time.Duration // write timeout
	RedisMaxWait        time.Duration // max wait between retries
	RedisPingTimeout    time.Duration
	RedisPoolSize       int
	RedisConnectTimeout time.Duration // total time to retry connecting
	RedisRetryInterval  time.Duration // initial wait between retries, grows exponentially
	RedisWarnThreshold  int
	RedisRepairInterval time.Duration // index repair sweep period, 0 disables

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict health endpoints to these IPs/CIDRs
	TrustProxy   bool     // true => trust X-Forwarded-For headers
	CORSOrigins  []string // "*" allows any origin

	RateLimitBurst  int // per-IP burst on write routes, 0 disables
	RateLimitPerMin int // per-IP refill rate on write routes
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("JOBBOARD_LISTEN_PORT", ":5000"),
		ShutdownTimeout: mustDuration("JOBBOARD_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("JOBBOARD_REQUEST_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("JOBBOARD_LOG_LEVEL", "info"),
		PrettyLog: mustBool("JOBBOARD_PRETTY_LOG", true),

		// Storage
		Store:      strings.ToLower(getenv("JOBBOARD_STORE", StoreSQLite)),
		SQLitePath: getenv("JOBBOARD_SQLITE_PATH", "jobboard.db"),
		SeedFile:   getenv("JOBBOARD_SEED_FILE", ""),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("JOBBOARD_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("JOBBOARD_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("JOBBOARD_TRUST_PROXY", false),
		CORSOrigins:  splitAndTrim(getenv("JOBBOARD_CORS_ORIGINS", "*")),

		RateLimitBurst:  getenvInt("JOBBOARD_RATE_LIMIT_BURST", 30),
		RateLimitPerMin: getenvInt("JOBBOARD_RATE_LIMIT_PER_MIN", 120),
	}

	switch cfg.Store {
	case StoreSQLite:
	case StoreRedis:
		loadRedis(cfg)
	default:
		panic(fmt.Sprintf("❌ FATAL: JOBBOARD_STORE must be %q or %q, got %q", StoreSQLite, StoreRedis, cfg.Store))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfgCopy.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

func loadRedis(cfg *Config) {
	cfg.RedisAddr = requireEnv("JOBBOARD_REDIS_ADDR")
	cfg.RedisUser = getenv("JOBBOARD_REDIS_USERNAME", "")
	cfg.RedisPassword = getenv("JOBBOARD_REDIS_PASSWORD", "")
	cfg.RedisDB = getenvInt("JOBBOARD_REDIS_DB", 0)
	cfg.RedisDT = mustDuration("JOBBOARD_REDIS_DIAL_TIMEOUT", 5*time.Second)
	cfg.RedisRT = mustDuration("JOBBOARD_REDIS_READ_TIMEOUT", 3*time.Second)
	cfg.RedisWT = mustDuration("JOBBOARD_REDIS_WRITE_TIMEOUT", 3*time.Second)
	cfg.RedisMaxWait = mustDuration("JOBBOARD_REDIS_MAX_WAIT", 10*time.Second)
	cfg.RedisPingTimeout = mustDuration("JOBBOARD_REDIS_PING_TIMEOUT", 5*time.Second)
	cfg.RedisPoolSize = getenvInt("JOBBOARD_REDIS_POOL_SIZE", 10)
	cfg.RedisConnectTimeout = mustDuration("JOBBOARD_REDIS_CONNECT_TIMEOUT", 30*time.Second)
	cfg.RedisRetryInterval = mustDuration("JOBBOARD_REDIS_RETRY_INTERVAL", 2*time.Second)
	cfg.RedisWarnThreshold = getenvInt("JOBBOARD_REDIS_WARN_THRESHOLD", 3)
	cfg.RedisRepairInterval = mustDuration("JOBBOARD_REDIS_REPAIR_INTERVAL", time.Hour)

	if mustBool("JOBBOARD_REDIS_PASSWORD_REQUIRED", false) && cfg.RedisPassword == "" {
		panic("❌ FATAL: JOBBOARD_REDIS_PASSWORD is required when JOBBOARD_REDIS_PASSWORD_REQUIRED=true")
	}
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
