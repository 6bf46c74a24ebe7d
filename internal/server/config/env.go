package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "JOURNAL_"

// dotenvFiles is a seam for tests.
var dotenvFiles = []string{".env"}

// parseEnv overlays values from JOURNAL_* environment variables. A .env file
// in the working directory is loaded first; it never overrides variables
// that are already set, and a missing file is not an error.
//
// Durations accept Go syntax ("1h", "90s"); JOURNAL_ALLOWED_ORIGINS is a
// comma-separated list. Malformed numbers and durations are ignored.
func parseEnv(config *Config) {
	_ = godotenv.Load(dotenvFiles...)

	setString(&config.Env, "ENV")
	setString(&config.EndpointAddrHTTP, "ADDR")
	setString(&config.DatabaseDSN, "DATABASE_DSN")
	setString(&config.SecretKey, "SECRET_KEY")
	setDuration(&config.SessionTTL, "SESSION_TTL")
	setInt(&config.BcryptCost, "BCRYPT_COST")
	setString(&config.RedisURL, "REDIS_URL")
	if v, ok := lookup("ALLOWED_ORIGINS"); ok {
		config.AllowedOrigins = splitList(v)
	}
	setString(&config.StaticDir, "STATIC_DIR")
	setDuration(&config.RequestTimeout, "REQUEST_TIMEOUT")
	setString(&config.LogLevel, "LOG_LEVEL")
	setString(&config.S3RootUser, "S3_ROOT_USER")
	setString(&config.S3RootPassword, "S3_ROOT_PASSWORD")
	setString(&config.S3Bucket, "S3_BUCKET")
	setString(&config.S3Region, "S3_REGION")
	setString(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func setString(dst *string, name string) {
	if v, ok := lookup(name); ok {
		*dst = v
	}
}

func setInt(dst *int, name string) {
	if v, ok := lookup(name); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *time.Duration, name string) {
	if v, ok := lookup(name); ok {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
