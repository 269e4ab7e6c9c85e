package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. The struct is built once at startup and
// treated as immutable afterwards; components receive it (or the
// fields they need) at construction instead of reading globals.
type Config struct {
	Env        string // application environment (e.g. "dev", "prod")
	Port       string // HTTP port to listen on
	DBUser     string // database username
	DBPass     string // database password (optional)
	DBHost     string // database host address
	DBPort     string // database port number
	DBName     string // database name
	JWTSecret  string // secret used to sign bearer tokens
	TokenTTL   time.Duration
	BcryptCost int

	MediaCloudName       string // media host account name
	MediaAPIKey          string // media host API key
	MediaAPISecret       string // media host API secret
	MediaTransformFolder string // folder for materialized transforms (optional)
}

// Load reads configuration from environment variables. Required
// variables are enforced by must() and missing values cause the
// program to exit with a fatal log message. The token TTL defaults to
// 30 minutes when TOKEN_TTL_MIN is unset.
func Load() Config {
	return Config{
		Env:        must("APP_ENV"),
		Port:       must("APP_PORT"),
		DBUser:     must("DB_USER"),
		DBPass:     os.Getenv("DB_PASS"),
		DBHost:     must("DB_HOST"),
		DBPort:     must("DB_PORT"),
		DBName:     must("DB_NAME"),
		JWTSecret:  must("JWT_SECRET"),
		TokenTTL:   time.Duration(envInt("TOKEN_TTL_MIN", 30)) * time.Minute,
		BcryptCost: envInt("BCRYPT_COST", 12),

		MediaCloudName:       must("MEDIA_CLOUD_NAME"),
		MediaAPIKey:          must("MEDIA_API_KEY"),
		MediaAPISecret:       must("MEDIA_API_SECRET"),
		MediaTransformFolder: os.Getenv("MEDIA_TRANSFORM_FOLDER"),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and
// exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// Helpers shared with ratelimit.go and cache.go.

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
