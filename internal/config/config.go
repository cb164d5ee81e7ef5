package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort     = "3000"
	defaultGinMode  = "release"
	defaultMaxConns = 10

	defaultMaxConnLifetime = time.Hour
	defaultMaxConnIdleTime = 10 * time.Minute
)

// Config holds the process configuration resolved from the environment.
// It is built once at startup and never mutated afterwards.
type Config struct {
	DatabaseURL     string
	MaxConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	Port            string
	GinMode         string
}

// MissingError reports a required environment variable that was unset or empty.
type MissingError struct {
	Key string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("config: %s must be set", e.Key)
}

// InvalidError reports an optional environment variable whose value could not
// be parsed. Unparseable values fail loudly instead of falling back to the
// default.
type InvalidError struct {
	Key string
	Raw string
	Err error
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("config: invalid %s %q: %v", e.Key, e.Raw, e.Err)
}

func (e *InvalidError) Unwrap() error { return e.Err }

// Load reads configuration from the environment. A local .env file is loaded
// first as a development convenience; a missing or unreadable file is ignored.
func Load() (Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return Config{}, &MissingError{Key: "DATABASE_URL"}
	}

	maxConns, err := intEnv("DB_MAX_CONNECTIONS", defaultMaxConns)
	if err != nil {
		return Config{}, err
	}
	if maxConns <= 0 {
		return Config{}, &InvalidError{
			Key: "DB_MAX_CONNECTIONS",
			Raw: os.Getenv("DB_MAX_CONNECTIONS"),
			Err: fmt.Errorf("must be a positive integer"),
		}
	}

	maxLifetime, err := secondsEnv("DB_MAX_LIFETIME", defaultMaxConnLifetime)
	if err != nil {
		return Config{}, err
	}

	idleTimeout, err := secondsEnv("DB_IDLE_TIMEOUT", defaultMaxConnIdleTime)
	if err != nil {
		return Config{}, err
	}

	return Config{
		DatabaseURL:     dbURL,
		MaxConns:        int32(maxConns),
		MaxConnLifetime: maxLifetime,
		MaxConnIdleTime: idleTimeout,
		Port:            getenv("PORT", defaultPort),
		GinMode:         getenv("GIN_MODE", defaultGinMode),
	}, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &InvalidError{Key: key, Raw: raw, Err: err}
	}
	return v, nil
}

// secondsEnv parses an integer number of seconds.
func secondsEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	secs, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &InvalidError{Key: key, Raw: raw, Err: err}
	}
	if secs < 0 {
		return 0, &InvalidError{Key: key, Raw: raw, Err: fmt.Errorf("must not be negative")}
	}
	return time.Duration(secs) * time.Second, nil
}
