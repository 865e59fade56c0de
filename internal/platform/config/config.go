package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends accepted by STORE_BACKEND.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
	BackendRedis  = "redis"
)

// Config is the process configuration, read from the environment.
type Config struct {
	Port               string
	LogLevel           string
	LogFormat          string
	StoreBackend       string
	BadgerDir          string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	RedisPrefix        string
	RestoreConcurrency int
	ShutdownTimeout    time.Duration
}

// Load reads the .env file from the current working directory and sets
// environment variables. If .env does not exist, Load returns an error but
// callers can ignore it and use system env or defaults. Pass one or more paths
// to load from specific files (e.g. ".env"); with no paths, ".env" is used.
func Load(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	return godotenv.Load(paths...)
}

// FromEnv builds a Config from the environment, applying defaults.
func FromEnv() Config {
	return Config{
		Port:               GetEnv("PORT", "8080"),
		LogLevel:           GetEnv("LOG_LEVEL", "info"),
		LogFormat:          GetEnv("LOG_FORMAT", "json"),
		StoreBackend:       strings.ToLower(GetEnv("STORE_BACKEND", BackendMemory)),
		BadgerDir:          GetEnv("BADGER_DIR", "./data"),
		RedisAddr:          GetEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      GetEnv("REDIS_PASSWORD", ""),
		RedisDB:            GetEnvInt("REDIS_DB", 0),
		RedisPrefix:        GetEnv("REDIS_PREFIX", "offline:"),
		RestoreConcurrency: GetEnvInt("RESTORE_CONCURRENCY", 4),
		ShutdownTimeout:    GetEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// GetEnv returns the value of the environment variable named by key, or fallback
// if the variable is unset or empty.
func GetEnv(key, fallback string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return fallback
}

// GetEnvInt returns the integer value of the environment variable named by key,
// or fallback if the variable is unset, empty, or not a valid integer.
func GetEnvInt(key string, fallback int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return fallback
}

// GetEnvDuration returns the duration value (e.g. "10s") of the environment
// variable named by key, or fallback if it is unset, empty, or invalid.
func GetEnvDuration(key string, fallback time.Duration) time.Duration {
	if s := os.Getenv(key); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			return d
		}
	}
	return fallback
}
