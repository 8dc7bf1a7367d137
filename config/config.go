// Package config provides configuration management for the packing list service.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends selectable with STORAGE_BACKEND.
const (
	BackendFile     = "file"
	BackendMongoDB  = "mongodb"
	BackendPostgres = "postgres"
)

// Config holds the complete application configuration.
type Config struct {
	Server         ServerConfig
	Cache          CacheConfig
	Storage        StorageConfig
	CircuitBreaker CircuitBreakerConfig
	Log            LogConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string
	RateLimit      int
	RateWindow     time.Duration
	RequestTimeout time.Duration
	CORSOrigins    []string
	SwaggerUser    string
	SwaggerPass    string
}

// CacheConfig holds response cache configuration. A RedisURL takes
// precedence over the in-memory cache.
type CacheConfig struct {
	Enabled  bool
	Size     int
	TTL      time.Duration
	RedisURL string
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Backend        string
	FilePath       string
	MongoURI       string
	MongoDatabase  string
	MongoLogsTTL   time.Duration
	PostgresDSN    string
	ConnectTimeout time.Duration
}

// CircuitBreakerConfig configures the repository circuit breakers.
type CircuitBreakerConfig struct {
	FailureThreshold int
	SuccessThreshold int
	Timeout          time.Duration
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string
	Pretty bool
}

// Load reads an optional .env file and builds a Config from the environment.
// Variables already set in the environment win over the file.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from environment variables only.
func FromEnv() Config {
	return Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			RateLimit:      getEnvInt("RATE_LIMIT", 100),
			RateWindow:     getEnvDuration("RATE_WINDOW", 15*time.Minute),
			RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
			CORSOrigins:    parseCORSOrigins(os.Getenv("CORS_ORIGINS")),
			SwaggerUser:    getEnv("SWAGGER_USER", ""),
			SwaggerPass:    getEnv("SWAGGER_PASS", ""),
		},
		Cache: CacheConfig{
			Enabled:  getEnvBool("CACHE_ENABLED", true),
			Size:     getEnvInt("CACHE_SIZE", 1000),
			TTL:      getEnvDuration("CACHE_TTL", 5*time.Minute),
			RedisURL: getEnv("REDIS_URL", ""),
		},
		Storage: StorageConfig{
			Backend:        strings.ToLower(getEnv("STORAGE_BACKEND", BackendFile)),
			FilePath:       getEnv("STORE_FILE_PATH", "db.json"),
			MongoURI:       getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			MongoDatabase:  getEnv("MONGODB_DATABASE", "packing_lists"),
			MongoLogsTTL:   getEnvDuration("MONGODB_LOGS_TTL", 30*24*time.Hour),
			PostgresDSN:    getEnv("POSTGRES_DSN", ""),
			ConnectTimeout: getEnvDuration("STORAGE_CONNECT_TIMEOUT", 10*time.Second),
		},
		CircuitBreaker: CircuitBreakerConfig{
			FailureThreshold: getEnvInt("CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5),
			SuccessThreshold: getEnvInt("CIRCUIT_BREAKER_SUCCESS_THRESHOLD", 2),
			Timeout:          getEnvDuration("CIRCUIT_BREAKER_TIMEOUT", 30*time.Second),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnvBool("LOG_PRETTY", false),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

// parseCORSOrigins splits a comma separated list. Empty means the
// middleware defaults.
func parseCORSOrigins(s string) []string {
	var result []string
	for _, p := range strings.Split(s, ",") {
		if origin := strings.TrimSpace(p); origin != "" {
			result = append(result, origin)
		}
	}
	return result
}
