package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/packing-list-service/config"
	"github.com/guttosm/packing-list-service/internal/http"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fileConfig returns a configuration backed by a file store in a temp dir.
func fileConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			RateLimit:      100,
			RateWindow:     time.Minute,
			RequestTimeout: 5 * time.Second,
		},
		Cache: config.CacheConfig{
			Enabled: true,
			Size:    100,
			TTL:     time.Minute,
		},
		Storage: config.StorageConfig{
			Backend:  config.BackendFile,
			FilePath: filepath.Join(t.TempDir(), "db.json"),
		},
		CircuitBreaker: config.CircuitBreakerConfig{
			FailureThreshold: 5,
			SuccessThreshold: 2,
			Timeout:          30 * time.Second,
		},
		Log: config.LogConfig{Level: "error"},
	}
}

// healthRouter mounts only the health endpoints.
func healthRouter(h *http.HealthHandler) *gin.Engine {
	r := gin.New()
	h.Register(r)
	return r
}
