// Package app provides logger initialization.
package app

import (
	"github.com/guttosm/packing-list-service/config"
	"github.com/guttosm/packing-list-service/internal/logger"
)

// InitializeLogger configures the process logger.
func InitializeLogger(cfg config.LogConfig) {
	logger.Init(cfg.Level, cfg.Pretty)
}
