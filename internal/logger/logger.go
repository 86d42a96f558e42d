// Package logger holds the process-wide zap sugared logger.
package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	global *zap.SugaredLogger
	once   sync.Once
)

// Init builds the global logger for the given environment: JSON output in
// production, console output everywhere else. Subsequent calls are no-ops.
func Init(env string) {
	once.Do(func() {
		var base *zap.Logger
		var err error

		switch env {
		case "production":
			base, err = zap.NewProduction()
		default:
			base, err = zap.NewDevelopment()
		}
		if err != nil {
			base = zap.NewNop()
		}

		global = base.Sugar()
	})
}

// Get returns the global logger, initializing a development logger on first
// use if Init was never called.
func Get() *zap.SugaredLogger {
	if global == nil {
		Init("development")
	}
	return global
}

// Sync flushes buffered entries; call on shutdown.
func Sync() {
	if global != nil {
		_ = global.Sync()
	}
}
