package utils

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// NewLogger builds a production logger at the level named by LOG_LEVEL,
// info when unset.
func NewLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		level, err := zapcore.ParseLevel(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", raw, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(level)
	}
	return cfg.Build()
}

// GetLogger returns the process-wide logger for code that is not handed one.
func GetLogger() *zap.Logger {
	loggerOnce.Do(func() {
		l, err := NewLogger()
		if err != nil {
			l, err = zap.NewProduction()
		}
		if err != nil {
			panic("Failed to initialize logger: " + err.Error())
		}
		logger = l
	})
	return logger
}
