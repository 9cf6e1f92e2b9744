package utils

import (
	"log"
	"sync"

	"coursecal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Global logger instance
var (
	Logger     *zap.Logger
	loggerOnce sync.Once
)

// NewLogger builds a zap logger: production JSON when production is true,
// colored development output otherwise. An empty or unknown level means info.
func NewLogger(production bool, level string) (*zap.Logger, error) {
	var cfg zap.Config
	if production {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// InitializeLogger sets up the logging configuration
func InitializeLogger() {
	var err error
	Logger, err = NewLogger(config.IsProduction(), config.AppConfig.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	zap.ReplaceGlobals(Logger)
}

// GetLogger retrieves the global logger
func GetLogger() *zap.Logger {
	loggerOnce.Do(func() {
		if Logger == nil {
			InitializeLogger()
		}
	})
	return Logger
}
