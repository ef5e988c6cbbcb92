// Package observability builds the zap loggers and gin middleware used by
// the duel binaries.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/duel/internal/config"
)

// NewLogger builds a zap logger for cfg. The json format uses zap's
// production encoder and console its development encoder; both stamp
// ISO8601 times. The server and the duel CLI both start from it.
//
// Precondition: cfg has passed config.Validate.
// Postcondition: Returns a logger at cfg.Level, or an error for an unknown
// level or format.
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	switch cfg.Format {
	case "json":
		zapCfg = zap.NewProductionConfig()
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

// NewServiceLogger creates a logger from cfg.Logging tagged with the
// instance name.
//
// Postcondition: Returns a configured zap.Logger or a non-nil error.
func NewServiceLogger(cfg config.Config) (*zap.Logger, error) {
	logger, err := NewLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}
	return logger.Named(cfg.Server.Name).With(zap.String("storage", cfg.Storage.Driver)), nil
}
