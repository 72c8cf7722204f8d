// Package logging builds the process logger from configuration
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ppiankov/jurisflow/internal/model"
)

// New builds a zap logger. Format "json" gives the production encoder,
// anything else the console encoder. Output goes to stderr so stdout
// carries only records.
func New(cfg model.LoggingConfig, verbose bool) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if cfg.Level == "" {
		level, err = zapcore.WarnLevel, nil
	}
	if err != nil {
		return nil, fmt.Errorf("logging level: %w", err)
	}
	if verbose && level > zapcore.DebugLevel {
		level = zapcore.DebugLevel
	}

	var config zap.Config
	switch strings.ToLower(cfg.Format) {
	case "json":
		config = zap.NewProductionConfig()
	case "", "console":
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.DisableStacktrace = true
	default:
		return nil, fmt.Errorf("logging format %q (want json or console)", cfg.Format)
	}

	config.Level = zap.NewAtomicLevelAt(level)
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
