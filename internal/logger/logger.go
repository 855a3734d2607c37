// Package logger builds the zap loggers used by the engine and the API server.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns the logger for one-shot CLI commands. Unless verbose, only
// warnings and errors are written, so diagnostics stay out of command output.
func New(verbose bool) (*zap.Logger, error) {
	return build(verbose, zapcore.WarnLevel)
}

// NewServer returns the logger for the long-running API server, which keeps
// request logs at info level.
func NewServer(verbose bool) (*zap.Logger, error) {
	return build(verbose, zapcore.InfoLevel)
}

// build writes to stderr. Verbose loggers use zap's development encoding at
// debug level; others use the production JSON encoding at level.
func build(verbose bool, level zapcore.Level) (*zap.Logger, error) {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(level)
		cfg.Sampling = nil
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return l.Named("festplan"), nil
}
