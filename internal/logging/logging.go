// Package logging builds the zap logger used across goeq. The TUI owns stdout, so logs
// go to a timestamped file under ~/.goeq/logs unless told otherwise.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Option adjusts the logger configuration.
type Option func(*zap.Config)

// WithLevel sets the minimum level ("debug", "info", "warn", "error"). Unknown levels
// leave the default in place.
func WithLevel(level string) Option {
	return func(cfg *zap.Config) {
		var lvl zapcore.Level
		if err := lvl.UnmarshalText([]byte(level)); err == nil {
			cfg.Level = zap.NewAtomicLevelAt(lvl)
		}
	}
}

// WithFile writes logs to path instead of the default log directory.
func WithFile(path string) Option {
	return func(cfg *zap.Config) {
		cfg.OutputPaths = []string{path}
		cfg.ErrorOutputPaths = []string{path}
	}
}

// WithDevelopment switches to zap's development settings (console encoding, stack
// traces on warnings).
func WithDevelopment(dev bool) Option {
	return func(cfg *zap.Config) {
		cfg.Development = dev
		if dev {
			cfg.Encoding = "console"
			cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		}
	}
}

// DefaultDir returns ~/.goeq/logs.
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".goeq", "logs"), nil
}

// New builds a logger. Without WithFile the output goes to
// ~/.goeq/logs/goeq_<timestamp>.log.
func New(opts ...Option) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = nil

	for _, opt := range opts {
		opt(&cfg)
	}

	if len(cfg.OutputPaths) == 0 {
		dir, err := DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("resolve log dir: %w", err)
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		path := filepath.Join(dir, fmt.Sprintf("goeq_%s.log", time.Now().Format("2006-01-02_15-04-05")))
		cfg.OutputPaths = []string{path}
		cfg.ErrorOutputPaths = []string{path}
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
