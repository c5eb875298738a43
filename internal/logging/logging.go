// Package logging configures the process-wide zap logger.
package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger is the global logger instance
	Logger = zap.NewNop()

	// Sugar is the sugared logger for convenience
	Sugar = Logger.Sugar()
)

// Config contains logging configuration
type Config struct {
	// Level is the minimum log level
	Level string `json:"level"`

	// Format is the output format (json, console)
	Format string `json:"format"`

	// Output is the output destination (stdout, stderr, file path)
	Output string `json:"output"`

	// Development enables development mode
	Development bool `json:"development"`
}

func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "console",
		Output: "stderr",
	}
}

// New builds a logger from cfg without touching the globals.
func New(cfg Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch strings.ToLower(cfg.Format) {
	case "console", "":
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	case "json":
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	var ws zapcore.WriteSyncer
	switch cfg.Output {
	case "stdout":
		ws = zapcore.AddSync(os.Stdout)
	case "stderr", "":
		ws = zapcore.AddSync(os.Stderr)
	default:
		file, err := os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		ws = zapcore.AddSync(file)
	}

	core := zapcore.NewCore(encoder, ws, level)
	if cfg.Development {
		return zap.New(core, zap.Development(), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
	}
	return zap.New(core, zap.AddCaller()), nil
}

// Initialize sets up the global logger
func Initialize(cfg Config) error {
	l, err := New(cfg)
	if err != nil {
		return err
	}
	Logger = l
	Sugar = l.Sugar()
	zap.ReplaceGlobals(l)
	return nil
}

// Sync flushes the logger
func Sync() {
	_ = Logger.Sync()
}

// Named returns a child of the global logger for one component.
func Named(component string) *zap.Logger {
	return Logger.Named(component)
}
