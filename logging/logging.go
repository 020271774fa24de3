// Package logging builds the structured, leveled logger the compressor
// façade and CLI use for advisory output (C13, §4.13): the façade's CTX
// fallback decisions and the CLI's detected input format. Nothing in
// the compression/decompression core reads a logger or branches on
// whether logging is enabled; statistics (stats.Recorder) remain the
// authoritative machine-readable output.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config controls the logger New builds.
type Config struct {
	// Level is one of debug, info, warn, error.
	Level string
	// Encoding selects zap's "json" or "console" encoder.
	Encoding string
}

// Quiet returns a Config that discards everything but errors, for the
// CLI's --quiet flag.
func Quiet() Config { return Config{Level: "error", Encoding: "console"} }

// Verbose returns a Config at debug level, for the CLI's --verbose flag.
func Verbose() Config { return Config{Level: "debug", Encoding: "console"} }

// Default returns the info-level console Config used when neither
// --verbose nor --quiet is given.
func Default() Config { return Config{Level: "info", Encoding: "console"} }

// New builds a *zap.Logger from cfg. An empty cfg.Level defaults to info.
func New(cfg Config) (*zap.Logger, error) {
	levelName := cfg.Level
	if levelName == "" {
		levelName = "info"
	}
	level, err := zapcore.ParseLevel(levelName)
	if err != nil {
		return nil, fmt.Errorf("logging: invalid level %q: %w", levelName, err)
	}

	encoding := cfg.Encoding
	if encoding == "" {
		encoding = "console"
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	zapCfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         encoding,
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build logger: %w", err)
	}
	return logger, nil
}

// Nop returns a logger that discards everything, for callers (library
// use, tests) that never want log output.
func Nop() *zap.Logger { return zap.NewNop() }
