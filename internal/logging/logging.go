// Package logging builds the zap logger used by the CLI and the backends.
package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger modes.
const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
)

// DefaultLevel keeps command output free of routine log lines.
const DefaultLevel = "warn"

// Options selects the encoder, level and outputs.
type Options struct {
	Mode    string    // ModeDevelopment (console encoder) or ModeProduction (JSON).
	Level   string    // zap level name; empty means DefaultLevel.
	File    string    // Optional rotating JSON log file.
	Console io.Writer // Console output; nil means os.Stderr.
}

// New builds a logger from opts. The returned cleanup flushes buffered
// entries and closes the log file.
func New(opts Options) (*zap.Logger, func(), error) {
	levelName := opts.Level
	if levelName == "" {
		levelName = DefaultLevel
	}
	level, err := zapcore.ParseLevel(levelName)
	if err != nil {
		return nil, nil, fmt.Errorf("parse log level: %w", err)
	}

	var encoder zapcore.Encoder
	switch opts.Mode {
	case ModeProduction:
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	case ModeDevelopment, "":
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	default:
		return nil, nil, fmt.Errorf("unknown log mode %q", opts.Mode)
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	cores := []zapcore.Core{zapcore.NewCore(encoder, zapcore.AddSync(console), level)}

	var rotator *lumberjack.Logger
	if opts.File != "" {
		rotator = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(rotator),
			level,
		))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	cleanup := func() {
		_ = logger.Sync()
		if rotator != nil {
			_ = rotator.Close()
		}
	}
	return logger, cleanup, nil
}
