// Package logging builds the zap logger shared by every command.
package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/san-kum/fireworks/internal/config"
)

// New builds a sugared development logger from cfg and installs it as the
// zap global. When the terminal is owned by the display (live is true) and
// no log file is configured, a no-op logger is returned so nothing is
// written over the frame.
func New(cfg config.LogConfig, live bool) (*zap.SugaredLogger, error) {
	if live && cfg.File == "" {
		logger := zap.NewNop()
		zap.ReplaceGlobals(logger)
		return logger.Sugar(), nil
	}

	zc := zap.NewDevelopmentConfig()
	zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	zc.Level = zap.NewAtomicLevelAt(Level(cfg.Level))
	zc.EncoderConfig.TimeKey = ""
	zc.EncoderConfig.StacktraceKey = ""
	if !cfg.ShowCaller {
		zc.EncoderConfig.CallerKey = ""
	}
	if cfg.File != "" {
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		zc.OutputPaths = []string{cfg.File}
		zc.ErrorOutputPaths = []string{cfg.File}
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger.Sugar(), nil
}

// Level maps a level name to a zap level. Unknown names mean info.
func Level(name string) zapcore.Level {
	switch strings.ToLower(name) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
