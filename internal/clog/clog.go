// Package clog provides a simplified logging interface for the uci CLI.
// It wraps go.uber.org/zap for the CLI's own log messages; the core
// library never logs directly.
package clog

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the global logger instance, built from zap's production
// preset at Info level (Debug when LOG_LEVEL=debug).
var Logger = newLogger()

func newLogger() *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)

	if lvl := os.Getenv("LOG_LEVEL"); lvl == "debug" {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableCaller = true

	l, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

func Info(msg string, kv ...any)    { Logger.Infow(msg, kv...) }
func Infof(format string, a ...any) { Logger.Infof(format, a...) }
func Warn(msg string, kv ...any)    { Logger.Warnw(msg, kv...) }
func Warnf(format string, a ...any) { Logger.Warnf(format, a...) }
func Error(msg string, kv ...any)   { Logger.Errorw(msg, kv...) }
func Errorf(format string, a ...any) { Logger.Errorf(format, a...) }
func Debug(msg string, kv ...any)   { Logger.Debugw(msg, kv...) }
func Debugf(format string, a ...any) { Logger.Debugf(format, a...) }
