// Package logger is the application-wide structured logger. Until SetFile or
// SetLogger is called every call is discarded, so the terminal UI never gets
// log lines written over it.
package logger

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu    sync.RWMutex
	base  = zap.NewNop()
	level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
)

// DefaultConfig is zap's production config with ISO8601 timestamps and
// capitalized levels
func DefaultConfig() zap.Config {
	logConf := zap.NewProductionConfig()
	logConf.Sampling = nil
	logConf.EncoderConfig.TimeKey = "time"
	logConf.EncoderConfig.LevelKey = "severity"
	logConf.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logConf.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	logConf.Level = level
	return logConf
}

// ParseLevel parses a level name or its numeric value
func ParseLevel(l string) (zapcore.Level, error) {
	l = strings.ToLower(strings.TrimSpace(l))
	switch l {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	n, err := strconv.ParseInt(l, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("unknown log level %q", l)
	}
	return zapcore.Level(n), nil
}

// SetFile sends log output to the file at path, appending to it
func SetFile(path string) error {
	logConf := DefaultConfig()
	logConf.OutputPaths = []string{path}
	logConf.ErrorOutputPaths = []string{path}

	l, err := logConf.Build()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	SetLogger(l)
	return nil
}

// SetLogger replaces the underlying logger
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	_ = base.Sync()
	base = l
}

// SetLevel changes the minimum level written by loggers built by SetFile
func SetLevel(name string) error {
	l, err := ParseLevel(name)
	if err != nil {
		return err
	}
	level.SetLevel(l)
	return nil
}

// Sync flushes buffered output
func Sync() error {
	mu.RLock()
	defer mu.RUnlock()
	return base.Sync()
}

func Debug(msg string, fields map[string]any) {
	current().Debug(msg, toFields(fields)...)
}

func Info(msg string, fields map[string]any) {
	current().Info(msg, toFields(fields)...)
}

func Warn(msg string, fields map[string]any) {
	current().Warn(msg, toFields(fields)...)
}

func Error(msg string, fields map[string]any) {
	current().Error(msg, toFields(fields)...)
}

func current() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

func toFields(fields map[string]any) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(fields))
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		if err, ok := fields[key].(error); ok {
			out = append(out, zap.NamedError(key, err))
			continue
		}
		out = append(out, zap.Any(key, fields[key]))
	}
	return out
}
