// Package logger provides leveled, structured logging for the service.
package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level controls which messages are emitted.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

// ParseLevel maps a config string to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger emits leveled messages with attached fields.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
}

type logger struct {
	fields map[string]interface{}
}

var (
	mu     sync.Mutex
	level  Level     = LevelInfo
	output io.Writer = os.Stderr
)

// SetLevel sets the minimum level emitted by all loggers.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
}

// SetOutput redirects log output, primarily for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func (l *logger) log(lvl Level, format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if lvl < level {
		return
	}

	msg := fmt.Sprintf(format, args...)
	var b strings.Builder
	b.WriteString(time.Now().UTC().Format(time.RFC3339))
	b.WriteString(" [")
	b.WriteString(levelNames[lvl])
	b.WriteString("] ")
	b.WriteString(msg)

	if len(l.fields) > 0 {
		keys := make([]string, 0, len(l.fields))
		for k := range l.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, l.fields[k])
		}
	}

	fmt.Fprintln(output, b.String())
}

func (l *logger) Debug(format string, args ...interface{}) { l.log(LevelDebug, format, args...) }
func (l *logger) Info(format string, args ...interface{})  { l.log(LevelInfo, format, args...) }
func (l *logger) Warn(format string, args ...interface{})  { l.log(LevelWarn, format, args...) }
func (l *logger) Error(format string, args ...interface{}) { l.log(LevelError, format, args...) }

func (l *logger) WithField(key string, value interface{}) Logger {
	fields := make(map[string]interface{}, len(l.fields)+1)
	for k, v := range l.fields {
		fields[k] = v
	}
	fields[key] = value
	return &logger{fields: fields}
}

func (l *logger) WithFields(fields map[string]interface{}) Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &logger{fields: merged}
}

var root = &logger{}

// Package-level convenience functions using the root logger.

func Debug(format string, args ...interface{}) { root.Debug(format, args...) }
func Info(format string, args ...interface{})  { root.Info(format, args...) }
func Warn(format string, args ...interface{})  { root.Warn(format, args...) }
func Error(format string, args ...interface{}) { root.Error(format, args...) }

// WithField returns a logger with a single attached field.
func WithField(key string, value interface{}) Logger {
	return root.WithField(key, value)
}

// WithFields returns a logger with all given fields attached.
func WithFields(fields map[string]interface{}) Logger {
	return root.WithFields(fields)
}
