package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/fatih/color"
)

// LogLevel defines log severity levels
type LogLevel int

const (
	// Log levels from least to most restrictive
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelNone
)

// Format selects how log lines are rendered.
type Format string

const (
	// FormatText writes "[15:04:05.000 LEVEL] message" lines.
	FormatText Format = "text"
	// FormatJSON writes one JSON object per line through log/slog.
	FormatJSON Format = "json"
)

// Logger provides leveled logging to a single writer
type Logger struct {
	out       io.Writer
	useColors bool
	level     LogLevel
	format    Format
	json      *slog.Logger
	jsonLevel *slog.LevelVar
}

// New creates a text Logger at Info level
func New(out io.Writer, useColors bool) *Logger {
	return &Logger{
		out:       out,
		useColors: useColors,
		level:     LevelInfo,
		format:    FormatText,
	}
}

// NewJSON creates a Logger that writes JSON lines at Info level
func NewJSON(out io.Writer) *Logger {
	lv := new(slog.LevelVar)
	lv.Set(slog.LevelInfo)
	return &Logger{
		out:       out,
		level:     LevelInfo,
		format:    FormatJSON,
		json:      slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: lv})),
		jsonLevel: lv,
	}
}

// NewWithFormat creates a Logger for the named format. Unknown formats
// return an error.
func NewWithFormat(out io.Writer, format string, useColors bool) (*Logger, error) {
	switch Format(strings.ToLower(format)) {
	case FormatText, "":
		return New(out, useColors), nil
	case FormatJSON:
		return NewJSON(out), nil
	default:
		return nil, fmt.Errorf("unknown log format %q (want text or json)", format)
	}
}

// WithLevel sets the log level and returns the logger
func (l *Logger) WithLevel(level LogLevel) *Logger {
	l.level = level
	if l.jsonLevel != nil {
		l.jsonLevel.Set(slogLevel(level))
	}
	return l
}

// SetLevel sets the log level by name
func (l *Logger) SetLevel(levelStr string) {
	l.WithLevel(ParseLevel(levelStr))
}

// Level returns the current level.
func (l *Logger) Level() LogLevel {
	return l.level
}

// Format returns the output format.
func (l *Logger) Format() Format {
	return l.format
}

// ParseLevel converts a level name to a LogLevel. Unknown names map to
// LevelInfo.
func ParseLevel(level string) LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "none", "off":
		return LevelNone
	default:
		return LevelInfo // Default to Info level
	}
}

func slogLevel(level LogLevel) slog.Level {
	switch level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelError + 4
	}
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...any) {
	l.log(LevelDebug, "DEBUG", color.CyanString, format, args)
}

// Info logs an informational message (standard level)
func (l *Logger) Info(format string, args ...any) {
	l.log(LevelInfo, "INFO", color.BlueString, format, args)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...any) {
	l.log(LevelWarn, "WARN", color.YellowString, format, args)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...any) {
	l.log(LevelError, "ERROR", color.RedString, format, args)
}

func (l *Logger) log(level LogLevel, prefix string, paint func(string, ...any) string, format string, args []any) {
	if l.level > level {
		return
	}

	msg := fmt.Sprintf(format, args...)
	if l.json != nil {
		l.json.Log(context.Background(), slogLevel(level), msg)
		return
	}

	if l.useColors {
		prefix = paint(prefix)
	}
	fmt.Fprintf(l.out, "[%s %s] %s\n", timeString(), prefix, msg)
}

// timeString returns a formatted time string for the log prefix
func timeString() string {
	return time.Now().Format("15:04:05.000")
}
