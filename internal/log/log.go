package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelError
	LevelNone
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelError:
		return "ERROR"
	case LevelNone:
		return "NONE"
	default:
		return "UNKNOWN"
	}
}

func LevelFromString(s string) Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return LevelDebug
	case "INFO", "WARN", "WARNING":
		return LevelInfo
	case "ERROR":
		return LevelError
	case "NONE":
		return LevelNone
	default:
		return LevelDebug // Default to DEBUG
	}
}

// slogLevel maps a Level onto the slog scale. LevelNone sits above every
// level the logger emits so nothing gets through.
func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelError + 4
	}
}

// Logger is a levelled printf-style logger backed by log/slog. The level can
// be changed at runtime without rebuilding the handler.
type Logger struct {
	logger *slog.Logger
	level  *slog.LevelVar
	lvl    Level
}

func New(out io.Writer, level Level) *Logger {
	lv := new(slog.LevelVar)
	lv.Set(level.slogLevel())
	h := slog.NewTextHandler(out, &slog.HandlerOptions{Level: lv})
	return &Logger{logger: slog.New(h), level: lv, lvl: level}
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *Logger { return New(io.Discard, LevelNone) }

// With returns a logger that adds the given attributes to every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{logger: l.logger.With(args...), level: l.level, lvl: l.lvl}
}

// Slog exposes the underlying structured logger for packages that log with
// key/value pairs instead of format strings.
func (l *Logger) Slog() *slog.Logger { return l.logger }

func (l *Logger) logf(level slog.Level, format string, v ...interface{}) {
	if !l.logger.Enabled(context.Background(), level) {
		return
	}
	l.logger.Log(context.Background(), level, fmt.Sprintf(format, v...))
}

func (l *Logger) Debugf(format string, v ...interface{}) {
	l.logf(slog.LevelDebug, format, v...)
}

func (l *Logger) Infof(format string, v ...interface{}) {
	l.logf(slog.LevelInfo, format, v...)
}

func (l *Logger) Errorf(format string, v ...interface{}) {
	l.logf(slog.LevelError, format, v...)
}

// Warnf logs at info level or higher; the levelled API has no separate warn
// threshold.
func (l *Logger) Warnf(format string, v ...interface{}) {
	if l.lvl <= LevelInfo {
		l.logger.Warn(fmt.Sprintf(format, v...))
	}
}

func (l *Logger) SetLevel(level Level) {
	l.lvl = level
	l.level.Set(level.slogLevel())
}

func (l *Logger) Level() Level {
	return l.lvl
}
