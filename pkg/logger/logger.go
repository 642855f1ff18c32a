// Package logger provides the structured, leveled console logger used
// across the coordination core and its demo CLI.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Level represents the severity of a log message.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

// Logger is the interface every core component logs through.
type Logger interface {
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
	WithPrefix(prefix string) Logger
}

type logger struct {
	mu       sync.Mutex
	level    Level
	writer   io.Writer
	fields   map[string]interface{}
	prefix   string
	noColor  bool
	showTime bool
}

var defaultLogger = New()

// Config holds logger configuration.
type Config struct {
	Level    Level
	Writer   io.Writer
	NoColor  bool
	ShowTime bool
}

// New creates a logger with sensible defaults, auto-detecting whether the
// destination is a real terminal before enabling color.
func New() Logger {
	stdout := colorable.NewColorableStdout()
	noColor := !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd())
	return NewWithConfig(Config{
		Level:    InfoLevel,
		Writer:   stdout,
		NoColor:  noColor,
		ShowTime: true,
	})
}

// NewWithConfig creates a logger with custom configuration.
func NewWithConfig(cfg Config) Logger {
	return &logger{
		level:    cfg.Level,
		writer:   cfg.Writer,
		fields:   make(map[string]interface{}),
		noColor:  cfg.NoColor,
		showTime: cfg.ShowTime,
	}
}

// SetLevel sets the default logger's level.
func SetLevel(level Level) {
	if l, ok := defaultLogger.(*logger); ok {
		l.mu.Lock()
		l.level = level
		l.mu.Unlock()
	}
}

// SetNoColor disables color output on the default logger.
func SetNoColor(noColor bool) {
	if l, ok := defaultLogger.(*logger); ok {
		l.mu.Lock()
		l.noColor = noColor
		l.mu.Unlock()
	}
}

func Debug(args ...interface{})                       { defaultLogger.Debug(args...) }
func Debugf(format string, args ...interface{})       { defaultLogger.Debugf(format, args...) }
func Info(args ...interface{})                        { defaultLogger.Info(args...) }
func Infof(format string, args ...interface{})        { defaultLogger.Infof(format, args...) }
func Warn(args ...interface{})                        { defaultLogger.Warn(args...) }
func Warnf(format string, args ...interface{})        { defaultLogger.Warnf(format, args...) }
func Error(args ...interface{})                       { defaultLogger.Error(args...) }
func Errorf(format string, args ...interface{})       { defaultLogger.Errorf(format, args...) }
func Fatal(args ...interface{})                       { defaultLogger.Fatal(args...) }
func Fatalf(format string, args ...interface{})       { defaultLogger.Fatalf(format, args...) }
func WithField(key string, value interface{}) Logger  { return defaultLogger.WithField(key, value) }
func WithFields(fields map[string]interface{}) Logger { return defaultLogger.WithFields(fields) }
func WithPrefix(prefix string) Logger                 { return defaultLogger.WithPrefix(prefix) }

func (l *logger) log(level Level, args ...interface{}) {
	if level < l.level {
		return
	}

	l.mu.Lock()

	var parts []string

	if l.showTime {
		ts := time.Now().Format("15:04:05.000")
		if l.noColor {
			parts = append(parts, ts)
		} else {
			parts = append(parts, color.New(color.FgHiBlack).Sprint(ts))
		}
	}

	levelStr, levelColor := l.levelStyle(level)
	if l.noColor {
		parts = append(parts, levelStr)
	} else {
		parts = append(parts, levelColor.Sprint(levelStr))
	}

	if l.prefix != "" {
		if l.noColor {
			parts = append(parts, "["+l.prefix+"]")
		} else {
			parts = append(parts, color.CyanString("[%s]", l.prefix))
		}
	}

	if len(l.fields) > 0 {
		var fieldParts []string
		for k, v := range l.fields {
			fieldParts = append(fieldParts, fmt.Sprintf("%s=%v", k, v))
		}
		fieldsStr := strings.Join(fieldParts, " ")
		if l.noColor {
			parts = append(parts, fieldsStr)
		} else {
			parts = append(parts, color.New(color.FgHiBlack).Sprint(fieldsStr))
		}
	}

	parts = append(parts, fmt.Sprint(args...))

	_, _ = fmt.Fprintln(l.writer, strings.Join(parts, " "))

	l.mu.Unlock()

	if level == FatalLevel {
		os.Exit(1)
	}
}

func (l *logger) logf(level Level, format string, args ...interface{}) {
	l.log(level, fmt.Sprintf(format, args...))
}

func (l *logger) levelStyle(level Level) (string, *color.Color) {
	switch level {
	case DebugLevel:
		return "DEBUG", color.New(color.FgHiBlack)
	case InfoLevel:
		return "INFO ", color.New(color.FgGreen)
	case WarnLevel:
		return "WARN ", color.New(color.FgYellow)
	case ErrorLevel:
		return "ERROR", color.New(color.FgRed)
	case FatalLevel:
		return "FATAL", color.New(color.FgRed, color.Bold)
	default:
		return "UNKNOWN", color.New(color.Reset)
	}
}

func (l *logger) Debug(args ...interface{})            { l.log(DebugLevel, args...) }
func (l *logger) Debugf(f string, args ...interface{}) { l.logf(DebugLevel, f, args...) }
func (l *logger) Info(args ...interface{})              { l.log(InfoLevel, args...) }
func (l *logger) Infof(f string, args ...interface{})   { l.logf(InfoLevel, f, args...) }
func (l *logger) Warn(args ...interface{})              { l.log(WarnLevel, args...) }
func (l *logger) Warnf(f string, args ...interface{})   { l.logf(WarnLevel, f, args...) }
func (l *logger) Error(args ...interface{})             { l.log(ErrorLevel, args...) }
func (l *logger) Errorf(f string, args ...interface{})  { l.logf(ErrorLevel, f, args...) }
func (l *logger) Fatal(args ...interface{})             { l.log(FatalLevel, args...) }
func (l *logger) Fatalf(f string, args ...interface{})  { l.logf(FatalLevel, f, args...) }

func (l *logger) clone() *logger {
	nl := &logger{
		level:    l.level,
		writer:   l.writer,
		fields:   make(map[string]interface{}, len(l.fields)),
		prefix:   l.prefix,
		noColor:  l.noColor,
		showTime: l.showTime,
	}
	for k, v := range l.fields {
		nl.fields[k] = v
	}
	return nl
}

func (l *logger) WithField(key string, value interface{}) Logger {
	nl := l.clone()
	nl.fields[key] = value
	return nl
}

func (l *logger) WithFields(fields map[string]interface{}) Logger {
	nl := l.clone()
	for k, v := range fields {
		nl.fields[k] = v
	}
	return nl
}

func (l *logger) WithPrefix(prefix string) Logger {
	nl := l.clone()
	nl.prefix = prefix
	return nl
}

// ParseLevel parses a string log level, defaulting to InfoLevel.
func ParseLevel(level string) Level {
	switch strings.ToLower(level) {
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	case "fatal":
		return FatalLevel
	default:
		return InfoLevel
	}
}
