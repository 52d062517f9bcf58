package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

var zeroLevels = map[LogLevel]zerolog.Level{
	DEBUG: zerolog.DebugLevel,
	INFO:  zerolog.InfoLevel,
	WARN:  zerolog.WarnLevel,
	ERROR: zerolog.ErrorLevel,
	FATAL: zerolog.FatalLevel,
}

// ParseLevel maps a level name such as "warn" to a LogLevel.
func ParseLevel(name string) (LogLevel, error) {
	lvl, err := zerolog.ParseLevel(name)
	if err != nil {
		return INFO, err
	}
	for l, z := range zeroLevels {
		if z == lvl {
			return l, nil
		}
	}
	return INFO, fmt.Errorf("unsupported log level %q", name)
}

type Logger struct {
	zl        zerolog.Logger
	file      *os.File
	debugMode bool
}

var (
	mu           sync.RWMutex
	globalLogger *Logger
)

func current() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	return globalLogger
}

// IsDebugEnabled reports whether the global logger runs in debug mode.
func IsDebugEnabled() bool {
	l := current()
	return l != nil && l.debugMode
}

// InitLogger points the global logger at a log file. The panel owns the
// terminal, so nothing is written to stdout or stderr.
func InitLogger(logPath string, level LogLevel, debugMode bool) error {
	l, err := NewFileLogger(logPath, level)
	if err != nil {
		return err
	}
	l.debugMode = debugMode
	SetLogger(l)
	return nil
}

// SetLogger replaces the global logger.
func SetLogger(l *Logger) {
	mu.Lock()
	globalLogger = l
	mu.Unlock()
}

// CloseLogger closes the global logger's file, if any.
func CloseLogger() error {
	mu.Lock()
	l := globalLogger
	globalLogger = nil
	mu.Unlock()
	if l != nil {
		return l.Close()
	}
	return nil
}

// Component returns a zerolog logger tagged with a component name, for
// callers that want structured fields.
func Component(name string) zerolog.Logger {
	l := current()
	if l == nil {
		return zerolog.Nop()
	}
	return l.zl.With().Str("component", name).Logger()
}

func Debug(format string, args ...interface{}) {
	if l := current(); l != nil {
		l.Debug(format, args...)
	}
}

func Info(format string, args ...interface{}) {
	if l := current(); l != nil {
		l.Info(format, args...)
	}
}

func Warn(format string, args ...interface{}) {
	if l := current(); l != nil {
		l.Warn(format, args...)
	}
}

func Error(format string, args ...interface{}) {
	if l := current(); l != nil {
		l.Error(format, args...)
	}
}

func Fatal(format string, args ...interface{}) {
	if l := current(); l != nil {
		l.Fatal(format, args...)
	}
}

// New returns a logger writing JSON lines to w.
func New(w io.Writer, level LogLevel) *Logger {
	zl := zerolog.New(w).Level(zeroLevels[level]).With().Timestamp().Logger()
	return &Logger{zl: zl}
}

// NewFileLogger creates a logger that appends to logPath.
func NewFileLogger(logPath string, level LogLevel) (*Logger, error) {
	dir := filepath.Dir(logPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := New(file, level)
	l.file = file
	return l, nil
}

// Close closes the log file
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// SetLevel sets the minimum log level
func (l *Logger) SetLevel(level LogLevel) {
	l.zl = l.zl.Level(zeroLevels[level])
}

// SetDebugMode enables/disables debug mode. Debug messages are dropped
// unless debug mode is on, whatever the level.
func (l *Logger) SetDebugMode(enable bool) {
	l.debugMode = enable
	if enable {
		l.zl = l.zl.With().Caller().Logger()
	}
}

// IsDebugMode returns whether debug mode is enabled
func (l *Logger) IsDebugMode() bool {
	return l.debugMode
}

func (l *Logger) Debug(format string, args ...interface{}) {
	if l.debugMode {
		l.zl.Debug().Msgf(format, args...)
	}
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.zl.Info().Msgf(format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.zl.Warn().Msgf(format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.zl.Error().Msgf(format, args...)
}

// Fatal logs the message and exits the program
func (l *Logger) Fatal(format string, args ...interface{}) {
	l.zl.Fatal().Msgf(format, args...)
}
