// Package logger provides the leveled logger used by catadmin.
//
// The console owns the terminal while it runs, so the default logger only
// writes warnings and errors to stderr. Debug output is enabled with --debug
// and can be redirected to a file with AddFileOutput.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

var levelNames = map[LogLevel]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
}

// String returns the upper-case level name
func (l LogLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// ParseLevel converts a level name (case-insensitive) to a LogLevel
func ParseLevel(name string) (LogLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return DEBUG, nil
	case "INFO", "":
		return INFO, nil
	case "WARN", "WARNING":
		return WARN, nil
	case "ERROR":
		return ERROR, nil
	}
	return INFO, fmt.Errorf("unknown log level %q", name)
}

// Logger writes formatted messages to the writers registered for a level
type Logger struct {
	level      LogLevel
	outputs    map[LogLevel][]io.Writer
	mu         sync.Mutex
	showFile   bool
	timeFormat string
	prefix     string
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// GetLogger returns the process-wide logger
func GetLogger() *Logger {
	once.Do(func() {
		defaultLogger = NewLogger(WARN)
		defaultLogger.AddOutput(WARN, os.Stderr)
	})
	return defaultLogger
}

// NewLogger creates a logger with the given minimum level and no outputs
func NewLogger(level LogLevel) *Logger {
	return &Logger{
		level:      level,
		outputs:    make(map[LogLevel][]io.Writer),
		timeFormat: "2006-01-02 15:04:05",
		showFile:   true,
	}
}

// Discard returns a logger that drops every message
func Discard() *Logger {
	return NewLogger(ERROR + 1)
}

// SetLevel changes the minimum log level
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Level returns the minimum log level
func (l *Logger) Level() LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// SetTimeFormat sets the time format string used in log messages
func (l *Logger) SetTimeFormat(format string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.timeFormat = format
}

// SetShowFile enables or disables file:line information
func (l *Logger) SetShowFile(show bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.showFile = show
}

// AddOutput registers w for messages at level and above
func (l *Logger) AddOutput(level LogLevel, w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.outputs[level] = append(l.outputs[level], w)
}

// AddFileOutput appends messages at level and above to filename
func (l *Logger) AddFileOutput(level LogLevel, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	l.AddOutput(level, file)
	return nil
}

// With returns a logger sharing outputs and level whose messages carry
// the given component prefix, e.g. "api" or "brand"
func (l *Logger) With(component string) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	outputs := make(map[LogLevel][]io.Writer, len(l.outputs))
	for lvl, ws := range l.outputs {
		outputs[lvl] = append([]io.Writer(nil), ws...)
	}

	prefix := component
	if l.prefix != "" {
		prefix = l.prefix + "." + component
	}

	return &Logger{
		level:      l.level,
		outputs:    outputs,
		showFile:   l.showFile,
		timeFormat: l.timeFormat,
		prefix:     prefix,
	}
}

// callerInfo returns file:line of the code that called a logging method
func callerInfo() string {
	// skip callerInfo, formatMessage, log and the public method
	_, file, line, ok := runtime.Caller(4)
	if !ok {
		return "???:0"
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}

func (l *Logger) formatMessage(level LogLevel, msg string) string {
	var b strings.Builder
	b.WriteString(time.Now().Format(l.timeFormat))
	b.WriteString(" [")
	b.WriteString(level.String())
	b.WriteString("]")
	if l.showFile {
		b.WriteString(" ")
		b.WriteString(callerInfo())
	}
	b.WriteString(" -")
	if l.prefix != "" {
		b.WriteString(" ")
		b.WriteString(l.prefix)
		b.WriteString(":")
	}
	b.WriteString(" ")
	b.WriteString(msg)
	return b.String()
}

func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	line := l.formatMessage(level, msg)

	// A writer registered at WARN receives WARN and ERROR, never INFO.
	for lvl, writers := range l.outputs {
		if level < lvl {
			continue
		}
		for _, w := range writers {
			fmt.Fprintln(w, line)
		}
	}
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(DEBUG, format, args...)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(INFO, format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(WARN, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(ERROR, format, args...)
}

func Debug(format string, args ...interface{}) {
	GetLogger().Debug(format, args...)
}

func Info(format string, args ...interface{}) {
	GetLogger().Info(format, args...)
}

func Warn(format string, args ...interface{}) {
	GetLogger().Warn(format, args...)
}

func Error(format string, args ...interface{}) {
	GetLogger().Error(format, args...)
}

// SetGlobalLevel sets the level of the process-wide logger
func SetGlobalLevel(level LogLevel) {
	GetLogger().SetLevel(level)
}
