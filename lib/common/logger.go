// Package common provides logging utilities shared by the engine and store layers.
package common

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// --------------------------------------------------------------------------
// Log Levels
// --------------------------------------------------------------------------

// LogLevel controls which messages a Logger emits
type LogLevel int

const (
	ERROR LogLevel = iota
	WARNING
	INFO
	DEBUG
)

// ParseLogLevel converts a string level to a LogLevel
func ParseLogLevel(level string) (LogLevel, error) {
	switch strings.ToLower(level) {
	case "debug":
		return DEBUG, nil
	case "info":
		return INFO, nil
	case "warning", "warn":
		return WARNING, nil
	case "error":
		return ERROR, nil
	default:
		return INFO, fmt.Errorf("invalid log level: %s. must be one of debug, info, warn, error", level)
	}
}

// --------------------------------------------------------------------------
// Custom Logger (implements badgers badger.Logger)
// --------------------------------------------------------------------------

// Logger implements leveled logging with custom formatting.
// The method set (Errorf, Warningf, Infof, Debugf) satisfies the badger.Logger
// interface, so the same instance can be handed to the engine and used by the
// store layer.
type Logger struct {
	name   string
	level  LogLevel
	logger *log.Logger
}

// SetLevel changes the minimum level this logger emits
func (l *Logger) SetLevel(level LogLevel) {
	l.level = level
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	if l.level >= DEBUG {
		l.log("DEBUG", format, args...)
	}
}

func (l *Logger) Infof(format string, args ...interface{}) {
	if l.level >= INFO {
		l.log("INFO", format, args...)
	}
}

func (l *Logger) Warningf(format string, args ...interface{}) {
	if l.level >= WARNING {
		l.log("WARN", format, args...)
	}
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	if l.level >= ERROR {
		l.log("ERROR", format, args...)
	}
}

// log formats and writes a log message. this internal helper is used by the public methods
func (l *Logger) log(levelStr string, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	l.logger.Printf("%-5s | %-15s | %s", levelStr, l.name, message)
}

// --------------------------------------------------------------------------
// Logger Factory
// --------------------------------------------------------------------------

// CreateLogger creates a named logger writing to stdout at INFO level
func CreateLogger(pkgName string) *Logger {
	return CreateLoggerWithWriter(pkgName, os.Stdout, INFO)
}

// CreateLoggerWithWriter creates a named logger with an explicit sink and level.
// Tests pass io.Discard to keep output quiet.
func CreateLoggerWithWriter(pkgName string, w io.Writer, level LogLevel) *Logger {
	stdLogger := log.New(w, "", log.Ldate|log.Ltime)

	return &Logger{
		name:   pkgName,
		level:  level,
		logger: stdLogger,
	}
}
