package logging

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
)

// Level represents the severity of a log message.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger defines a minimal, printf-style logging contract.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Nop returns a logger that discards all output.
func Nop() Logger {
	return nopLogger{}
}

var (
	minLevel     = InfoLevel
	minLevelOnce sync.Once
)

// minimumLevel resolves the process-wide log level from FOCUSD_LOG_LEVEL.
func minimumLevel() Level {
	minLevelOnce.Do(func() {
		switch strings.ToLower(os.Getenv("FOCUSD_LOG_LEVEL")) {
		case "debug":
			minLevel = DebugLevel
		case "warn":
			minLevel = WarnLevel
		case "error":
			minLevel = ErrorLevel
		}
	})
	return minLevel
}

// componentLogger writes leveled messages tagged with a component name.
type componentLogger struct {
	component string
	out       *log.Logger
	level     Level
}

// NewComponentLogger returns the default application logger scoped to a component.
func NewComponentLogger(component string) Logger {
	return &componentLogger{
		component: component,
		out:       log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds),
		level:     minimumLevel(),
	}
}

func (l *componentLogger) logf(level Level, format string, args ...any) {
	if level < l.level {
		return
	}
	msg := fmt.Sprintf(format, args...)
	l.out.Printf("[%s] [%s] %s", level, l.component, msg)
}

func (l *componentLogger) Debug(format string, args ...any) {
	l.logf(DebugLevel, format, args...)
}

func (l *componentLogger) Info(format string, args ...any) {
	l.logf(InfoLevel, format, args...)
}

func (l *componentLogger) Warn(format string, args ...any) {
	l.logf(WarnLevel, format, args...)
}

func (l *componentLogger) Error(format string, args ...any) {
	l.logf(ErrorLevel, format, args...)
}
