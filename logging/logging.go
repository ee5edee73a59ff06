/*package logging provides the diagnostic log used by the mechanics engine.
Recoverable anomalies (invalid movements, unresolved boundary crossings,
agents found at invalid positions) are reported here and never interrupt a
run.
*/
package logging

import (
	"io"
	"log"
	"strings"
)

// Logger is the logging interface injected into the engine's packages.
type Logger interface {
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
}

// Level is a logging threshold.
type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case Debug:
		return "debug"
	case Info:
		return "info"
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// ParseLevel parses a case-insensitive level name. Unrecognized names map
// to Info.
func ParseLevel(level string) Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return Debug
	case "info":
		return Info
	case "warn", "warning":
		return Warn
	case "error":
		return Error
	default:
		return Info
	}
}

// LevelLogger writes messages at or above its level to a standard library
// log.Logger.
type LevelLogger struct {
	level Level
	out *log.Logger
}

// New returns a LevelLogger writing to w with the standard log flags.
func New(w io.Writer, level string) *LevelLogger {
	return &LevelLogger{
		level: ParseLevel(level),
		out: log.New(w, "", log.LstdFlags),
	}
}

// Level returns the logger's threshold.
func (l *LevelLogger) Level() Level { return l.level }

func (l *LevelLogger) printf(level Level, tag, format string, v ...any) {
	if level < l.level { return }
	l.out.Printf(tag+format, v...)
}

// Debugf logs a debug message.
func (l *LevelLogger) Debugf(format string, v ...any) {
	l.printf(Debug, "[DEBUG] ", format, v...)
}

// Infof logs an info message.
func (l *LevelLogger) Infof(format string, v ...any) {
	l.printf(Info, "[INFO] ", format, v...)
}

// Warnf logs a warning message.
func (l *LevelLogger) Warnf(format string, v ...any) {
	l.printf(Warn, "[WARN] ", format, v...)
}

// Errorf logs an error message.
func (l *LevelLogger) Errorf(format string, v ...any) {
	l.printf(Error, "[ERROR] ", format, v...)
}

// NoOp discards everything.
type NoOp struct{}

func (NoOp) Debugf(format string, v ...any) {}
func (NoOp) Infof(format string, v ...any)  {}
func (NoOp) Warnf(format string, v ...any)  {}
func (NoOp) Errorf(format string, v ...any) {}

// Or returns l, or a NoOp logger if l is nil.
func Or(l Logger) Logger {
	if l == nil { return NoOp{} }
	return l
}
