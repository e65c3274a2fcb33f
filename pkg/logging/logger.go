// Package logging provides the gateway's structured logger. Output goes to
// stderr by default: on the stdio transport, stdout carries protocol frames
// and must never receive log lines.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level represents the severity of a log message.
type Level int

const (
	DebugLevel Level = iota - 1
	InfoLevel
	WarnLevel
	ErrorLevel
)

// String returns the string representation of a log level.
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

// ParseLevel resolves a level name; unknown names resolve to InfoLevel.
func ParseLevel(name string) Level {
	switch name {
	case "debug", "DEBUG":
		return DebugLevel
	case "warn", "WARN":
		return WarnLevel
	case "error", "ERROR":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Field is a key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// String creates a string field.
func String(key, value string) Field { return Field{Key: key, Value: value} }

// Int creates an integer field.
func Int(key string, value int) Field { return Field{Key: key, Value: value} }

// Bool creates a boolean field.
func Bool(key string, value bool) Field { return Field{Key: key, Value: value} }

// Duration creates a duration field.
func Duration(key string, value time.Duration) Field { return Field{Key: key, Value: value} }

// Err creates an error field.
func Err(err error) Field { return Field{Key: "error", Value: err} }

// Any creates a field with an arbitrary value.
func Any(key string, value interface{}) Field { return Field{Key: key, Value: value} }

// Logger is the interface for structured logging.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// WithFields returns a child logger that attaches fields to every entry.
	WithFields(fields ...Field) Logger

	SetLevel(level Level)
}

// Entry is one formatted log record.
type Entry struct {
	Level     Level
	Message   string
	Fields    map[string]interface{}
	Timestamp time.Time
}

// Formatter renders entries to bytes.
type Formatter interface {
	Format(entry *Entry) ([]byte, error)
}

type logger struct {
	mu        sync.Mutex
	level     Level
	output    io.Writer
	formatter Formatter
	fields    map[string]interface{}
}

// New creates a structured logger. A nil output defaults to stderr; a nil
// formatter defaults to the text formatter.
func New(output io.Writer, formatter Formatter) Logger {
	if output == nil {
		output = os.Stderr
	}
	if formatter == nil {
		formatter = NewTextFormatter()
	}
	return &logger{
		level:     InfoLevel,
		output:    output,
		formatter: formatter,
		fields:    make(map[string]interface{}),
	}
}

// Discard returns a logger that drops every entry. Useful in tests.
func Discard() Logger {
	return New(io.Discard, NewTextFormatter())
}

func (l *logger) Debug(msg string, fields ...Field) { l.log(DebugLevel, msg, fields) }
func (l *logger) Info(msg string, fields ...Field)  { l.log(InfoLevel, msg, fields) }
func (l *logger) Warn(msg string, fields ...Field)  { l.log(WarnLevel, msg, fields) }
func (l *logger) Error(msg string, fields ...Field) { l.log(ErrorLevel, msg, fields) }

func (l *logger) WithFields(fields ...Field) Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for _, f := range fields {
		merged[f.Key] = f.Value
	}
	return &logger{
		level:     l.level,
		output:    l.output,
		formatter: l.formatter,
		fields:    merged,
	}
}

func (l *logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *logger) log(level Level, msg string, fields []Field) {
	l.mu.Lock()
	if level < l.level {
		l.mu.Unlock()
		return
	}

	entry := &Entry{
		Level:     level,
		Message:   msg,
		Fields:    make(map[string]interface{}, len(l.fields)+len(fields)),
		Timestamp: time.Now(),
	}
	for k, v := range l.fields {
		entry.Fields[k] = v
	}
	l.mu.Unlock()

	for _, f := range fields {
		entry.Fields[f.Key] = f.Value
	}

	data, err := l.formatter.Format(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: format entry: %v\n", err)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.output.Write(data); err != nil {
		fmt.Fprintf(os.Stderr, "logging: write entry: %v\n", err)
	}
}
