package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog.Logger. Fields are passed as maps so callers never
// import zerolog directly.
type Logger struct {
	zlog zerolog.Logger
}

// New creates a Logger for the given environment: colored console output at
// debug level in development, JSON at info level everywhere else.
func New(env string) *Logger {
	return NewWithLevel(env, "")
}

// NewWithLevel is New with an explicit level ("debug", "info", "warn",
// "error"). An empty or unknown level keeps the environment default.
func NewWithLevel(env, level string) *Logger {
	return newLogger(env, level, os.Stdout)
}

func newLogger(env, level string, out io.Writer) *Logger {
	if env == "development" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	zerolog.TimeFieldFormat = time.RFC3339

	return &Logger{
		zlog: zerolog.New(out).Level(resolveLevel(env, level)).With().Timestamp().Logger(),
	}
}

// resolveLevel maps the configured level onto zerolog, falling back to
// debug in development and info elsewhere.
func resolveLevel(env, level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	}
	if env == "development" {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

// Debug logs a debug message with optional fields.
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	emit(l.zlog.Debug(), msg, fields)
}

// Info logs an info message with optional fields.
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	emit(l.zlog.Info(), msg, fields)
}

// Warn logs a warning message with optional fields.
func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	emit(l.zlog.Warn(), msg, fields)
}

// Error logs err with a message and optional fields.
func (l *Logger) Error(msg string, err error, fields map[string]interface{}) {
	emit(l.zlog.Error().Err(err), msg, fields)
}

// Fatal logs err and exits the process.
func (l *Logger) Fatal(msg string, err error, fields map[string]interface{}) {
	emit(l.zlog.Fatal().Err(err), msg, fields)
}

func emit(event *zerolog.Event, msg string, fields map[string]interface{}) {
	if len(fields) > 0 {
		event = event.Fields(fields)
	}
	event.Msg(msg)
}

// With creates a child logger carrying fields on every entry.
func (l *Logger) With(fields map[string]interface{}) *Logger {
	return &Logger{zlog: l.zlog.With().Fields(fields).Logger()}
}

// WithRequestID creates a child logger with a request_id field.
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{zlog: l.zlog.With().Str("request_id", requestID).Logger()}
}

// WithComponent creates a child logger tagged with the emitting component,
// e.g. "valuation_service" or "rates_provider".
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{zlog: l.zlog.With().Str("component", component).Logger()}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}
