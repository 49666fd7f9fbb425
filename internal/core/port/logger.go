package port

// Fields carries structured data attached to a log entry.
type Fields map[string]interface{}

// LoggerPort abstracts the application core from the concrete logging
// backend (slog, fluent-bit, or both).
type LoggerPort interface {
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	Error(msg string, err error, fields Fields)
	Debug(msg string, fields Fields)

	// WithFields returns a logger with the fields pre-attached, used to
	// carry request context (trace_id, component) down the call chain.
	WithFields(fields Fields) LoggerPort
}
