package logging

import "context"

// Log levels understood by every SimulationLogger
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARNING"
	LevelError = "ERROR"
)

// SimulationLogger provides logging for simulation operations
type SimulationLogger interface {
	Log(level, message string, metadata map[string]interface{})
}

// Context keys for passing logger through context
type contextKey int

const (
	loggerKey contextKey = iota
)

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger SimulationLogger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext extracts the logger from context, or returns a no-op logger if not found
func LoggerFromContext(ctx context.Context) SimulationLogger {
	if logger, ok := ctx.Value(loggerKey).(SimulationLogger); ok {
		return logger
	}
	return &noOpLogger{}
}

// noOpLogger is a logger that does nothing (fallback when no logger in context)
type noOpLogger struct{}

func (l *noOpLogger) Log(level, message string, metadata map[string]interface{}) {
	// Do nothing
}

// MultiLogger fans a log line out to several loggers
type MultiLogger []SimulationLogger

// Log forwards to every non-nil logger
func (m MultiLogger) Log(level, message string, metadata map[string]interface{}) {
	for _, l := range m {
		if l != nil {
			l.Log(level, message, metadata)
		}
	}
}
