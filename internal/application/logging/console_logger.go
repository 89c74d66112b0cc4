package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/andrescamacho/mythic-mines/internal/infrastructure/config"
)

// ConsoleLogger writes log lines through slog in text or JSON form
type ConsoleLogger struct {
	logger *slog.Logger
	closer io.Closer
}

// NewConsoleLogger builds a logger from the logging configuration
func NewConsoleLogger(cfg config.LoggingConfig) (*ConsoleLogger, error) {
	var (
		out    io.Writer
		closer io.Closer
	)
	switch cfg.Output {
	case "", "stdout":
		out = os.Stdout
	case "stderr":
		out = os.Stderr
	case "file":
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", cfg.FilePath, err)
		}
		out, closer = f, f
	default:
		return nil, fmt.Errorf("unknown log output %q", cfg.Output)
	}

	logger := NewWriterLogger(out, cfg.Level, cfg.Format, cfg.IncludeCaller)
	logger.closer = closer
	return logger, nil
}

// NewWriterLogger builds a logger writing to w
func NewWriterLogger(w io.Writer, level, format string, includeCaller bool) *ConsoleLogger {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(level),
		AddSource: includeCaller,
	}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return &ConsoleLogger{logger: slog.New(handler)}
}

// Log writes one line; metadata keys become attributes
func (l *ConsoleLogger) Log(level, message string, metadata map[string]interface{}) {
	attrs := make([]slog.Attr, 0, len(metadata))
	for k, v := range metadata {
		attrs = append(attrs, slog.Any(k, v))
	}
	l.logger.LogAttrs(context.Background(), parseLevel(level), message, attrs...)
}

// Close releases the log file, if any
func (l *ConsoleLogger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn, "WARN":
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
