package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/andrescamacho/factorycore/internal/application/common"
	"github.com/andrescamacho/factorycore/internal/infrastructure/config"
)

// SlogLogger adapts log/slog to the common.Logger port
type SlogLogger struct {
	logger *slog.Logger
	closer io.Closer
}

var _ common.Logger = (*SlogLogger)(nil)

// NewSlogLogger builds a logger from the logging section of the config
func NewSlogLogger(cfg config.LoggingConfig) (*SlogLogger, error) {
	var (
		out    io.Writer
		closer io.Closer
	)
	switch cfg.Output {
	case "stderr":
		out = os.Stderr
	case "file":
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", cfg.FilePath, err)
		}
		out, closer = f, f
	default:
		out = os.Stdout
	}

	l := NewWriterLogger(out, cfg.Format, ParseLevel(cfg.Level))
	l.closer = closer
	return l, nil
}

// NewWriterLogger writes to w using the "json" or "text" format
func NewWriterLogger(w io.Writer, format string, level slog.Level) *SlogLogger {
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return &SlogLogger{logger: slog.New(handler)}
}

// Log implements common.Logger. Metadata keys are emitted in sorted order.
func (l *SlogLogger) Log(level, message string, metadata map[string]interface{}) {
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]any, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, metadata[k]))
	}
	l.logger.Log(context.Background(), toSlogLevel(level), message, attrs...)
}

// Slog exposes the underlying logger for components that take *slog.Logger
func (l *SlogLogger) Slog() *slog.Logger {
	return l.logger
}

// Close releases the log file, if any
func (l *SlogLogger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// ParseLevel maps config level names onto slog levels
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func toSlogLevel(level string) slog.Level {
	switch level {
	case common.LevelDebug:
		return slog.LevelDebug
	case common.LevelWarning:
		return slog.LevelWarn
	case common.LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
