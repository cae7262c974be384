// Package logsink turns child output chunks into structured log records.
package logsink

import (
	"context"
	"log/slog"

	"github.com/sa6mwa/streamrun/port"
)

// Logger emits one record per chunk at Level.
type Logger struct {
	logger *slog.Logger
	Level  slog.Level
}

var _ port.Sink = (*Logger)(nil)

// New returns a sink logging at info level. A nil logger means slog.Default.
func New(logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{logger: logger, Level: slog.LevelInfo}
}

func (l *Logger) Chunk(stream port.Stream, p []byte) {
	l.logger.LogAttrs(context.Background(), l.Level, "child output",
		slog.String("stream", stream.String()),
		slog.String("chunk", string(p)),
		slog.Int("bytes", len(p)),
	)
}
