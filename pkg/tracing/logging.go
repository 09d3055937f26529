package tracing

import (
	"context"
	"log/slog"
	"time"
)

var (
	_ Tracer = LoggingTracer{}
	_ Span   = (*loggingSpan)(nil)
)

// Tracer starts spans.
type Tracer interface {
	StartSpan(operationName string) Span
}

// Span is one timed operation. Attributes are reported on [Span.Finish].
type Span interface {
	SetAttr(key string, value any)
	Finish()
}

// LoggingTracer writes each finished span as a debug record.
type LoggingTracer struct {
	logger *slog.Logger
}

// NewLoggingTracer creates a [LoggingTracer]. A nil logger means the
// [slog.Default] logger at the time each span finishes.
func NewLoggingTracer(logger *slog.Logger) *LoggingTracer {
	return &LoggingTracer{
		logger: logger,
	}
}

//nolint:ireturn
func (l LoggingTracer) StartSpan(operationName string) Span {
	return &loggingSpan{
		logger:        l.logger,
		operationName: operationName,
		start:         time.Now(),
	}
}

type loggingSpan struct {
	start         time.Time
	logger        *slog.Logger
	operationName string
	attrs         []any
}

func (s *loggingSpan) SetAttr(key string, value any) {
	s.attrs = append(s.attrs, slog.Any(key, value))
}

func (s *loggingSpan) Finish() {
	logger := s.logger
	if logger == nil {
		logger = slog.Default()
	}

	attrs := append(s.attrs,
		slog.String("operation_name", s.operationName),
		slog.Float64("time_ms", time.Since(s.start).Seconds()*1e3),
	)
	logger.Log(context.Background(), slog.LevelDebug, "trace", attrs...)
}
