package logging

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Span times one unit of work, usually a single API exchange, and logs its outcome.
type Span struct {
	name   string
	logger *slog.Logger
	start  time.Time
}

// StartSpan derives a child span from ctx. The returned context carries a
// logger enriched with trace, span and parent ids. base is used when ctx has
// no logger of its own.
func StartSpan(ctx context.Context, name string, base *slog.Logger) (context.Context, *Span) {
	if ctx == nil {
		ctx = context.Background()
	}

	logger := FromContext(ctx, base)

	traceID := TraceIDFromContext(ctx)
	if traceID == "" {
		traceID = uuid.NewString()
		ctx = WithTraceID(ctx, traceID)
		logger = logger.With(slog.String("trace_id", traceID))
	}

	parentSpanID := SpanIDFromContext(ctx)
	spanID := uuid.NewString()

	logger = logger.With(
		slog.String("span_id", spanID),
		slog.String("span_name", name),
	)
	if parentSpanID != "" {
		logger = logger.With(slog.String("parent_span_id", parentSpanID))
	}

	ctx = WithLogger(ctx, logger)
	ctx = WithSpanID(ctx, spanID)

	return ctx, &Span{name: name, logger: logger, start: time.Now()}
}

// Logger returns the span's logger.
func (s *Span) Logger() *slog.Logger {
	if s == nil {
		return slog.Default()
	}
	return s.logger
}

// End logs completion at info level with the elapsed time and any extra attributes.
func (s *Span) End(attrs ...any) {
	if s == nil {
		return
	}
	args := append([]any{slog.Duration("duration", time.Since(s.start))}, attrs...)
	s.logger.Info("span completed", args...)
}

// Fail logs the span as failed at error level.
func (s *Span) Fail(err error, attrs ...any) {
	if s == nil {
		return
	}
	args := append([]any{slog.Duration("duration", time.Since(s.start)), slog.Any("error", err)}, attrs...)
	s.logger.Error("span failed", args...)
}
