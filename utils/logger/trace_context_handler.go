package logger

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

type jobContextKey struct{}

type jobFields struct {
	id   string
	name string
}

// WithJob tags ctx with the job being handled so every record logged with it
// carries job_id and job_name.
func WithJob(ctx context.Context, jobID, jobName string) context.Context {
	return context.WithValue(ctx, jobContextKey{}, jobFields{id: jobID, name: jobName})
}

// TraceContextHandler adds the span ids and the job fields found in the
// record's context.
type TraceContextHandler struct {
	inner slog.Handler
}

func NewTraceContextHandler(inner slog.Handler) *TraceContextHandler {
	return &TraceContextHandler{inner: inner}
}

func (h *TraceContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *TraceContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}
	if job, ok := ctx.Value(jobContextKey{}).(jobFields); ok {
		r.AddAttrs(slog.String("job_id", job.id), slog.String("job_name", job.name))
	}
	return h.inner.Handle(ctx, r)
}

func (h *TraceContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TraceContextHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h *TraceContextHandler) WithGroup(name string) slog.Handler {
	return &TraceContextHandler{inner: h.inner.WithGroup(name)}
}
