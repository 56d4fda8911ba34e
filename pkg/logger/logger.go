package logger

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// Setup configures the global zerolog logger.
func Setup(isLocalDev bool) {
	// Use Unix timestamps for performance and consistency
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if isLocalDev {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// EnrichContextWithLogger adds a zerolog logger to the context with trace information.
// Without a recording span the global logger is attached as is.
func EnrichContextWithLogger(ctx context.Context) context.Context {
	l := log.With()

	span := trace.SpanFromContext(ctx)
	if sCtx := span.SpanContext(); span.IsRecording() && sCtx.HasTraceID() {
		l = l.Str("trace_id", sCtx.TraceID().String()).
			Str("span_id", sCtx.SpanID().String())
	}

	logger := l.Logger()
	return logger.WithContext(ctx)
}

// Middleware attaches the request logger and writes one access line per request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := EnrichContextWithLogger(r.Context())
		r = r.WithContext(ctx)

		m := httpsnoop.CaptureMetrics(next, w, r)

		ev := log.Ctx(ctx).Info()
		if m.Code >= http.StatusInternalServerError {
			ev = log.Ctx(ctx).Error()
		}
		ev.Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", m.Code).
			Dur("duration", m.Duration).
			Int64("bytes", m.Written).
			Msg("request handled")
	})
}
