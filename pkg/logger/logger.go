package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// Logger is the process-wide logger. Init must run before anything logs.
var Logger zerolog.Logger

// Init configures the global logger for a service. Development mode writes
// human-readable console output; otherwise JSON lines go to stdout. The
// initial level comes from LOG_LEVEL when set.
func Init(serviceName string, isDevelopment bool) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var out io.Writer = os.Stdout
	if isDevelopment {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	}

	Logger = zerolog.New(out).With().
		Timestamp().
		Str("service", serviceName).
		Logger()

	log.Logger = Logger
	SetLevel(os.Getenv("LOG_LEVEL"))
}

// SetLevel adjusts the global level. Unknown or empty values mean info.
func SetLevel(level string) {
	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}

// WithContext returns a logger carrying the trace and span ids of the
// current span, so log lines correlate with Jaeger traces.
func WithContext(ctx context.Context) *zerolog.Logger {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return &Logger
	}
	l := Logger.With().
		Str("trace_id", sc.TraceID().String()).
		Str("span_id", sc.SpanID().String()).
		Logger()
	return &l
}

// Info starts an info event correlated with ctx.
func Info(ctx context.Context) *zerolog.Event { return WithContext(ctx).Info() }

// Warn starts a warn event correlated with ctx.
func Warn(ctx context.Context) *zerolog.Event { return WithContext(ctx).Warn() }

// Error starts an error event correlated with ctx.
func Error(ctx context.Context) *zerolog.Event { return WithContext(ctx).Error() }

// Debug starts a debug event correlated with ctx.
func Debug(ctx context.Context) *zerolog.Event { return WithContext(ctx).Debug() }
