package cli

import (
	"context"
	"io"

	charmlog "github.com/charmbracelet/log"

	"github.com/wudi/photocopy/observability"
)

// newLogger creates a logger writing to w with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level charmlog.Level) *charmlog.Logger {
	return charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *charmlog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, falling back to the
// package default so commands always have a valid logger.
func loggerFromContext(ctx context.Context) *charmlog.Logger {
	if l, ok := ctx.Value(loggerKey).(*charmlog.Logger); ok {
		return l
	}
	return charmlog.Default()
}

// charmAdapter bridges the CLI logger to the library's logging seam.
type charmAdapter struct {
	l *charmlog.Logger
}

func adaptLogger(l *charmlog.Logger) observability.Logger {
	return charmAdapter{l: l}
}

func (a charmAdapter) Debug(msg string, fields ...observability.Field) {
	a.l.Debug(msg, keyvals(fields)...)
}

func (a charmAdapter) Info(msg string, fields ...observability.Field) {
	a.l.Info(msg, keyvals(fields)...)
}

func (a charmAdapter) Warn(msg string, fields ...observability.Field) {
	a.l.Warn(msg, keyvals(fields)...)
}

func (a charmAdapter) Error(msg string, fields ...observability.Field) {
	a.l.Error(msg, keyvals(fields)...)
}

func (a charmAdapter) With(fields ...observability.Field) observability.Logger {
	return charmAdapter{l: a.l.With(keyvals(fields)...)}
}

func keyvals(fields []observability.Field) []interface{} {
	out := make([]interface{}, 0, 2*len(fields))
	for _, f := range fields {
		out = append(out, f.Key(), f.Value())
	}
	return out
}
