package pg

import (
	"context"
	"strings"
	"time"

	"tdsdesk/internal/platform/logger"
)

// QueryEvent is one finished statement
type QueryEvent struct {
	SQL     string
	Args    []any
	Elapsed time.Duration
	Err     error
	Slow    bool
}

// QueryTracer receives every statement run through the store
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// TracerFunc adapts a function to QueryTracer
type TracerFunc func(ctx context.Context, ev QueryEvent)

// OnQuery calls f
func (f TracerFunc) OnQuery(ctx context.Context, ev QueryEvent) { f(ctx, ev) }

// Tracer logs statements on one line each; slow ones warn and failed ones error
func Tracer(log logger.Logger) QueryTracer {
	l := log.With().Str("component", "pg").Logger()
	return TracerFunc(func(_ context.Context, ev QueryEvent) {
		e := l.Info()
		switch {
		case ev.Err != nil:
			e = l.Error().Err(ev.Err)
		case ev.Slow:
			e = l.Warn()
		}
		e.Dur("elapsed", ev.Elapsed).
			Bool("slow", ev.Slow).
			Str("sql", oneLine(ev.SQL)).
			Interface("args", ev.Args).
			Msg("pg query")
	})
}

func oneLine(sql string) string { return strings.Join(strings.Fields(sql), " ") }
