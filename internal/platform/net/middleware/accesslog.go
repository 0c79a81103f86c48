package middleware

import (
	"net/http"
	"time"

	"tdsdesk/internal/platform/logger"
	pnet "tdsdesk/internal/platform/net"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// AccessLog puts a request logger carrying request_id on the context and
// logs one line per request; requests at or above slow log at warn
// it must run after RequestID
func AccessLog(slow time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := logger.Get().With().Str("request_id", pnet.RequestID(r.Context())).Logger()
			r = r.WithContext(logger.Into(r.Context(), l))

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			elapsed := time.Since(start)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			ev := l.Info()
			switch {
			case status >= http.StatusInternalServerError:
				ev = l.Error()
			case slow > 0 && elapsed >= slow:
				ev = l.Warn()
			}
			ev.Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("elapsed", elapsed).
				Msg("request")
		})
	}
}
