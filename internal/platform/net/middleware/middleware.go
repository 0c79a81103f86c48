// Package middleware holds the http middlewares the API stacks are built from
package middleware

import (
	"net/http"
	"time"

	pstrings "tdsdesk/internal/platform/strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

// Middleware is the stdlib handler decorator
type Middleware = func(http.Handler) http.Handler

// RequestID accepts X-Request-Id or mints one and stores it on the context
func RequestID() Middleware { return chimw.RequestID }

// RealIP rewrites RemoteAddr from X-Real-IP or X-Forwarded-For
func RealIP() Middleware { return chimw.RealIP }

// NoCache marks every response as uncacheable
func NoCache() Middleware { return chimw.NoCache }

// StripSlashes routes /foo/ as /foo
func StripSlashes() Middleware { return chimw.StripSlashes }

// Heartbeat answers GET path with 200 before routing
func Heartbeat(path string) Middleware { return chimw.Heartbeat(path) }

// Timeout cancels the request context after d
func Timeout(d time.Duration) Middleware { return chimw.Timeout(d) }

// Compress gzips and deflates responses at level
func Compress(level int) Middleware { return chimw.NewCompressor(level).Handler }

// CORS allows origins; none allows any origin
func CORS(origins ...string) Middleware {
	return chicors.Handler(chicors.Options{
		AllowedOrigins: pstrings.IfEmpty(origins, []string{"*"}),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id", "X-Hub-Signature-256"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	})
}
