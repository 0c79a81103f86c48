package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"tdsdesk/internal/platform/net/middleware"
)

// RequestTimeout bounds every request served through CommonStack
const RequestTimeout = 30 * time.Second

// CommonStack is the middleware every public route gets; origins feed CORS
func CommonStack(origins ...string) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.AccessLog(500 * time.Millisecond),
		middleware.RecoverJSON,
		middleware.NoCache(),
		middleware.CORS(origins...),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
		middleware.Timeout(RequestTimeout),
	}
}
