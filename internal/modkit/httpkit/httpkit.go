// Package httpkit is the routing and handler vocabulary modules use
// so they never import the platform http package or chi directly
package httpkit

import (
	"net/http"
	"strconv"
	"strings"

	perr "tdsdesk/internal/platform/errors"
	phttp "tdsdesk/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

type (
	// Router is the routing surface
	Router = phttp.Router
	// Handler is a plain handler func
	Handler = phttp.Handler
	// Response is a return style reply
	Response = phttp.Response
	// Envelope documents reply bodies in swagger comments
	Envelope = phttp.Envelope
)

// Raw replies without the envelope
func Raw(status int, body any) Response { return phttp.Raw(status, body) }

// Handle adapts a return style handler
func Handle(fn func(*http.Request) Response) Handler { return phttp.Handle(fn) }

// Get registers a body-less handler whose result is enveloped
func Get(r Router, path string, h func(*http.Request) (any, error)) { r.Get(path, phttp.Call(h)) }

// PostJSON registers a handler fed the validated JSON body
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, phttp.JSON(h))
}

// MountAPIV1 mounts routes under /api/v1 behind mw
func MountAPIV1(r Router, mw []func(http.Handler) http.Handler, mount func(Router)) {
	MountUnder(r, "/api/v1", mw, mount)
}

// MountUnder mounts routes under prefix behind mw; an empty or root prefix shares the parent
func MountUnder(r Router, prefix string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	scoped := func(sub Router) {
		if len(mw) > 0 {
			sub.Use(mw...)
		}
		mount(sub)
	}
	if strings.Trim(prefix, "/") == "" {
		r.Group(scoped)
		return
	}
	r.Route(prefix, scoped)
}

// Param is a path parameter of the matched route
func Param(r *http.Request, name string) string { return chi.URLParam(r, name) }

// QueryInt parses an optional integer query parameter; absent is 0
func QueryInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s must be an integer", name), name)
	}
	return n, nil
}
