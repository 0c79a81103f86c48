// Package modkit is how features plug into the API process
// a module has a name, a port set other modules consume, and optionally routes
package modkit

import (
	"net/http"
	"strings"

	"tdsdesk/internal/modkit/httpkit"
	"tdsdesk/internal/modkit/module"
	pstrings "tdsdesk/internal/platform/strings"
)

// Module is a mountable feature
type Module = module.Module

// Option adjusts a Spec
type Option func(*Spec)

// Spec collects what a module is built from; callers pass defaults first and options override them
type Spec struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
	Ports  any
	extra  []func(httpkit.Router)
}

// WithName names the module
func WithName(name string) Option { return func(s *Spec) { s.Name = name } }

// WithPrefix sets the route prefix
func WithPrefix(prefix string) Option { return func(s *Spec) { s.Prefix = prefix } }

// WithMiddlewares adds middleware in front of the module routes
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(s *Spec) { s.Mw = append(s.Mw, mw...) }
}

// WithPorts injects the ports the module consumes
func WithPorts[T any](p T) Option { return func(s *Spec) { s.Ports = p } }

// WithRoutes registers extra routes next to the module's own
func WithRoutes(fn func(httpkit.Router)) Option {
	return func(s *Spec) { s.extra = append(s.extra, fn) }
}

// Build applies opts in order
func Build(opts ...Option) Spec {
	var s Spec
	for _, o := range opts {
		o(&s)
	}
	return s
}

// Module builds a Module serving routes under Prefix, or at the parent when Prefix is empty
// ports are what the module exposes, not what it was injected with
func (s Spec) Module(ports any, routes func(httpkit.Router)) Module {
	prefix := ""
	if strings.Trim(s.Prefix, " /") != "" {
		prefix = pstrings.MustPrefix(s.Prefix)
	}
	return &routed{
		name:   pstrings.MustString(s.Name, "module name"),
		prefix: prefix,
		mw:     s.Mw,
		ports:  ports,
		routes: append([]func(httpkit.Router){routes}, s.extra...),
	}
}

type routed struct {
	name   string
	prefix string
	mw     []func(http.Handler) http.Handler
	ports  any
	routes []func(httpkit.Router)
}

func (m *routed) Name() string { return m.name }
func (m *routed) Ports() any   { return m.ports }

func (m *routed) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, m.prefix, m.mw, func(sub httpkit.Router) {
		for _, fn := range m.routes {
			if fn != nil {
				fn(sub)
			}
		}
	})
}

// Service is a module without routes that only exposes ports
func Service(name string, ports any) Module { return service{name: name, ports: ports} }

type service struct {
	name  string
	ports any
}

func (s service) Name() string               { return s.name }
func (s service) Ports() any                 { return s.ports }
func (s service) MountRoutes(httpkit.Router) {}
