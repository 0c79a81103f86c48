// Package http serves the /meta endpoints: liveness, readiness, build info and turn stats
package http

import (
	"context"
	"net/http"
	"time"

	"tdsdesk/internal/core/version"
	"tdsdesk/internal/modkit/httpkit"
	perr "tdsdesk/internal/platform/errors"
	tdom "tdsdesk/internal/services/turnstats/domain"
)

// PingFunc checks one backend
type PingFunc func(context.Context) error

// Probe is a backend the readiness check pings; a nil Ping means the backend is disabled
type Probe struct {
	Name     string
	Required bool
	Ping     PingFunc
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Probes      []Probe
	// Turns serves /turns, nil answers 503
	Turns tdom.ReaderPort
	// ProbeTimeout bounds the whole readiness check; defaults to 2s
	ProbeTimeout time.Duration
}

// HealthResponse is the health payload
type HealthResponse struct {
	OK      bool   `json:"ok"       example:"true"`
	Service string `json:"service"  example:"tdsdesk-api"`
	Started string `json:"started"  example:"2025-09-03T13:00:00Z"`
	Now     string `json:"now"      example:"2025-09-03T13:05:00Z"`
}

// ReadyCheck is the outcome of one probe: ok, fail or skipped
type ReadyCheck struct {
	Name   string `json:"name"   example:"pg"`
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"dial tcp 127.0.0.1:5432: connect: connection refused"`
}

// ReadyResponse is ok, degraded when an optional backend fails, or fail when a required one is down
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"`
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2025-09-03T13:05:00Z"`
}

// ServiceResponse describes the running process
type ServiceResponse struct {
	Name    string `json:"name"    example:"tdsdesk-api"`
	Started string `json:"started" example:"2025-09-03T13:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.ProbeTimeout <= 0 {
		d.ProbeTimeout = 2 * time.Second
	}
	h := handlers(d)
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
	httpkit.Get(r, "/turns", h.turns)
}

type handlers Deps

func stamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

// @Summary Health check
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /meta/health [get]
func (h handlers) health(*http.Request) (any, error) {
	return HealthResponse{OK: true, Service: h.ServiceName, Started: stamp(h.StartedAt), Now: stamp(time.Now())}, nil
}

// @Summary Readiness probe with backend checks
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse
// @Router /meta/ready [get]
func (h handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), h.ProbeTimeout)
	defer cancel()

	out := ReadyResponse{Status: "ok", Checks: make([]ReadyCheck, 0, len(h.Probes))}
	for _, p := range h.Probes {
		c := probe(ctx, p)
		out.Checks = append(out.Checks, c)
		if c.Status == "ok" {
			continue
		}
		switch {
		case p.Required:
			out.Status = "fail"
		case c.Status == "fail" && out.Status == "ok":
			out.Status = "degraded"
		}
	}
	out.Now = stamp(time.Now())
	return out, nil
}

func probe(ctx context.Context, p Probe) ReadyCheck {
	if p.Ping == nil {
		return ReadyCheck{Name: p.Name, Status: "skipped"}
	}
	if err := p.Ping(ctx); err != nil {
		return ReadyCheck{Name: p.Name, Status: "fail", Error: err.Error()}
	}
	return ReadyCheck{Name: p.Name, Status: "ok"}
}

// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo
// @Router /meta/version [get]
func (handlers) version(*http.Request) (any, error) { return version.Info(), nil }

// @Summary Service info and uptime
// @Tags Meta
// @Produce json
// @Success 200 {object} ServiceResponse
// @Router /meta/service [get]
func (h handlers) service(*http.Request) (any, error) {
	return ServiceResponse{
		Name:    h.ServiceName,
		Started: stamp(h.StartedAt),
		Uptime:  int64(time.Since(h.StartedAt) / time.Second),
	}, nil
}

// @Summary Turn counts by category and channel over a trailing window
// @Tags Meta
// @Produce json
// @Param hours query int false "window in hours (default 24)"
// @Success 200 {object} tdom.Summary
// @Failure 503 {object} httpkit.Envelope "stats sink disabled"
// @Router /meta/turns [get]
func (h handlers) turns(r *http.Request) (any, error) {
	if h.Turns == nil {
		return nil, perr.Unavailablef("turn stats are disabled")
	}
	hours, err := httpkit.QueryInt(r, "hours")
	if err != nil {
		return nil, err
	}
	return h.Turns.Summary(r.Context(), hours)
}
