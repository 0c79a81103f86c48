// Package module wires the meta endpoints into the API
package module

import (
	"context"
	"time"

	"tdsdesk/internal/modkit"
	"tdsdesk/internal/modkit/httpkit"
	"tdsdesk/internal/platform/store"
	tdom "tdsdesk/internal/services/turnstats/domain"

	metahttp "tdsdesk/internal/services/api/meta/http"
)

// Ports declares the optional injected ports of the meta module
type Ports struct {
	Turns tdom.ReaderPort
}

// New builds the module under /meta; readiness probes follow the enabled backends in deps
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	spec := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)
	in, _ := spec.Ports.(Ports)

	hd := metahttp.Deps{
		ServiceName:  deps.Cfg.MayString("APP_NAME", "tdsdesk-api"),
		StartedAt:    time.Now(),
		Turns:        in.Turns,
		ProbeTimeout: deps.Cfg.MayDuration("READY_TIMEOUT", 2*time.Second),
		Probes:       []metahttp.Probe{{Name: "pg", Required: true}, {Name: "ch"}, {Name: "redis"}},
	}
	if p, ok := deps.PG.(store.Pinger); ok {
		hd.Probes[0].Ping = p.Ping
	}
	if p, ok := deps.CH.(store.Pinger); ok {
		hd.Probes[1].Ping = p.Ping
	}
	if deps.Redis != nil {
		hd.Probes[2].Ping = func(ctx context.Context) error { return deps.Redis.Ping(ctx).Err() }
	}

	return spec.Module(nil, func(r httpkit.Router) { metahttp.Register(r, hd) })
}
