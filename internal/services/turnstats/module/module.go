// Package module wires the turn stats sink for other modules
package module

import (
	"tdsdesk/internal/modkit"
	"tdsdesk/internal/services/turnstats/domain"
	"tdsdesk/internal/services/turnstats/repo"
	"tdsdesk/internal/services/turnstats/service"
)

// Ports exposed by the turn stats module; Enabled is false without clickhouse
type Ports struct {
	Sink    domain.SinkPort
	Reader  domain.ReaderPort
	Enabled bool
}

// New builds the turn stats module from CORE_TURNSTATS_ settings
func New(deps modkit.Deps) modkit.Module {
	f := deps.Cfg.Prefix("CORE_TURNSTATS_")
	var st repo.Storage
	if deps.CH != nil {
		st = repo.NewCH(deps.CH)
	}
	svc := service.New(st, service.Config{
		DefaultHours: f.MayInt("DEFAULT_HOURS", 24),
		MaxHours:     f.MayInt("MAX_HOURS", 720),
	})
	return modkit.Service("turnstats", Ports{Sink: svc, Reader: svc, Enabled: svc.Enabled()})
}
