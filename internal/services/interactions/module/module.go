// Package module wires the interactions service for other modules
package module

import (
	"tdsdesk/internal/modkit"
	"tdsdesk/internal/services/interactions/domain"
	"tdsdesk/internal/services/interactions/repo"
	"tdsdesk/internal/services/interactions/service"
)

// Ports exposed by the interactions module
type Ports struct {
	Recorder domain.RecorderPort
	Reader   domain.ReaderPort
	Analyze  domain.AnalyzePort
}

// New builds the interactions module; analyzer may be nil, which disables analysis
func New(deps modkit.Deps, analyzer domain.Analyzer) modkit.Module {
	f := deps.Cfg.Prefix("CORE_INTERACTIONS_")
	svc := service.New(deps.PG, repo.NewPG(), analyzer, service.Config{
		DefaultLimit: f.MayInt("DEFAULT_LIMIT", 50),
		HardLimit:    f.MayInt("HARD_LIMIT", 200),
	})
	return modkit.Service("interactions", Ports{Recorder: svc, Reader: svc, Analyze: svc})
}
