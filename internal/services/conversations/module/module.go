// Package module wires the conversations service for other modules
package module

import (
	"tdsdesk/internal/modkit"
	"tdsdesk/internal/services/conversations/domain"
	"tdsdesk/internal/services/conversations/repo"
	"tdsdesk/internal/services/conversations/service"
)

// Ports exposed by the conversations module
type Ports struct {
	Threads domain.ThreadPort
	Reader  domain.ReaderPort
}

// New builds the conversations module from CORE_CONVERSATIONS_ settings
func New(deps modkit.Deps) modkit.Module {
	f := deps.Cfg.Prefix("CORE_CONVERSATIONS_")
	svc := service.New(deps.PG, repo.NewPG(), service.Config{
		DefaultLimit: f.MayInt("DEFAULT_LIMIT", 50),
		HardLimit:    f.MayInt("HARD_LIMIT", 200),
	})
	return modkit.Service("conversations", Ports{Threads: svc, Reader: svc})
}
