// Package module wires the products service for other modules
package module

import (
	"tdsdesk/internal/modkit"
	"tdsdesk/internal/services/products/domain"
	"tdsdesk/internal/services/products/repo"
	"tdsdesk/internal/services/products/service"
)

// Ports exposed by the products module
type Ports struct {
	Matcher  domain.MatcherPort
	Importer domain.ImporterPort
}

// New builds the products module; CORE_PRODUCTS_HARD_LIMIT caps a find
func New(deps modkit.Deps) modkit.Module {
	svc := service.New(deps.PG, repo.NewPG(), service.Config{
		HardLimit: deps.Cfg.Prefix("CORE_PRODUCTS_").MayInt("HARD_LIMIT", 100),
	})
	return modkit.Service("products", Ports{Matcher: svc, Importer: svc})
}
