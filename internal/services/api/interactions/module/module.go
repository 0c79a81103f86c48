// Package module wires the interaction endpoints into the API
package module

import (
	"tdsdesk/internal/modkit"
	"tdsdesk/internal/modkit/httpkit"
	idom "tdsdesk/internal/services/interactions/domain"

	ihttp "tdsdesk/internal/services/api/interactions/http"
)

// Ports declares the injected ports this module needs
type Ports struct {
	Analyze idom.AnalyzePort
	Reader  idom.ReaderPort
}

// New builds the module; its routes sit at the API root
func New(_ modkit.Deps, opts ...modkit.Option) modkit.Module {
	spec := modkit.Build(append([]modkit.Option{modkit.WithName("interactions-api")}, opts...)...)

	in, _ := spec.Ports.(Ports)
	if in.Analyze == nil || in.Reader == nil {
		panic("interactions API module requires Analyze and Reader ports (from services/interactions)")
	}
	return spec.Module(in, func(r httpkit.Router) { ihttp.Register(r, in.Analyze, in.Reader) })
}
