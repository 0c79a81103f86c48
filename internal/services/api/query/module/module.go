// Package module wires the query endpoint into the API
package module

import (
	"tdsdesk/internal/modkit"
	"tdsdesk/internal/modkit/httpkit"
	adom "tdsdesk/internal/services/assistant/domain"

	qhttp "tdsdesk/internal/services/api/query/http"
)

// Ports declares the injected ports this module needs
type Ports struct {
	Ask adom.AskPort
}

// New builds the module under /query
func New(_ modkit.Deps, opts ...modkit.Option) modkit.Module {
	spec := modkit.Build(append([]modkit.Option{
		modkit.WithName("query"),
		modkit.WithPrefix("/query"),
	}, opts...)...)

	in, _ := spec.Ports.(Ports)
	if in.Ask == nil {
		panic("query API module requires the Ask port (from services/assistant)")
	}
	return spec.Module(in, func(r httpkit.Router) { qhttp.Register(r, in.Ask) })
}
