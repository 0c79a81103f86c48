// Package module wires the conversation endpoints into the API
package module

import (
	"tdsdesk/internal/modkit"
	"tdsdesk/internal/modkit/httpkit"
	cdom "tdsdesk/internal/services/conversations/domain"

	chttp "tdsdesk/internal/services/api/conversations/http"
)

// Ports declares the injected ports this module needs
type Ports struct {
	Reader cdom.ReaderPort
}

// New builds the module under /conversations; Ports must be injected with modkit.WithPorts
func New(_ modkit.Deps, opts ...modkit.Option) modkit.Module {
	spec := modkit.Build(append([]modkit.Option{
		modkit.WithName("conversations-api"),
		modkit.WithPrefix("/conversations"),
	}, opts...)...)

	in, _ := spec.Ports.(Ports)
	if in.Reader == nil {
		panic("conversations API module requires the Reader port (from services/conversations)")
	}
	return spec.Module(in, func(r httpkit.Router) { chttp.Register(r, in.Reader) })
}
