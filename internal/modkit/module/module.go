// Package module holds the Module contract and port lookups used while wiring modules together
package module

import (
	"reflect"

	phttp "tdsdesk/internal/platform/net/http"
)

// Module is a named unit with ports and routes
type Module interface {
	Name() string
	Ports() any
	MountRoutes(r phttp.Router)
}

// PortsOf finds T in m's ports, either the port set itself or one of its exported fields
func PortsOf[T any](m Module) (T, bool) {
	var zero T
	p := m.Ports()
	if p == nil {
		return zero, false
	}
	if v, ok := p.(T); ok {
		return v, true
	}
	rv := reflect.ValueOf(p)
	if rv.Kind() != reflect.Struct {
		return zero, false
	}
	for i := range rv.NumField() {
		if f := rv.Field(i); f.CanInterface() {
			if v, ok := f.Interface().(T); ok {
				return v, true
			}
		}
	}
	return zero, false
}

// MustPortsOf is PortsOf that panics naming the module
func MustPortsOf[T any](m Module) T {
	v, ok := PortsOf[T](m)
	if !ok {
		panic("module " + m.Name() + ": requested port not found")
	}
	return v
}
