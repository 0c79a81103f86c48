package module

import (
	"testing"

	phttp "tdsdesk/internal/platform/net/http"
)

type (
	reader interface{ Read() string }
	impl   struct{}
	ports  struct {
		Reader reader
		Limit  int
	}
	fake struct{ p any }
)

func (impl) Read() string { return "ok" }

func (f fake) Name() string           { return "fake" }
func (f fake) Ports() any             { return f.p }
func (fake) MountRoutes(phttp.Router) {}

func TestPortsOf(t *testing.T) {
	t.Parallel()
	m := fake{p: ports{Reader: impl{}, Limit: 3}}

	if p, ok := PortsOf[ports](m); !ok || p.Limit != 3 {
		t.Fatalf("whole set: %v %v", p, ok)
	}
	if r, ok := PortsOf[reader](m); !ok || r.Read() != "ok" {
		t.Fatalf("field lookup: %v %v", r, ok)
	}
	if _, ok := PortsOf[string](m); ok {
		t.Fatal("string port should not be found")
	}
	if _, ok := PortsOf[ports](fake{}); ok {
		t.Fatal("nil ports should not match")
	}
}

func TestMustPortsOf_Panics(t *testing.T) {
	t.Parallel()
	defer func() {
		if r := recover(); r != "module fake: requested port not found" {
			t.Fatalf("recover = %v", r)
		}
	}()
	MustPortsOf[string](fake{p: 1})
}
