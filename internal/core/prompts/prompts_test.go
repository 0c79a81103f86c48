package prompts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	perr "tdsdesk/internal/platform/errors"
)

func TestDefault_Renders(t *testing.T) {
	t.Parallel()
	c := Default()

	if c.Sentinel() != "N/A" {
		t.Fatalf("Sentinel = %q, want N/A", c.Sentinel())
	}

	p, err := c.Extract("tem filtro de óleo?")
	if err != nil {
		t.Fatalf("Extract err: %v", err)
	}
	if !strings.Contains(p, `"tem filtro de óleo?"`) || !strings.Contains(p, "N/A") {
		t.Fatalf("Extract prompt missing question or sentinel:\n%s", p)
	}

	p, err = c.Compose("- Nome do Produto: FILTRO\n- Estoque Atual: 3 unidades")
	if err != nil {
		t.Fatalf("Compose err: %v", err)
	}
	if !strings.Contains(p, "TDS Autopeças") || !strings.Contains(p, "Estoque Atual: 3") {
		t.Fatalf("Compose prompt missing store or sheet:\n%s", p)
	}

	p, err = c.Analyze("atendimento ótimo")
	if err != nil {
		t.Fatalf("Analyze err: %v", err)
	}
	if !strings.Contains(p, `"sugestao_de_resposta"`) {
		t.Fatalf("Analyze prompt missing json shape:\n%s", p)
	}

	want := "Desculpe, não consegui encontrar um produto correspondente a 'XPTO 9' em nosso sistema."
	if got := c.NotFound("XPTO 9"); got != want {
		t.Fatalf("NotFound = %q, want %q", got, want)
	}
	if got := c.Greeting(); !strings.HasPrefix(got, "Olá!") {
		t.Fatalf("Greeting = %q", got)
	}
}

func TestTemplatesTreatInputAsData(t *testing.T) {
	t.Parallel()
	c := Default()
	got := c.NotFound("{{.StoreName}}")
	if !strings.Contains(got, "'{{.StoreName}}'") {
		t.Fatalf("identifier was evaluated as a template: %q", got)
	}
}

func TestLoad_OverlayKeepsDefaults(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "prompts.yaml")
	if err := os.WriteFile(path, []byte("store_name: Loja Teste\nnot_found: \"sem '{{.Identifier}}'\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if c.StoreName() != "Loja Teste" {
		t.Fatalf("StoreName = %q", c.StoreName())
	}
	if got := c.NotFound("abc"); got != "sem 'abc'" {
		t.Fatalf("NotFound = %q", got)
	}
	if !strings.Contains(c.Greeting(), "Loja Teste") {
		t.Fatalf("Greeting should use overlay store name: %q", c.Greeting())
	}
	if c.Sentinel() != "N/A" {
		t.Fatalf("Sentinel lost in overlay: %q", c.Sentinel())
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("missing file err = %v, want invalid argument", err)
	}
	if _, err := Parse(defaultCatalog, []byte("extract: \"{{.Question\"\n")); err == nil {
		t.Fatal("expected compile error for broken template")
	}
	if _, err := Parse(defaultCatalog, []byte("sentinel: \"  \"\n")); err == nil {
		t.Fatal("expected error for blank sentinel")
	}
}
