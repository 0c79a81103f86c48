// Package prompts holds the oracle instructions and canned replies of the sales desk
// The defaults are embedded from catalog.yaml and can be overridden by a YAML file
package prompts

import (
	_ "embed"
	"os"
	"strings"
	"text/template"

	perr "tdsdesk/internal/platform/errors"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Source is the YAML shape of a catalog
type Source struct {
	StoreName string `yaml:"store_name"`
	Sentinel  string `yaml:"sentinel"`
	Extract   string `yaml:"extract"`
	Compose   string `yaml:"compose"`
	Analyze   string `yaml:"analyze"`
	Greeting  string `yaml:"greeting"`
	NotFound  string `yaml:"not_found"`
}

// Catalog renders prompts and replies, safe for concurrent use
type Catalog struct {
	storeName string
	sentinel  string

	extract  *template.Template
	compose  *template.Template
	analyze  *template.Template
	greeting *template.Template
	notFound *template.Template
}

// Default returns the embedded catalog and panics if it does not parse
func Default() *Catalog {
	c, err := Parse(defaultCatalog, nil)
	if err != nil {
		panic(err)
	}
	return c
}

// Load returns the embedded catalog overlaid with the YAML file at path
// an empty path yields the embedded defaults
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Parse(defaultCatalog, nil)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "read prompts file %s", path)
	}
	return Parse(defaultCatalog, b)
}

// Parse builds a catalog from base YAML and an optional overlay
// keys missing from the overlay keep the base value
func Parse(base, overlay []byte) (*Catalog, error) {
	var src Source
	if err := yaml.Unmarshal(base, &src); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "parse prompts catalog")
	}
	if len(overlay) > 0 {
		if err := yaml.Unmarshal(overlay, &src); err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "parse prompts overlay")
		}
	}
	return FromSource(src)
}

// FromSource compiles the templates of src
func FromSource(src Source) (*Catalog, error) {
	if strings.TrimSpace(src.Sentinel) == "" {
		return nil, perr.InvalidArgf("prompts: sentinel must not be empty")
	}
	c := &Catalog{storeName: src.StoreName, sentinel: strings.TrimSpace(src.Sentinel)}

	var err error
	compile := func(name, body string) *template.Template {
		if err != nil {
			return nil
		}
		if strings.TrimSpace(body) == "" {
			err = perr.InvalidArgf("prompts: %s must not be empty", name)
			return nil
		}
		var t *template.Template
		t, err = template.New(name).Option("missingkey=error").Parse(body)
		if err != nil {
			err = perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "prompts: compile %s", name)
		}
		return t
	}
	c.extract = compile("extract", src.Extract)
	c.compose = compile("compose", src.Compose)
	c.analyze = compile("analyze", src.Analyze)
	c.greeting = compile("greeting", src.Greeting)
	c.notFound = compile("not_found", src.NotFound)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Sentinel is the extractor reply that means no product was mentioned
func (c *Catalog) Sentinel() string { return c.sentinel }

// StoreName is the display name used in replies
func (c *Catalog) StoreName() string { return c.storeName }

// Extract renders the identifier extraction instruction for question
func (c *Catalog) Extract(question string) (string, error) {
	return render(c.extract, map[string]string{"Question": question, "Sentinel": c.sentinel})
}

// Compose renders the answer phrasing instruction for a fact sheet
func (c *Catalog) Compose(factSheet string) (string, error) {
	return render(c.compose, map[string]string{"FactSheet": factSheet, "StoreName": c.storeName})
}

// Analyze renders the sentiment analysis instruction for text
func (c *Catalog) Analyze(text string) (string, error) {
	return render(c.analyze, map[string]string{"Text": text})
}

// Greeting renders the canned reply for messages without a product
func (c *Catalog) Greeting() string {
	s, err := render(c.greeting, map[string]string{"StoreName": c.storeName})
	if err != nil {
		return c.storeName
	}
	return s
}

// NotFound renders the canned reply for an identifier without a match
func (c *Catalog) NotFound(identifier string) string {
	s, err := render(c.notFound, map[string]string{"Identifier": identifier, "StoreName": c.storeName})
	if err != nil {
		return identifier
	}
	return s
}

func render(t *template.Template, data map[string]string) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUnknown, "render %s", t.Name())
	}
	return strings.TrimSpace(b.String()), nil
}
