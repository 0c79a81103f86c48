// Package swaggerkit serves the Swagger UI and an OpenAPI 3.0 document for the API
//
// The document comes from the swag registry under the "api" instance when
// generated docs are linked in; otherwise a bare skeleton keeps the UI usable.
package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strings"

	"tdsdesk/internal/core/version"
	phttp "tdsdesk/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/swaggo/swag/v2"
)

// Instance is the swag registry name the API docs use
const Instance = "api"

const base = "/api/v1"

// readDoc is a seam for tests
var readDoc = func() (string, error) { return swag.ReadDoc(Instance) }

// Mount serves the UI at /api/docs/ and the document at /api/docs/doc.json when enabled
func Mount(r phttp.Router, enabled bool) {
	if !enabled {
		return
	}
	r.Get("/api/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/docs/", http.StatusPermanentRedirect)
	})
	r.Get("/api/docs/doc.json", serveDoc)
	r.Handle("/api/docs/*", httpSwagger.Handler(
		httpSwagger.InstanceName(Instance),
		httpSwagger.URL("/api/docs/doc.json"),
	))
}

func serveDoc(w http.ResponseWriter, _ *http.Request) {
	raw, err := readDoc()
	if err != nil {
		raw = skeleton()
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		http.Error(w, "openapi document is not valid JSON", http.StatusInternalServerError)
		return
	}
	normalize(doc)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_ = json.NewEncoder(w).Encode(doc)
}

func skeleton() string {
	b := version.Info()
	return `{"openapi":"3.0.3","info":{"title":"` + b.Service + ` API","version":"` + b.Version + `"},"paths":{}}`
}

// normalize pins the document to OAS 3.0.3, which the UI renders, and documents the error envelope
func normalize(doc map[string]any) {
	v, _ := doc["openapi"].(string)
	if _, ok := doc["swagger"]; ok || v == "" || strings.HasPrefix(v, "3.1") {
		delete(doc, "swagger")
		doc["openapi"] = "3.0.3"
	}
	if _, ok := doc["servers"]; !ok {
		doc["servers"] = []any{map[string]any{"url": base}}
	}

	schemas := child(child(doc, "components"), "schemas")
	if _, ok := schemas["Envelope"]; !ok {
		schemas["Envelope"] = envelopeSchema()
	}

	paths, _ := doc["paths"].(map[string]any)
	for _, item := range paths {
		ops, _ := item.(map[string]any)
		for _, op := range ops {
			o, ok := op.(map[string]any)
			if !ok {
				continue
			}
			resps := child(o, "responses")
			for code, text := range map[string]string{"400": "Bad Request", "500": "Internal Server Error"} {
				if _, ok := resps[code]; !ok {
					resps[code] = errorResponse(text)
				}
			}
		}
	}
}

func child(m map[string]any, key string) map[string]any {
	c, ok := m[key].(map[string]any)
	if !ok {
		c = map[string]any{}
		m[key] = c
	}
	return c
}

func envelopeSchema() map[string]any {
	prop := func(typ string) map[string]any { return map[string]any{"type": typ} }
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"status_code": prop("integer"),
			"status":      prop("string"),
			"code":        prop("integer"),
			"error":       prop("string"),
			"field":       prop("string"),
			"request_id":  prop("string"),
			"data":        map[string]any{},
		},
		"required": []any{"status_code", "status"},
	}
}

func errorResponse(text string) map[string]any {
	return map[string]any{
		"description": text,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/Envelope"},
			},
		},
	}
}
