// Package gemini implements oracle.Model on the Gemini API
package gemini

import (
	"context"
	"errors"
	"net"
	"strings"

	"tdsdesk/internal/adapters/oracle"
	perr "tdsdesk/internal/platform/errors"

	"google.golang.org/genai"
)

// DefaultModel is used when Options.Model is empty
const DefaultModel = "gemini-1.5-flash"

// Options configures the Gemini model
type Options struct {
	APIKey string
	Model  string
	// BaseURL overrides the API endpoint, for proxies and tests
	BaseURL string
}

// Model calls Models.GenerateContent
type Model struct {
	client *genai.Client
	model  string
}

var _ oracle.Model = (*Model)(nil)

// New creates a Gemini API client; it does not contact the API
func New(ctx context.Context, opts Options) (*Model, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, perr.Unavailablef("gemini: api key is required")
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	cc := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "gemini: create client")
	}
	return &Model{client: client, model: opts.Model}, nil
}

// Name returns the configured model name
func (m *Model) Name() string { return m.model }

// Generate implements oracle.Model
func (m *Model) Generate(ctx context.Context, prompt string, p oracle.Params) (string, error) {
	temp := p.Temperature
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: p.MaxTokens,
	}
	if p.JSON {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = analysisSchema()
	}

	resp, err := m.client.Models.GenerateContent(ctx, m.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", classify(err)
	}
	return text(resp)
}

// text joins the text parts of the first candidate
func text(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", perr.Unavailablef("gemini: empty response")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), nil
}

// classify marks rate limits, server errors and transport failures as transient
func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return classifyCode(apiErr.Code, err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return classifyCode(apiErrPtr.Code, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return oracle.Transient(err)
	}
	return err
}

func classifyCode(code int, err error) error {
	if code == 429 || code >= 500 {
		return oracle.Transient(err)
	}
	return err
}

func analysisSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"sentimento":           {Type: genai.TypeString, Enum: []string{"Positivo", "Neutro", "Negativo"}},
			"resumo":               {Type: genai.TypeString},
			"sugestao_de_resposta": {Type: genai.TypeString},
		},
		Required: []string{"sentimento", "resumo", "sugestao_de_resposta"},
	}
}
