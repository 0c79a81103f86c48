// Package http provides the interaction log endpoints
package http

import (
	stdhttp "net/http"

	"tdsdesk/internal/modkit/httpkit"
	idom "tdsdesk/internal/services/interactions/domain"
)

// Register mounts the analyze and listing routes
func Register(r httpkit.Router, analyze idom.AnalyzePort, reader idom.ReaderPort) {
	h := &handlers{analyze: analyze, reader: reader}
	httpkit.PostJSON[AnalyzeRequest](r, "/analyze", h.analyzeText)
	httpkit.Get(r, "/interactions", h.list)
}

type handlers struct {
	analyze idom.AnalyzePort
	reader  idom.ReaderPort
}

// AnalyzeRequest is a customer feedback text
type AnalyzeRequest struct {
	Text string `json:"text" validate:"required,notblank,max=4000" example:"A entrega atrasou mas o atendimento foi ótimo"`
}

// swagger:route POST /analyze Interactions analyze
// @Summary Analyze customer feedback and log it
// @Tags Interactions
// @Accept json
// @Produce json
// @Param payload body AnalyzeRequest true "Feedback"
// @Success 200 {object} idom.Interaction "ok"
// @Failure 400 {object} httpkit.Envelope "invalid body"
// @Failure 503 {object} httpkit.Envelope "oracle unavailable"
// @Router /analyze [post]
func (h *handlers) analyzeText(r *stdhttp.Request, in AnalyzeRequest) (any, error) {
	it, err := h.analyze.Analyze(r.Context(), in.Text)
	if err != nil {
		return nil, err
	}
	return httpkit.Raw(stdhttp.StatusOK, it), nil
}

// swagger:route GET /interactions Interactions interactionsList
// @Summary Latest interactions, newest first
// @Tags Interactions
// @Produce json
// @Param limit query int false "max rows (default 50, max 200)"
// @Success 200 {array} idom.Interaction "ok"
// @Failure 400 {object} httpkit.Envelope "bad limit"
// @Router /interactions [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	limit, err := httpkit.QueryInt(r, "limit")
	if err != nil {
		return nil, err
	}
	xs, err := h.reader.List(r.Context(), limit)
	if err != nil {
		return nil, err
	}
	if xs == nil {
		xs = []idom.Interaction{}
	}
	return httpkit.Raw(stdhttp.StatusOK, xs), nil
}
