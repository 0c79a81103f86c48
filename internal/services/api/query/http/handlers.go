// Package http provides the product question endpoint
package http

import (
	stdhttp "net/http"

	"tdsdesk/internal/modkit/httpkit"
	adom "tdsdesk/internal/services/assistant/domain"
	idom "tdsdesk/internal/services/interactions/domain"
)

// Register mounts the query route
func Register(r httpkit.Router, ask adom.AskPort) {
	h := &handlers{ask: ask}
	httpkit.PostJSON[QueryRequest](r, "/", h.query)
}

type handlers struct{ ask adom.AskPort }

//
// Swagger DTOs and route docs
//

// QueryRequest is a free text customer question
type QueryRequest struct {
	Question string `json:"question" validate:"required,notblank,max=4000" example:"vocês têm filtro de óleo?"`
}

// QueryResponse is the answer of one turn, written without the envelope
type QueryResponse struct {
	Answer string `json:"answer" example:"Temos 3 unidades do FILTRO DE ÓLEO MOTOR em estoque."`
}

// swagger:route POST /query Query query
// @Summary Answer a stock question about one product
// @Tags Query
// @Accept json
// @Produce json
// @Param payload body QueryRequest true "Question"
// @Success 200 {object} QueryResponse "ok"
// @Failure 400 {object} httpkit.Envelope "invalid body"
// @Failure 503 {object} httpkit.Envelope "oracle unavailable"
// @Router /query [post]
func (h *handlers) query(r *stdhttp.Request, in QueryRequest) (any, error) {
	res, err := h.ask.Ask(r.Context(), adom.Turn{Question: in.Question, Channel: idom.ChannelHTTP})
	if err != nil {
		return nil, err
	}
	return httpkit.Raw(stdhttp.StatusOK, QueryResponse{Answer: res.Answer}), nil
}
