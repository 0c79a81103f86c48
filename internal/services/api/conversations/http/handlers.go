// Package http provides read endpoints over messaging conversations
package http

import (
	stdhttp "net/http"
	"strconv"

	"tdsdesk/internal/modkit/httpkit"
	perr "tdsdesk/internal/platform/errors"
	"tdsdesk/internal/platform/net/http/bind"
	cdom "tdsdesk/internal/services/conversations/domain"
)

// Register mounts the conversation routes
func Register(r httpkit.Router, reader cdom.ReaderPort) {
	h := &handlers{reader: reader}
	httpkit.Get(r, "/", h.list)
	httpkit.Get(r, "/{id}", h.get)
}

type handlers struct{ reader cdom.ReaderPort }

// swagger:route GET /conversations Conversations conversationsList
// @Summary Conversations, most recently updated first
// @Tags Conversations
// @Produce json
// @Param status query string false "aberta or fechada"
// @Param limit query int false "max rows (default 50, max 200)"
// @Success 200 {array} cdom.Conversation "ok"
// @Failure 400 {object} httpkit.Envelope "invalid filter"
// @Router /conversations [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	limit, err := httpkit.QueryInt(r, "limit")
	if err != nil {
		return nil, err
	}
	in := cdom.ListInput{Status: r.URL.Query().Get("status"), Limit: limit}
	if err := bind.Validate(in); err != nil {
		return nil, err
	}
	return h.reader.List(r.Context(), in)
}

// swagger:route GET /conversations/{id} Conversations conversationsGet
// @Summary One conversation with its messages, oldest first
// @Tags Conversations
// @Produce json
// @Param id path int true "conversation id"
// @Success 200 {object} cdom.Thread "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /conversations/{id} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	id, err := strconv.ParseInt(httpkit.Param(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return nil, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "id must be a positive integer"), "id")
	}
	return h.reader.Get(r.Context(), id)
}
