// Package http provides the messaging webhook endpoints
package http

import (
	stdctx "context"
	"crypto/subtle"
	"io"
	stdhttp "net/http"
	"strconv"
	"strings"

	"tdsdesk/internal/adapters/messaging/whatsapp"
	"tdsdesk/internal/modkit/httpkit"
	perr "tdsdesk/internal/platform/errors"
	"tdsdesk/internal/platform/logger"
	"tdsdesk/internal/services/api/webhook/service"
)

// Handler processes parsed deliveries
type Handler interface {
	Handle(ctx stdctx.Context, in whatsapp.Inbound) []service.Outcome
}

// Options for the webhook routes
type Options struct {
	VerifyToken string
	MaxBody     int64
}

// Register mounts the verification and delivery routes
func Register(r httpkit.Router, svc Handler, o Options) {
	if o.MaxBody <= 0 {
		o.MaxBody = 1 << 20
	}
	h := &handlers{svc: svc, opts: o}
	httpkit.Get(r, "/", h.verify)
	r.Post("/", httpkit.Handle(h.receive))
}

type handlers struct {
	svc  Handler
	opts Options
}

// Ack is the body of every delivery response
type Ack struct {
	Received bool `json:"received" example:"true"`
}

// swagger:route GET /webhook Webhook webhookVerify
// @Summary Subscription handshake, echoes hub.challenge
// @Tags Webhook
// @Produce json
// @Param hub.mode query string false "subscribe"
// @Param hub.verify_token query string true "shared verify token"
// @Param hub.challenge query int true "challenge to echo"
// @Success 200 {integer} int "challenge"
// @Failure 403 {object} httpkit.Envelope "token mismatch"
// @Router /webhook [get]
func (h *handlers) verify(r *stdhttp.Request) (any, error) {
	q := r.URL.Query()
	want := h.opts.VerifyToken
	got := q.Get("hub.verify_token")
	if want == "" || subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
		return nil, perr.Forbiddenf("verify token mismatch")
	}
	n, err := strconv.ParseInt(strings.TrimSpace(q.Get("hub.challenge")), 10, 64)
	if err != nil {
		return nil, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "hub.challenge must be an integer"), "hub.challenge")
	}
	return httpkit.Raw(stdhttp.StatusOK, n), nil
}

// swagger:route POST /webhook Webhook webhookReceive
// @Summary Inbound messages; always acknowledged
// @Tags Webhook
// @Accept json
// @Produce json
// @Success 200 {object} Ack "received"
// @Router /webhook [post]
func (h *handlers) receive(r *stdhttp.Request) (resp httpkit.Response) {
	ack := httpkit.Raw(stdhttp.StatusOK, Ack{Received: true})
	log := logger.C(r.Context())
	defer func() {
		if p := recover(); p != nil {
			log.Error().Interface("panic", p).Msg("webhook turn panicked")
			resp = ack
		}
	}()

	b, err := io.ReadAll(io.LimitReader(r.Body, h.opts.MaxBody))
	if err != nil {
		log.Warn().Err(err).Msg("webhook body unreadable")
		return ack
	}
	in, err := whatsapp.Parse(b)
	if err != nil {
		log.Warn().Err(err).Strs("keys", whatsapp.TopKeys(b)).Int("bytes", len(b)).Msg("webhook payload ignored")
		return ack
	}
	h.svc.Handle(r.Context(), in)
	return ack
}
