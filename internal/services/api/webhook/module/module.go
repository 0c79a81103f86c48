// Package module wires the messaging webhook into the API
package module

import (
	"time"

	"tdsdesk/internal/adapters/dedupe"
	"tdsdesk/internal/modkit"
	"tdsdesk/internal/modkit/httpkit"
	adom "tdsdesk/internal/services/assistant/domain"
	cdom "tdsdesk/internal/services/conversations/domain"

	whttp "tdsdesk/internal/services/api/webhook/http"
	wsvc "tdsdesk/internal/services/api/webhook/service"
)

// Ports declares the injected ports this module needs; Dedupe may be nil
type Ports struct {
	Threads cdom.ThreadPort
	Ask     adom.AskPort
	Deliver adom.DeliverPort
	Dedupe  dedupe.Guard
}

// New builds the module under /webhook
// it reads WHATSAPP_VERIFY_TOKEN, WEBHOOK_TURN_TIMEOUT and WEBHOOK_MAX_BODY
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	spec := modkit.Build(append([]modkit.Option{
		modkit.WithName("webhook"),
		modkit.WithPrefix("/webhook"),
	}, opts...)...)
	in, _ := spec.Ports.(Ports)

	w := deps.Cfg.Prefix("WEBHOOK_")
	token := deps.Cfg.Prefix("WHATSAPP_").MayString("VERIFY_TOKEN", "")
	if token == "" {
		deps.Log.Warn().Msg("WHATSAPP_VERIFY_TOKEN is not set, webhook verification will be refused")
	}

	// the turn must finish before the request timeout answers the provider
	maxTurn := httpkit.RequestTimeout - 5*time.Second
	turn := w.MayDuration("TURN_TIMEOUT", maxTurn)
	if turn > maxTurn {
		deps.Log.Warn().Dur("turn_timeout", turn).Dur("capped_to", maxTurn).Msg("WEBHOOK_TURN_TIMEOUT exceeds the request timeout")
	}
	svc := wsvc.New(in.Threads, in.Ask, in.Deliver, in.Dedupe, wsvc.Config{TurnTimeout: turn, MaxTurn: maxTurn})
	hopts := whttp.Options{VerifyToken: token, MaxBody: int64(w.MayInt("MAX_BODY", 1<<20))}
	return spec.Module(in, func(r httpkit.Router) { whttp.Register(r, svc, hopts) })
}
