// Package module wires the turn pipeline for the API modules
package module

import (
	"tdsdesk/internal/modkit"
	"tdsdesk/internal/services/assistant/domain"
	"tdsdesk/internal/services/assistant/service"
	idom "tdsdesk/internal/services/interactions/domain"
	pdom "tdsdesk/internal/services/products/domain"
	tdom "tdsdesk/internal/services/turnstats/domain"
)

// Wiring holds the ports the pipeline composes; Sink and Sender may be nil
type Wiring struct {
	Oracle   domain.Oracle
	Replies  domain.Replies
	Matcher  pdom.MatcherPort
	Recorder idom.RecorderPort
	Sink     tdom.SinkPort
	Sender   domain.SenderPort
}

// Ports exposed by the assistant module
type Ports struct {
	Ask     domain.AskPort
	Deliver domain.DeliverPort
}

// New builds the turn pipeline module; CORE_TURNSTATS_EMIT_TIMEOUT bounds each sink write
func New(deps modkit.Deps, w Wiring) modkit.Module {
	svc := service.New(w.Oracle, w.Replies, w.Matcher, w.Recorder)
	svc.EmitTimeout = deps.Cfg.Prefix("CORE_TURNSTATS_").MayDuration("EMIT_TIMEOUT", svc.EmitTimeout)
	if w.Sink != nil {
		svc.WithSink(w.Sink)
	}
	if w.Sender != nil {
		svc.WithSender(w.Sender)
	}
	return modkit.Service("assistant", Ports{Ask: svc, Deliver: svc})
}
