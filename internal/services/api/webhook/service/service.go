// Package service runs messaging turns for webhook deliveries
package service

import (
	"context"
	"errors"
	"time"

	"tdsdesk/internal/adapters/dedupe"
	"tdsdesk/internal/adapters/messaging/whatsapp"
	"tdsdesk/internal/platform/logger"
	adom "tdsdesk/internal/services/assistant/domain"
	cdom "tdsdesk/internal/services/conversations/domain"
	idom "tdsdesk/internal/services/interactions/domain"
)

// Config for the webhook service
type Config struct {
	// TurnTimeout bounds one message end to end; defaults to 25s
	TurnTimeout time.Duration
	// MaxTurn caps TurnTimeout when set, the HTTP request timeout minus headroom
	MaxTurn time.Duration
}

// Service answers inbound texts: dedupe, thread, ask, store, push
type Service struct {
	Threads cdom.ThreadPort
	Ask     adom.AskPort
	Deliver adom.DeliverPort
	Dedupe  dedupe.Guard
	Cfg     Config
}

// New constructs the service; a nil guard disables redelivery checks before storage
func New(threads cdom.ThreadPort, ask adom.AskPort, deliver adom.DeliverPort, guard dedupe.Guard, cfg Config) *Service {
	if threads == nil || ask == nil || deliver == nil {
		panic("webhook.Service requires threads, ask and deliver ports")
	}
	if guard == nil {
		guard = dedupe.Noop{}
	}
	if cfg.TurnTimeout <= 0 {
		cfg.TurnTimeout = 25 * time.Second
	}
	if cfg.MaxTurn > 0 && cfg.TurnTimeout > cfg.MaxTurn {
		cfg.TurnTimeout = cfg.MaxTurn
	}
	return &Service{Threads: threads, Ask: ask, Deliver: deliver, Dedupe: guard, Cfg: cfg}
}

// Outcome tells what happened to one inbound text
type Outcome string

// Outcomes
const (
	OutcomeAnswered    Outcome = "answered"
	OutcomeDuplicate   Outcome = "duplicate"
	OutcomeFailed      Outcome = "failed"
	OutcomeUndelivered Outcome = "undelivered"
	OutcomeNotPushed   Outcome = "not_pushed"
)

// Handle processes every text of a delivery in order
// the work is detached from ctx cancellation so a dropped connection does not abort a turn
func (s *Service) Handle(ctx context.Context, in whatsapp.Inbound) []Outcome {
	log := logger.C(ctx)
	for _, sk := range in.Skipped {
		log.Info().Str("wamid", sk.ID).Str("type", sk.Type).Msg("non-text message ignored")
	}
	if len(in.Texts) == 0 {
		if in.Statuses > 0 {
			log.Debug().Int("statuses", in.Statuses).Msg("status callback ignored")
		}
		return nil
	}

	base := context.WithoutCancel(ctx)
	out := make([]Outcome, 0, len(in.Texts))
	for _, m := range in.Texts {
		out = append(out, s.turn(base, m))
	}
	return out
}

func (s *Service) turn(base context.Context, m whatsapp.TextMessage) Outcome {
	ctx, cancel := context.WithTimeout(base, s.Cfg.TurnTimeout)
	defer cancel()
	log := logger.C(ctx).With().Str("wamid", m.ID).Str("from", m.From).Logger()

	first, err := s.Dedupe.First(ctx, m.ID)
	if err != nil {
		// the unique external_id still catches a redelivery
		log.Warn().Err(err).Msg("dedupe guard unavailable")
		first = true
	}
	if !first {
		log.Debug().Msg("redelivery dropped")
		return OutcomeDuplicate
	}

	conv, err := s.Threads.Open(ctx, m.From)
	if err != nil {
		log.Error().Err(err).Msg("open conversation failed")
		return OutcomeFailed
	}
	if _, dup, err := s.Threads.AddInbound(ctx, conv.ID, m.Body, m.ID); err != nil {
		log.Error().Err(err).Int64("conversation_id", conv.ID).Msg("store inbound failed")
		return OutcomeFailed
	} else if dup {
		log.Debug().Msg("redelivery dropped by external id")
		return OutcomeDuplicate
	}

	res, err := s.Ask.Ask(ctx, adom.Turn{Question: m.Body, Channel: idom.ChannelWhatsApp})
	if err != nil {
		log.Error().Err(err).Int64("conversation_id", conv.ID).Msg("turn failed, nothing pushed")
		return OutcomeFailed
	}

	msg, err := s.Threads.AddOutbound(ctx, conv.ID, res.Answer)
	if err != nil {
		log.Error().Err(err).Str("turn_id", res.TurnID.String()).Msg("store outbound failed")
	}

	status, outcome := cdom.DeliverySent, OutcomeAnswered
	switch err := s.Deliver.Deliver(ctx, m.From, res); {
	case errors.Is(err, adom.ErrDeliveryDisabled):
		status, outcome = cdom.DeliverySkipped, OutcomeNotPushed
	case err != nil:
		status, outcome = cdom.DeliveryFailed, OutcomeUndelivered
	}
	if msg.ID != 0 {
		if err := s.Threads.SetDelivery(ctx, msg.ID, status); err != nil {
			log.Error().Err(err).Int64("message_id", msg.ID).Msg("update delivery status failed")
		}
	}
	return outcome
}
