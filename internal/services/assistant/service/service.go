// Package service implements the turn pipeline of the sales assistant
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	perr "tdsdesk/internal/platform/errors"
	"tdsdesk/internal/platform/logger"
	"tdsdesk/internal/services/assistant/domain"
	idom "tdsdesk/internal/services/interactions/domain"
	pdom "tdsdesk/internal/services/products/domain"
	tdom "tdsdesk/internal/services/turnstats/domain"

	"github.com/google/uuid"
)

// Service runs turns: extract, match, compose, record, emit
type Service struct {
	Oracle   domain.Oracle
	Replies  domain.Replies
	Matcher  pdom.MatcherPort
	Recorder idom.RecorderPort
	// Sink is optional
	Sink tdom.SinkPort
	// Sender is optional and only used by Deliver
	Sender domain.SenderPort
	// EmitTimeout bounds one sink write; defaults to 2s
	EmitTimeout time.Duration

	now func() time.Time
}

var (
	_ domain.AskPort     = (*Service)(nil)
	_ domain.DeliverPort = (*Service)(nil)
)

// New constructs the pipeline; oracle, replies, matcher and recorder are required
func New(oracle domain.Oracle, replies domain.Replies, matcher pdom.MatcherPort, recorder idom.RecorderPort) *Service {
	if oracle == nil || replies == nil || matcher == nil || recorder == nil {
		panic("assistant.Service requires oracle, replies, matcher and recorder")
	}
	return &Service{
		Oracle: oracle, Replies: replies, Matcher: matcher, Recorder: recorder,
		EmitTimeout: 2 * time.Second,
		now:         time.Now,
	}
}

// WithSink sets the turn event sink
func (s *Service) WithSink(sink tdom.SinkPort) *Service { s.Sink = sink; return s }

// WithSender sets the messaging sender used by Deliver
func (s *Service) WithSender(sender domain.SenderPort) *Service { s.Sender = sender; return s }

// Ask implements domain.AskPort
// exactly one interaction is recorded for every turn that gets past extraction
func (s *Service) Ask(ctx context.Context, t domain.Turn) (domain.Result, error) {
	q := strings.TrimSpace(t.Question)
	if q == "" {
		return domain.Result{}, perr.InvalidArgf("question is required")
	}
	if t.Channel == "" {
		t.Channel = idom.ChannelHTTP
	}

	res := domain.Result{TurnID: uuid.New()}
	log := logger.C(ctx).With().
		Str("turn_id", res.TurnID.String()).
		Str("channel", string(t.Channel)).
		Logger()
	started := s.now()

	id, err := s.Oracle.ExtractIdentifier(ctx, q)
	extractTook := s.now().Sub(started)
	if err != nil {
		log.Warn().Err(err).Dur("took", extractTook).Msg("extraction failed")
		if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
			err = perr.Wrap(err, perr.ErrorCodeUnavailable, "extract identifier")
		}
		return domain.Result{}, err
	}
	res.Identifier = id

	in := idom.NewInteraction{OriginalText: q, Channel: t.Channel}
	var composeTook time.Duration

	if id == s.Replies.Sentinel() {
		res.Answer = s.Replies.Greeting()
		in.Category = idom.CategoryGreeting
		in.Summary = idom.SummaryGreeting
	} else {
		in.Category = idom.CategoryProductQuery
		p, ok, err := s.Matcher.Match(ctx, id)
		if err != nil {
			log.Error().Err(err).Str("identifier", id).Msg("product lookup failed")
			return domain.Result{}, err
		}
		if !ok {
			res.Answer = s.Replies.NotFound(id)
			in.Summary = idom.ProductSummary(id, "", false, false)
		} else {
			cs := s.now()
			res.Answer, res.Degraded = s.compose(ctx, &log, p)
			composeTook = s.now().Sub(cs)
			res.Product = &p
			in.Summary = idom.ProductSummary(id, p.Code, true, res.Degraded)
		}
	}
	in.Answer = res.Answer

	rec, err := s.Recorder.Record(ctx, in)
	if err != nil {
		log.Error().Err(err).Msg("interaction not recorded")
		return domain.Result{}, err
	}
	res.Interaction = rec

	s.emit(ctx, &log, t, res, extractTook, composeTook)

	log.Info().
		Str("identifier", res.Identifier).
		Str("category", in.Category).
		Bool("matched", res.Matched()).
		Bool("degraded", res.Degraded).
		Int64("interaction_id", rec.ID).
		Dur("took", s.now().Sub(started)).
		Msg("turn answered")
	return res, nil
}

// emit sends the turn event; failures are logged and dropped
func (s *Service) emit(ctx context.Context, log *logger.Logger, t domain.Turn, r domain.Result, extract, compose time.Duration) {
	if s.Sink == nil {
		return
	}
	ev := tdom.TurnEvent{
		TurnID:     r.TurnID,
		At:         s.now(),
		Channel:    string(t.Channel),
		Category:   r.Interaction.Category,
		Identifier: r.Identifier,
		Matched:    r.Matched(),
		Degraded:   r.Degraded,
		Extract:    extract,
		Compose:    compose,
	}
	if r.Product != nil {
		pid := r.Product.ID
		ev.ProductID = &pid
	}
	timeout := s.EmitTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ectx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := s.Sink.Emit(ectx, ev); err != nil {
		log.Warn().Err(err).Msg("turn event dropped")
	}
}

// Deliver implements domain.DeliverPort
// the error is returned so the caller can mark the message, it is never retried
func (s *Service) Deliver(ctx context.Context, to string, r domain.Result) error {
	if s.Sender == nil {
		return domain.ErrDeliveryDisabled
	}
	err := s.Sender.SendText(ctx, to, r.Answer)
	if errors.Is(err, domain.ErrDeliveryDisabled) {
		return err
	}
	if err != nil {
		logger.C(ctx).Error().Err(err).
			Str("turn_id", r.TurnID.String()).
			Str("to", to).
			Msg("delivery failed")
		return err
	}
	return nil
}
