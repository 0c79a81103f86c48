// Package service implements the interaction logger
package service

import (
	"context"
	"strings"

	"tdsdesk/internal/modkit/repokit"
	perr "tdsdesk/internal/platform/errors"
	"tdsdesk/internal/platform/logger"
	"tdsdesk/internal/services/interactions/domain"
	"tdsdesk/internal/services/interactions/repo"
)

// Config for the interactions service
type Config struct {
	// DefaultLimit is used when List gets limit <= 0; defaults to 50
	DefaultLimit int
	// HardLimit caps List; defaults to 200
	HardLimit int
}

// Service implements the interactions ports
type Service struct {
	DB       repokit.TxRunner
	Binder   repokit.Binder[repo.Storage]
	Analyzer domain.Analyzer
	Cfg      Config
}

var (
	_ domain.RecorderPort = (*Service)(nil)
	_ domain.ReaderPort   = (*Service)(nil)
	_ domain.AnalyzePort  = (*Service)(nil)
)

// New constructs a new interactions service; analyzer may be nil when /analyze is not served
func New(db repokit.TxRunner, b repokit.Binder[repo.Storage], analyzer domain.Analyzer, cfg Config) *Service {
	if db == nil {
		panic("interactions.Service requires a non nil TxRunner")
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 50
	}
	if cfg.HardLimit <= 0 {
		cfg.HardLimit = 200
	}
	return &Service{DB: db, Binder: b, Analyzer: analyzer, Cfg: cfg}
}

// Record implements domain.RecorderPort
// the insert runs in its own short transaction and is durable when Record returns
func (s *Service) Record(ctx context.Context, in domain.NewInteraction) (domain.Interaction, error) {
	if strings.TrimSpace(in.OriginalText) == "" {
		return domain.Interaction{}, perr.InvalidArgf("interaction text is required")
	}
	if strings.TrimSpace(in.Category) == "" {
		return domain.Interaction{}, perr.InvalidArgf("interaction category is required")
	}
	if in.Channel == "" {
		in.Channel = domain.ChannelHTTP
	}
	if !in.Channel.Valid() {
		return domain.Interaction{}, perr.InvalidArgf("unknown channel %q", in.Channel)
	}

	var out domain.Interaction
	err := repokit.InTx(ctx, s.DB, s.Binder, func(st repo.Storage) error {
		var err error
		out, err = st.Insert(ctx, in)
		return err
	})
	if err != nil {
		return domain.Interaction{}, perr.FromPostgres(err, "record interaction")
	}
	logger.C(ctx).Debug().
		Int64("interaction_id", out.ID).
		Str("category", out.Category).
		Str("channel", string(out.Channel)).
		Msg("interaction recorded")
	return out, nil
}

// List implements domain.ReaderPort
func (s *Service) List(ctx context.Context, limit int) ([]domain.Interaction, error) {
	if limit <= 0 {
		limit = s.Cfg.DefaultLimit
	}
	if limit > s.Cfg.HardLimit {
		limit = s.Cfg.HardLimit
	}
	xs, err := s.Binder.Bind(s.DB).List(ctx, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "list interactions")
	}
	if xs == nil {
		xs = []domain.Interaction{}
	}
	return xs, nil
}

// Analyze implements domain.AnalyzePort
// the oracle call happens before and outside the insert transaction
func (s *Service) Analyze(ctx context.Context, text string) (domain.Interaction, error) {
	if s.Analyzer == nil {
		return domain.Interaction{}, perr.Unavailablef("sentiment analysis is not configured")
	}
	raw, err := s.Analyzer.Sentiment(ctx, text)
	if err != nil {
		return domain.Interaction{}, err
	}
	a, err := domain.ParseAnalysis(raw)
	if err != nil {
		logger.C(ctx).Warn().Err(err).Int("raw_len", len(raw)).Msg("analysis output rejected")
		return domain.Interaction{}, err
	}
	return s.Record(ctx, domain.NewInteraction{
		OriginalText: text,
		Category:     domain.CategorySentiment,
		Sentiment:    strings.TrimSpace(a.Sentiment),
		Summary:      a.Summary,
		Answer:       a.Reply,
		Channel:      domain.ChannelAnalyze,
	})
}
