// Package service implements the turn stats sink and reader
package service

import (
	"context"
	"sync"
	"time"

	perr "tdsdesk/internal/platform/errors"
	"tdsdesk/internal/services/turnstats/domain"
	"tdsdesk/internal/services/turnstats/repo"
)

// Config for the turn stats service
type Config struct {
	// DefaultHours is the Summary window when hours <= 0; defaults to 24
	DefaultHours int
	// MaxHours caps the Summary window; defaults to 720
	MaxHours int
	// Now is the clock, time.Now when nil
	Now func() time.Time
}

// Service appends turn events and aggregates them
// a nil Storage means the sink is disabled
type Service struct {
	Storage repo.Storage
	Cfg     Config

	mu    sync.Mutex
	ready bool
}

var (
	_ domain.SinkPort   = (*Service)(nil)
	_ domain.ReaderPort = (*Service)(nil)
)

// New constructs the service; storage may be nil
func New(storage repo.Storage, cfg Config) *Service {
	if cfg.DefaultHours <= 0 {
		cfg.DefaultHours = 24
	}
	if cfg.MaxHours <= 0 {
		cfg.MaxHours = 720
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Service{Storage: storage, Cfg: cfg}
}

// Enabled reports whether events are stored
func (s *Service) Enabled() bool { return s != nil && s.Storage != nil }

// Emit implements domain.SinkPort; it is a no-op when disabled
func (s *Service) Emit(ctx context.Context, ev domain.TurnEvent) error {
	if !s.Enabled() {
		return nil
	}
	if ev.At.IsZero() {
		ev.At = s.Cfg.Now()
	}
	if err := s.ensure(ctx); err != nil {
		return err
	}
	if err := s.Storage.Insert(ctx, []domain.TurnEvent{ev}); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "emit turn event")
	}
	return nil
}

// Summary implements domain.ReaderPort
func (s *Service) Summary(ctx context.Context, hours int) (domain.Summary, error) {
	if !s.Enabled() {
		return domain.Summary{}, perr.Unavailablef("turn stats are disabled")
	}
	if hours <= 0 {
		hours = s.Cfg.DefaultHours
	}
	if hours > s.Cfg.MaxHours {
		hours = s.Cfg.MaxHours
	}
	if err := s.ensure(ctx); err != nil {
		return domain.Summary{}, err
	}

	since := s.Cfg.Now().UTC().Add(-time.Duration(hours) * time.Hour)
	bs, err := s.Storage.Aggregate(ctx, since)
	if err != nil {
		return domain.Summary{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "aggregate turn events")
	}
	if bs == nil {
		bs = []domain.Bucket{}
	}
	out := domain.Summary{Hours: hours, Since: since, Buckets: bs}
	for _, b := range bs {
		out.Total += b.Turns
	}
	return out, nil
}

// ensure creates the table once; a failed attempt is retried on the next call
func (s *Service) ensure(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		return nil
	}
	if err := s.Storage.EnsureTable(ctx); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "create turn_events")
	}
	s.ready = true
	return nil
}
