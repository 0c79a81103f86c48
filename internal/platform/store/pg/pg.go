// Package pg opens a pgx pool and waits for the server to answer
package pg

import (
	"context"
	"time"

	perr "tdsdesk/internal/platform/errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config describes the pool and the readiness loop
type Config struct {
	URL      string
	AppName  string
	MaxConns int32

	// Slow marks queries at or above it as slow; zero disables the mark
	Slow time.Duration

	Attempts    int
	PingTimeout time.Duration
}

// PG owns the pool and the optional query tracer
type PG struct {
	Pool   *pgxpool.Pool
	Tracer QueryTracer
	Slow   time.Duration
}

var (
	newPool = pgxpool.NewWithConfig
	sleep   = func(ctx context.Context, d time.Duration) error {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			return nil
		}
	}
)

// Open builds the pool and pings it with capped exponential backoff
func Open(ctx context.Context, cfg Config, tracer QueryTracer) (*PG, error) {
	pcfg, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}
	pool, err := newPool(ctx, pcfg)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "pg: pool")
	}
	if err := waitReady(ctx, pool.Ping, cfg); err != nil {
		pool.Close()
		return nil, err
	}
	return &PG{Pool: pool, Tracer: tracer, Slow: cfg.Slow}, nil
}

func poolConfig(cfg Config) (*pgxpool.Config, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "pg: dsn")
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if cfg.AppName != "" {
		pcfg.ConnConfig.RuntimeParams["application_name"] = cfg.AppName
	}
	return pcfg, nil
}

// waitReady retries ping until it succeeds, attempts run out or ctx ends
func waitReady(ctx context.Context, ping func(context.Context) error, cfg Config) error {
	attempts := cfg.Attempts
	if attempts <= 0 {
		attempts = 20
	}
	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	delay := 150 * time.Millisecond
	var last error
	for i := 1; ; i++ {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		last = ping(pctx)
		cancel()
		if last == nil {
			return nil
		}
		if i == attempts {
			break
		}
		if err := sleep(ctx, delay); err != nil {
			return perr.Wrap(err, perr.ErrorCodeUnavailable, "pg: ping cancelled")
		}
		delay = min(delay*2, 2*time.Second)
	}
	return perr.Wrapf(last, perr.ErrorCodeUnavailable, "pg: no answer after %d pings", attempts)
}

// Close releases the pool
func (p *PG) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}
