package store

import (
	"context"
	"time"

	perr "tdsdesk/internal/platform/errors"
	"tdsdesk/internal/platform/store/ch"
	"tdsdesk/internal/platform/store/pg"

	"github.com/redis/go-redis/v9"
)

func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(s.Log)
	}
	db, err := pg.Open(ctx, pg.Config{
		URL:         cfg.PG.URL,
		AppName:     cfg.AppName,
		MaxConns:    cfg.PG.MaxConns,
		Slow:        time.Duration(cfg.PG.SlowQueryMs) * time.Millisecond,
		Attempts:    cfg.PG.ConnectRetries,
		PingTimeout: cfg.PG.PingTimeout,
	}, tracer)
	if err != nil {
		return nil, err
	}
	return newPGStore(db), nil
}

func openCH(ctx context.Context, cfg Config, _ *Store) (Clickhouse, error) {
	role := cfg.CH.ClientName
	if role == "" {
		role = cfg.AppName
	}
	c, err := ch.Open(ctx, ch.Config{URL: cfg.CH.URL, ClientRole: role, ClientTag: cfg.CH.ClientTag})
	if err != nil {
		return nil, err
	}
	return chStore{c}, nil
}

func openRedis(ctx context.Context, cfg Config, _ *Store) (*redis.Client, error) {
	if cfg.RDS.Addr == "" {
		return nil, perr.InvalidArgf("redis: addr is required when enabled")
	}
	c := redis.NewClient(&redis.Options{
		Addr:       cfg.RDS.Addr,
		Password:   cfg.RDS.Password,
		DB:         cfg.RDS.DB,
		ClientName: cfg.AppName,
	})
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := c.Ping(pctx).Err(); err != nil {
		_ = c.Close()
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "redis ping")
	}
	return c, nil
}
