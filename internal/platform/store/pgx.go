package store

import (
	"context"
	"time"

	"tdsdesk/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgxConn is what a pool and a transaction have in common
type pgxConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// traced runs statements on conn and reports each one to tracer
type traced struct {
	conn   pgxConn
	tracer pg.QueryTracer
	slow   time.Duration
}

func (q traced) report(ctx context.Context, sql string, args []any, start time.Time, err error) {
	if q.tracer == nil {
		return
	}
	d := time.Since(start)
	q.tracer.OnQuery(ctx, pg.QueryEvent{
		SQL:     sql,
		Args:    args,
		Elapsed: d,
		Err:     err,
		Slow:    q.slow > 0 && d >= q.slow,
	})
}

func (q traced) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	start := time.Now()
	ct, err := q.conn.Exec(ctx, sql, args...)
	q.report(ctx, sql, args, start, err)
	return ct, err
}

func (q traced) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := q.conn.Query(ctx, sql, args...)
	q.report(ctx, sql, args, start, err)
	if err != nil {
		return nil, err
	}
	return pgxRows{rs}, nil
}

// QueryRow reports once Scan returns so the scan error is traced
func (q traced) QueryRow(ctx context.Context, sql string, args ...any) Row {
	start := time.Now()
	return scanHook{row: q.conn.QueryRow(ctx, sql, args...), done: func(err error) {
		q.report(ctx, sql, args, start, err)
	}}
}

type scanHook struct {
	row  pgx.Row
	done func(error)
}

func (s scanHook) Scan(dst ...any) error {
	err := s.row.Scan(dst...)
	s.done(err)
	return err
}

type pgxRows struct{ pgx.Rows }

func (r pgxRows) Columns() []string {
	fds := r.FieldDescriptions()
	out := make([]string, len(fds))
	for i, fd := range fds {
		out[i] = fd.Name
	}
	return out
}

// pgStore is the TxRunner backed by a pgx pool
type pgStore struct {
	traced
	db *pg.PG
}

func newPGStore(db *pg.PG) *pgStore {
	return &pgStore{traced: traced{conn: db.Pool, tracer: db.Tracer, slow: db.Slow}, db: db}
}

// Tx commits when fn returns nil and rolls back otherwise
func (s *pgStore) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(traced{conn: tx, tracer: s.tracer, slow: s.slow}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

func (s *pgStore) Ping(ctx context.Context) error { return s.db.Pool.Ping(ctx) }

func (s *pgStore) Close() error {
	s.db.Close()
	return nil
}
