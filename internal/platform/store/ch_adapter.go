package store

import (
	"context"

	perr "tdsdesk/internal/platform/errors"
	"tdsdesk/internal/platform/store/ch"
)

// chStore exposes *ch.CH as the Clickhouse seam
type chStore struct{ c *ch.CH }

func (s chStore) Insert(ctx context.Context, table string, data any) error {
	rows, ok := data.([][]any)
	if !ok {
		return perr.InvalidArgf("clickhouse: insert wants [][]any, got %T", data)
	}
	return s.c.Insert(ctx, table, rows)
}

func (s chStore) Exec(ctx context.Context, sql string, args ...any) error {
	return s.c.Exec(ctx, sql, args...)
}

func (s chStore) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	r, err := s.c.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return chRows{r}, nil
}

func (s chStore) Ping(ctx context.Context) error { return s.c.Ping(ctx) }
func (s chStore) Close() error                   { return s.c.Close() }

type chRows struct{ ch.Rows }

func (r chRows) Close() { _ = r.Rows.Close() }
