// Package repo stores turn events in ClickHouse
package repo

import (
	"context"
	"time"

	"tdsdesk/internal/platform/store"
	"tdsdesk/internal/services/turnstats/domain"
)

// Table is the append only event table
const Table = "turn_events"

const ddl = `
	CREATE TABLE IF NOT EXISTS turn_events (
		turn_id    UUID,
		at         DateTime64(3, 'UTC'),
		channel    LowCardinality(String),
		category   LowCardinality(String),
		identifier String,
		matched    Bool,
		product_id Nullable(Int64),
		degraded   Bool,
		extract_ms UInt32,
		compose_ms UInt32
	)
	ENGINE = MergeTree
	PARTITION BY toYYYYMM(at)
	ORDER BY (at, turn_id)`

// Storage is the turn event store
type Storage interface {
	EnsureTable(ctx context.Context) error
	Insert(ctx context.Context, evs []domain.TurnEvent) error
	Aggregate(ctx context.Context, since time.Time) ([]domain.Bucket, error)
}

// NewCH returns a Storage over the clickhouse seam
func NewCH(ch store.Clickhouse) Storage { return &chStore{ch: ch} }

type chStore struct{ ch store.Clickhouse }

// EnsureTable creates the event table when missing
func (s *chStore) EnsureTable(ctx context.Context) error {
	return s.ch.Exec(ctx, ddl)
}

// Insert appends events in column order
func (s *chStore) Insert(ctx context.Context, evs []domain.TurnEvent) error {
	rows := make([][]any, 0, len(evs))
	for _, e := range evs {
		rows = append(rows, Row(e))
	}
	return s.ch.Insert(ctx, Table, rows)
}

// Aggregate counts turns since the given instant by category and channel
func (s *chStore) Aggregate(ctx context.Context, since time.Time) ([]domain.Bucket, error) {
	rows, err := s.ch.Query(ctx, `
		SELECT category, channel,
		       toUInt64(count())          AS turns,
		       toUInt64(countIf(matched))  AS matched,
		       toUInt64(countIf(degraded)) AS degraded
		FROM turn_events
		WHERE at >= ?
		GROUP BY category, channel
		ORDER BY category, channel`,
		since.UTC(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Bucket{}
	for rows.Next() {
		var b domain.Bucket
		if err := rows.Scan(&b.Category, &b.Channel, &b.Turns, &b.Matched, &b.Degraded); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Row maps an event to the column order of turn_events
func Row(e domain.TurnEvent) []any {
	return []any{
		e.TurnID,
		e.At.UTC(),
		e.Channel,
		e.Category,
		e.Identifier,
		e.Matched,
		e.ProductID,
		e.Degraded,
		millis(e.Extract),
		millis(e.Compose),
	}
}

func millis(d time.Duration) uint32 {
	if d <= 0 {
		return 0
	}
	ms := d.Milliseconds()
	if ms > int64(^uint32(0)) {
		return ^uint32(0)
	}
	return uint32(ms)
}
