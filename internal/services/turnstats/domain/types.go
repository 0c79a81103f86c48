// Package domain defines turn events and their aggregates
package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TurnEvent is one answered turn as appended to the stats table
type TurnEvent struct {
	TurnID     uuid.UUID
	At         time.Time
	Channel    string
	Category   string
	Identifier string
	Matched    bool
	ProductID  *int64
	Degraded   bool
	Extract    time.Duration
	Compose    time.Duration
}

// Bucket counts turns for one category and channel
type Bucket struct {
	Category string `json:"category"`
	Channel  string `json:"channel"`
	Turns    uint64 `json:"turns"`
	Matched  uint64 `json:"matched"`
	Degraded uint64 `json:"degraded"`
}

// Summary aggregates the turns of a trailing window
type Summary struct {
	Hours   int       `json:"hours"`
	Since   time.Time `json:"since"`
	Total   uint64    `json:"total"`
	Buckets []Bucket  `json:"buckets"`
}

// SinkPort receives turn events; implementations are best effort
type SinkPort interface {
	Emit(ctx context.Context, ev TurnEvent) error
}

// ReaderPort reads aggregates back
type ReaderPort interface {
	Summary(ctx context.Context, hours int) (Summary, error)
}
