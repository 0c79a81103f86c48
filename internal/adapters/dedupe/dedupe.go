// Package dedupe drops redelivered webhook messages
package dedupe

import (
	"context"
	"time"

	perr "tdsdesk/internal/platform/errors"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long a message id is remembered
const DefaultTTL = 24 * time.Hour

// Guard reports whether a key is seen for the first time
type Guard interface {
	First(ctx context.Context, key string) (bool, error)
}

// setNXer is the slice of the redis client the guard needs
type setNXer interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
}

// Redis remembers keys with SETNX and a TTL
type Redis struct {
	c      setNXer
	prefix string
	ttl    time.Duration
}

// NewRedis builds a guard over client; keys are stored as prefix+key
func NewRedis(client *redis.Client, prefix string, ttl time.Duration) *Redis {
	return newRedis(client, prefix, ttl)
}

func newRedis(c setNXer, prefix string, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if prefix == "" {
		prefix = "tdsdesk:wamid:"
	}
	return &Redis{c: c, prefix: prefix, ttl: ttl}
}

// First implements Guard
func (r *Redis) First(ctx context.Context, key string) (bool, error) {
	ok, err := r.c.SetNX(ctx, r.prefix+key, 1, r.ttl).Result()
	if err != nil {
		return false, perr.Wrap(err, perr.ErrorCodeUnavailable, "dedupe setnx")
	}
	return ok, nil
}

// Noop treats every key as new
type Noop struct{}

// First implements Guard
func (Noop) First(context.Context, string) (bool, error) { return true, nil }
