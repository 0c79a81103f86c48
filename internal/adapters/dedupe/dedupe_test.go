package dedupe

import (
	"context"
	"errors"
	"testing"
	"time"

	perr "tdsdesk/internal/platform/errors"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	keys map[string]time.Duration
	err  error
}

func (f *fakeRedis) SetNX(ctx context.Context, key string, _ any, exp time.Duration) *redis.BoolCmd {
	if f.err != nil {
		return redis.NewBoolResult(false, f.err)
	}
	if _, ok := f.keys[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.keys[key] = exp
	return redis.NewBoolResult(true, nil)
}

func TestRedis_First(t *testing.T) {
	t.Parallel()

	f := &fakeRedis{keys: map[string]time.Duration{}}
	g := newRedis(f, "", 0)
	ctx := context.Background()

	first, err := g.First(ctx, "wamid.A")
	require.NoError(t, err)
	require.True(t, first)

	again, err := g.First(ctx, "wamid.A")
	require.NoError(t, err)
	require.False(t, again)

	require.Equal(t, DefaultTTL, f.keys["tdsdesk:wamid:wamid.A"])
}

func TestRedis_Error(t *testing.T) {
	t.Parallel()

	g := newRedis(&fakeRedis{err: errors.New("connection refused")}, "p:", time.Minute)
	_, err := g.First(context.Background(), "k")
	require.True(t, perr.IsCode(err, perr.ErrorCodeUnavailable))
}

func TestNoop(t *testing.T) {
	t.Parallel()

	for i := 0; i < 2; i++ {
		ok, err := Noop{}.First(context.Background(), "same")
		require.NoError(t, err)
		require.True(t, ok)
	}
}
