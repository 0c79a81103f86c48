package pg

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	perr "tdsdesk/internal/platform/errors"

	"github.com/rs/zerolog"
)

func TestPoolConfig(t *testing.T) {
	t.Parallel()

	c, err := poolConfig(Config{URL: "postgres://u:p@localhost:5432/db", MaxConns: 7, AppName: "tdsdesk-api"})
	if err != nil {
		t.Fatalf("poolConfig: %v", err)
	}
	if c.MaxConns != 7 {
		t.Fatalf("MaxConns = %d", c.MaxConns)
	}
	if got := c.ConnConfig.RuntimeParams["application_name"]; got != "tdsdesk-api" {
		t.Fatalf("application_name = %q", got)
	}

	if _, err := poolConfig(Config{URL: "://bad"}); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("bad dsn err = %v", err)
	}
}

func TestOpen_BadDSN(t *testing.T) {
	t.Parallel()
	if _, err := Open(context.Background(), Config{URL: "://bad"}, nil); err == nil {
		t.Fatal("expected error")
	}
}

// waitReady tests replace the sleep seam so they are not parallel
func TestWaitReady(t *testing.T) {
	var slept []time.Duration
	orig := sleep
	sleep = func(_ context.Context, d time.Duration) error { slept = append(slept, d); return nil }
	t.Cleanup(func() { sleep = orig })

	calls := 0
	ping := func(context.Context) error {
		calls++
		if calls < 4 {
			return errors.New("refused")
		}
		return nil
	}
	if err := waitReady(context.Background(), ping, Config{Attempts: 5}); err != nil {
		t.Fatalf("waitReady: %v", err)
	}
	want := []time.Duration{150 * time.Millisecond, 300 * time.Millisecond, 600 * time.Millisecond}
	if len(slept) != len(want) {
		t.Fatalf("slept %v, want %v", slept, want)
	}
	for i := range want {
		if slept[i] != want[i] {
			t.Fatalf("slept %v, want %v", slept, want)
		}
	}

	calls, slept = 0, nil
	err := waitReady(context.Background(), func(context.Context) error { calls++; return errors.New("down") }, Config{Attempts: 3})
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) || calls != 3 || len(slept) != 2 {
		t.Fatalf("err=%v calls=%d slept=%v", err, calls, slept)
	}

	sleep = func(context.Context, time.Duration) error { return context.Canceled }
	if err := waitReady(context.Background(), func(context.Context) error { return errors.New("down") }, Config{Attempts: 3}); !errors.Is(err, context.Canceled) {
		t.Fatalf("cancel err = %v", err)
	}
}

func TestTracer_Levels(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	tr := Tracer(zerolog.New(&buf))

	tr.OnQuery(context.Background(), QueryEvent{SQL: "SELECT *\n\tFROM  products", Elapsed: time.Millisecond})
	line := buf.String()
	if !strings.Contains(line, `"level":"info"`) || !strings.Contains(line, `"sql":"SELECT * FROM products"`) {
		t.Fatalf("info line: %s", line)
	}
	if !strings.Contains(line, `"component":"pg"`) {
		t.Fatalf("component missing: %s", line)
	}

	buf.Reset()
	tr.OnQuery(context.Background(), QueryEvent{SQL: "SELECT 1", Slow: true})
	if !strings.Contains(buf.String(), `"level":"warn"`) {
		t.Fatalf("slow line: %s", buf.String())
	}

	buf.Reset()
	tr.OnQuery(context.Background(), QueryEvent{SQL: "SELECT 1", Slow: true, Err: errors.New("boom")})
	if !strings.Contains(buf.String(), `"level":"error"`) || !strings.Contains(buf.String(), "boom") {
		t.Fatalf("error line: %s", buf.String())
	}
}
