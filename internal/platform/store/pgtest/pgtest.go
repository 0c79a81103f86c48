//go:build integration_pg

// Package pgtest starts a disposable migrated Postgres for integration tests
package pgtest

import (
	"context"
	"io"
	"testing"
	"time"

	"tdsdesk/internal/platform/store"
	"tdsdesk/internal/platform/store/migrate"

	"github.com/rs/zerolog"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Image is the server the integration suites run against
const Image = "postgres:16-alpine"

// DSN runs a throwaway server and returns its connection string; the container goes away with t
func DSN(t *testing.T) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	c, err := tc.Run(ctx, Image,
		tc.WithExposedPorts("5432/tcp"),
		tc.WithEnv(map[string]string{
			"POSTGRES_USER":     "tds",
			"POSTGRES_PASSWORD": "tds",
			"POSTGRES_DB":       "tdsdesk",
		}),
		// the entrypoint restarts the server once after initdb
		tc.WithWaitStrategyAndDeadline(2*time.Minute,
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort("5432/tcp"),
		),
	)
	tc.CleanupContainer(t, c)
	if err != nil {
		t.Fatalf("postgres container: %v", err)
	}

	ep, err := c.PortEndpoint(ctx, "5432/tcp", "")
	if err != nil {
		t.Fatalf("postgres endpoint: %v", err)
	}
	return "postgres://tds:tds@" + ep + "/tdsdesk?sslmode=disable"
}

// Open runs a server, opens a Store on it and applies the embedded migrations
func Open(t *testing.T) *store.Store {
	t.Helper()
	dsn := DSN(t)

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	st, err := store.Open(ctx, store.Config{
		AppName: "tdsdesk-test",
		PG:      store.PGConfig{Enabled: true, URL: dsn, MaxConns: 4},
	}, store.WithLogger(zerolog.New(io.Discard)))
	if err != nil {
		t.Fatalf("store open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	if _, err := migrate.Up(ctx, st.PG); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return st
}
