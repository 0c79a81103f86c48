// Package migrate applies the embedded postgres schema in order
package migrate

import (
	"context"
	"embed"
	"io/fs"
	"sort"
	"strings"

	perr "tdsdesk/internal/platform/errors"
	"tdsdesk/internal/platform/logger"
	"tdsdesk/internal/platform/store"
)

//go:embed sql/*.sql
var files embed.FS

// lockKey serializes concurrent migrators across processes
const lockKey = "tdsdesk.migrate"

// Step is one schema file
type Step struct {
	Version string
	SQL     string
}

// Steps returns the embedded schema files sorted by version
func Steps() ([]Step, error) { return stepsFrom(files, "sql") }

func stepsFrom(fsys fs.FS, dir string) ([]Step, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "read migrations")
	}
	out := make([]Step, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		b, err := fs.ReadFile(fsys, dir+"/"+e.Name())
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "read migration %s", e.Name())
		}
		out = append(out, Step{Version: strings.TrimSuffix(e.Name(), ".sql"), SQL: string(b)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// Up applies every embedded step not yet recorded in schema_migrations
// each step runs in its own transaction under an advisory lock
// it returns the versions applied by this call
func Up(ctx context.Context, db store.TxRunner) ([]string, error) {
	steps, err := Steps()
	if err != nil {
		return nil, err
	}
	return apply(ctx, db, steps)
}

func apply(ctx context.Context, db store.TxRunner, steps []Step) ([]string, error) {
	if db == nil {
		return nil, perr.Unavailablef("migrate: postgres is not configured")
	}
	log := logger.Named("migrate")

	const ddl = `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`
	if _, err := db.Exec(ctx, ddl); err != nil {
		return nil, perr.FromPostgres(err, "create schema_migrations")
	}

	var applied []string
	for _, st := range steps {
		ran := false
		err := db.Tx(ctx, func(q store.RowQuerier) error {
			if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, lockKey); err != nil {
				return err
			}
			n, err := store.Scalar[int64](ctx, q, `SELECT count(*) FROM schema_migrations WHERE version = $1`, st.Version)
			if err != nil {
				return err
			}
			if n > 0 {
				return nil
			}
			if _, err := q.Exec(ctx, st.SQL); err != nil {
				return err
			}
			if _, err := q.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, st.Version); err != nil {
				return err
			}
			ran = true
			return nil
		})
		if err != nil {
			return applied, perr.FromPostgresf(err, "apply migration %s", st.Version)
		}
		if ran {
			log.Info().Str("version", st.Version).Msg("migration applied")
			applied = append(applied, st.Version)
		}
	}
	return applied, nil
}
