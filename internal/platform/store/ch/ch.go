// Package ch provides a clickhouse client for append only event tables
package ch

import (
	"cmp"
	"context"
	"os"
	"regexp"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	perr "tdsdesk/internal/platform/errors"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Config configures clickhouse client
type Config struct {
	URL         string
	ClientRole  string
	ClientTag   string
	PingTimeout time.Duration
}

// Rows is the driver result set
type Rows = driver.Rows

// CH wraps a native clickhouse connection
type CH struct {
	conn driver.Conn
}

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Open parses the DSN, connects and pings once
func Open(ctx context.Context, cfg Config) (*CH, error) {
	opts, err := clickhouse.ParseDSN(cfg.URL)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "clickhouse dsn")
	}
	opts.ClientInfo = clientInfo(cfg.ClientRole, cfg.ClientTag)

	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "clickhouse open")
	}

	to := cfg.PingTimeout
	if to <= 0 {
		to = 5 * time.Second
	}
	pctx, cancel := context.WithTimeout(ctx, to)
	defer cancel()
	if err := conn.Ping(pctx); err != nil {
		_ = conn.Close()
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "clickhouse ping")
	}
	return &CH{conn: conn}, nil
}

// Insert appends rows to table with one native batch
func (c *CH) Insert(ctx context.Context, table string, rows [][]any) error {
	if !tableName.MatchString(table) {
		return perr.InvalidArgf("clickhouse: invalid table name %q", table)
	}
	if len(rows) == 0 {
		return nil
	}
	batch, err := c.conn.PrepareBatch(ctx, "INSERT INTO "+table)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "clickhouse prepare %s", table)
	}
	for _, r := range rows {
		if err := batch.Append(r...); err != nil {
			_ = batch.Abort()
			return perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "clickhouse append %s", table)
		}
	}
	if err := batch.Send(); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "clickhouse send %s", table)
	}
	return nil
}

// Exec runs a statement without results, used for DDL
func (c *CH) Exec(ctx context.Context, sql string, args ...any) error {
	return c.conn.Exec(ctx, sql, args...)
}

// Query runs a query and returns driver rows
func (c *CH) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return c.conn.Query(ctx, sql, args...)
}

// Ping checks connectivity
func (c *CH) Ping(ctx context.Context) error { return c.conn.Ping(ctx) }

// Close closes the connection
func (c *CH) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// clientInfo tags queries in system.query_log with the binary, role and host
func clientInfo(role, tag string) clickhouse.ClientInfo {
	host, _ := os.Hostname()
	commit := ""
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, kv := range bi.Settings {
			if kv.Key == "vcs.revision" {
				commit = kv.Value[:min(7, len(kv.Value))]
			}
		}
	}
	info := clickhouse.ClientInfo{}
	for _, p := range [][2]string{{"tdsdesk", tag}, {"role", role}, {"go", runtime.Version()}, {"commit", commit}, {"host", host}} {
		info.Products = append(info.Products, struct{ Name, Version string }{p[0], cmp.Or(strings.TrimSpace(p[1]), "unknown")})
	}
	return info
}
