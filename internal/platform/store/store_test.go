package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	perr "tdsdesk/internal/platform/errors"
	"tdsdesk/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// memRows serves a fixed table of int64 ids
type memRows struct {
	ids    []int64
	i      int
	err    error
	closed bool
}

func (r *memRows) Next() bool {
	if r.i >= len(r.ids) {
		return false
	}
	r.i++
	return true
}

func (r *memRows) Scan(dest ...any) error {
	*(dest[0].(*int64)) = r.ids[r.i-1]
	return nil
}

func (r *memRows) Err() error        { return r.err }
func (r *memRows) Close()            { r.closed = true }
func (r *memRows) Columns() []string { return []string{"id"} }

type tagN int64

func (n tagN) String() string      { return "UPDATE" }
func (n tagN) RowsAffected() int64 { return int64(n) }

type memDB struct {
	rows    *memRows
	queryEr error
	tag     tagN
}

func (m *memDB) Exec(context.Context, string, ...any) (CommandTag, error) { return m.tag, nil }
func (m *memDB) Query(context.Context, string, ...any) (Rows, error) {
	if m.queryEr != nil {
		return nil, m.queryEr
	}
	return m.rows, nil
}
func (m *memDB) QueryRow(context.Context, string, ...any) Row { return nil }

func scanID(r Row) (int64, error) {
	var id int64
	err := r.Scan(&id)
	return id, err
}

func TestExecOne(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cases := []struct {
		n    tagN
		code perr.ErrorCode
		ok   bool
	}{
		{n: 1, ok: true},
		{n: 0, code: perr.ErrorCodeNotFound},
		{n: 3, code: perr.ErrorCodeDB},
	}
	for _, c := range cases {
		err := ExecOne(ctx, &memDB{tag: c.n}, "UPDATE products SET deleted = true WHERE id = $1", 1)
		if c.ok {
			if err != nil {
				t.Fatalf("n=%d: %v", c.n, err)
			}
			continue
		}
		if !perr.IsCode(err, c.code) {
			t.Fatalf("n=%d: err = %v, want %v", c.n, err, c.code)
		}
	}
}

func TestManyAndOne(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	rows := &memRows{ids: []int64{4, 9}}
	got, err := Many(ctx, &memDB{rows: rows}, scanID, "SELECT id FROM products")
	if err != nil || len(got) != 2 || got[1] != 9 {
		t.Fatalf("Many = %v, %v", got, err)
	}
	if !rows.closed {
		t.Fatal("rows left open")
	}

	got, err = Many(ctx, &memDB{rows: &memRows{}}, scanID, "SELECT id FROM products")
	if err != nil || got == nil || len(got) != 0 {
		t.Fatalf("empty Many = %#v, %v", got, err)
	}

	if _, err := Many(ctx, &memDB{rows: &memRows{err: errors.New("broken")}}, scanID, "q"); err == nil {
		t.Fatal("rows.Err not returned")
	}

	id, err := One(ctx, &memDB{rows: &memRows{ids: []int64{7}}}, scanID, "q")
	if err != nil || id != 7 {
		t.Fatalf("One = %d, %v", id, err)
	}
	if _, err := One(ctx, &memDB{rows: &memRows{}}, scanID, "q"); !errors.Is(err, perr.ErrNotFound) {
		t.Fatalf("One empty err = %v", err)
	}
	if _, err := One(ctx, &memDB{rows: &memRows{ids: []int64{1, 2}}}, scanID, "q"); !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("One many err = %v", err)
	}
	if _, err := One(ctx, &memDB{queryEr: errors.New("down")}, scanID, "q"); err == nil {
		t.Fatal("query error swallowed")
	}
}

// pgx fakes for the traced querier

type pgxRow struct{ err error }

func (r pgxRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*int)) = 1
	return nil
}

type pgxMemRows struct{ pgx.Rows }

func (pgxMemRows) FieldDescriptions() []pgconn.FieldDescription {
	return []pgconn.FieldDescription{{Name: "id"}, {Name: "code"}}
}

type pgxFake struct{ scanErr error }

func (f pgxFake) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag("DELETE 2"), nil
}

func (f pgxFake) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	if strings.Contains(sql, "bad") {
		return nil, errors.New("syntax")
	}
	return pgxMemRows{}, nil
}

func (f pgxFake) QueryRow(context.Context, string, ...any) pgx.Row { return pgxRow{err: f.scanErr} }

func TestTraced_ReportsEveryStatement(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var seen []pg.QueryEvent
	q := traced{
		conn:   pgxFake{scanErr: errors.New("no rows")},
		tracer: pg.TracerFunc(func(_ context.Context, ev pg.QueryEvent) { seen = append(seen, ev) }),
	}

	tag, err := q.Exec(ctx, "DELETE FROM messages WHERE id = $1", 5)
	if err != nil || tag.RowsAffected() != 2 {
		t.Fatalf("Exec = %v, %v", tag, err)
	}

	rs, err := q.Query(ctx, "SELECT id, code FROM products")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if cols := rs.Columns(); len(cols) != 2 || cols[1] != "code" {
		t.Fatalf("Columns = %v", cols)
	}
	if _, err := q.Query(ctx, "SELECT bad"); err == nil {
		t.Fatal("query error swallowed")
	}

	var n int
	row := q.QueryRow(ctx, "SELECT 1")
	if len(seen) != 3 {
		t.Fatalf("QueryRow reported before Scan: %d events", len(seen))
	}
	if err := row.Scan(&n); err == nil {
		t.Fatal("scan error swallowed")
	}

	if len(seen) != 4 {
		t.Fatalf("events = %d, want 4", len(seen))
	}
	if seen[0].SQL != "DELETE FROM messages WHERE id = $1" || seen[0].Args[0] != 5 {
		t.Fatalf("exec event = %+v", seen[0])
	}
	if seen[2].Err == nil || seen[3].Err == nil {
		t.Fatalf("errors not traced: %+v %+v", seen[2], seen[3])
	}
	for _, ev := range seen {
		if ev.Slow {
			t.Fatalf("slow set with zero threshold: %+v", ev)
		}
	}
}

func TestTraced_SlowAndNilTracer(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var slow bool
	q := traced{
		conn:   pgxFake{},
		slow:   time.Nanosecond,
		tracer: pg.TracerFunc(func(_ context.Context, ev pg.QueryEvent) { slow = ev.Slow }),
	}
	if _, err := q.Exec(ctx, "SELECT pg_sleep(0)"); err != nil {
		t.Fatal(err)
	}
	if !slow {
		t.Fatal("expected slow mark")
	}

	var n int
	if err := (traced{conn: pgxFake{}}).QueryRow(ctx, "SELECT 1").Scan(&n); err != nil || n != 1 {
		t.Fatalf("untraced QueryRow = %d, %v", n, err)
	}
}

type pingFake struct {
	memDB
	err    error
	closed bool
}

func (p *pingFake) Tx(ctx context.Context, fn func(RowQuerier) error) error { return fn(p) }
func (p *pingFake) Ping(context.Context) error                              { return p.err }
func (p *pingFake) Close() error                                            { p.closed = true; return nil }

type chFake struct {
	pingFake
}

func (c *chFake) Insert(context.Context, string, any) error  { return nil }
func (c *chFake) Exec(context.Context, string, ...any) error { return nil }

func TestGuardAndClose(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var nilStore *Store
	if err := nilStore.Guard(ctx); err == nil {
		t.Fatal("nil store passed guard")
	}
	if err := (&Store{}).Guard(ctx); err != nil {
		t.Fatalf("empty store: %v", err)
	}

	pgf := &pingFake{err: errors.New("pg down")}
	chf := &chFake{pingFake{err: errors.New("ch down")}}
	s := &Store{PG: pgf, CH: chf}
	err := s.Guard(ctx)
	if err == nil || !strings.Contains(err.Error(), "pg: pg down") || !strings.Contains(err.Error(), "ch: ch down") {
		t.Fatalf("guard err = %v", err)
	}

	pgf.err, chf.err = nil, nil
	if err := s.Guard(ctx); err != nil {
		t.Fatalf("healthy guard: %v", err)
	}
	if err := s.Close(ctx); err != nil || !pgf.closed || !chf.closed {
		t.Fatalf("close err=%v pg=%v ch=%v", err, pgf.closed, chf.closed)
	}
}

func TestOpen_Errors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cases := []struct {
		name string
		cfg  Config
		code perr.ErrorCode
	}{
		{"pg dsn", Config{PG: PGConfig{Enabled: true, URL: "://bad"}}, perr.ErrorCodeInvalidArgument},
		{"ch dsn", Config{CH: CHConfig{Enabled: true, URL: "clickhouse://host:notaport/db"}}, perr.ErrorCodeInvalidArgument},
		{"redis addr", Config{RDS: RedisConfig{Enabled: true}}, perr.ErrorCodeInvalidArgument},
	}
	for _, c := range cases {
		s, err := Open(ctx, c.cfg)
		if s != nil || !perr.IsCode(err, c.code) {
			t.Fatalf("%s: store=%v err=%v", c.name, s, err)
		}
	}

	s, err := Open(ctx, Config{})
	if err != nil || s.PG != nil || s.CH != nil || s.Redis != nil {
		t.Fatalf("empty Open = %+v, %v", s, err)
	}
}
