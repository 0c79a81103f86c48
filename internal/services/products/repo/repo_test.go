package repo

import (
	"strings"
	"testing"
)

func TestEscapeLike(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"oleo":    "oleo",
		"50%":     `50\%`,
		"a_b":     `a\_b`,
		`c:\temp`: `c:\\temp`,
		`%_\`:     `\%\_\\`,
	}
	for in, want := range cases {
		if got := EscapeLike(in); got != want {
			t.Fatalf("EscapeLike(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSearchSQL_EveryTermRequired(t *testing.T) {
	t.Parallel()

	sql, args := searchSQL([]string{"filtro", "oleo"}, 1)

	if len(args) != 3 {
		t.Fatalf("args = %v, want two terms and a limit", args)
	}
	if args[0] != "%filtro%" || args[1] != "%oleo%" || args[2] != 1 {
		t.Fatalf("unexpected args %v", args)
	}
	if strings.Count(sql, "AND (") != 2 {
		t.Fatalf("want one AND group per term:\n%s", sql)
	}
	for _, col := range []string{"p.code", "p.description", "p.reference"} {
		if strings.Count(sql, "lower(unaccent_text("+col+")) ILIKE") != 2 {
			t.Fatalf("column %s not searched for every term:\n%s", col, sql)
		}
	}
	if !strings.Contains(sql, "p.deleted = false") {
		t.Fatalf("soft deleted rows not excluded:\n%s", sql)
	}
	if !strings.Contains(sql, "ORDER BY p.id ASC LIMIT $3") {
		t.Fatalf("missing deterministic order:\n%s", sql)
	}
}

func TestSearchSQL_EscapesWildcards(t *testing.T) {
	t.Parallel()

	_, args := searchSQL([]string{"100%"}, 5)
	if args[0] != `%100\%%` {
		t.Fatalf("term not escaped: %v", args[0])
	}
}

func TestParseNumeric(t *testing.T) {
	t.Parallel()

	d, err := parseNumeric(nil)
	if err != nil || d.Valid {
		t.Fatalf("nil should be invalid, got %v %v", d, err)
	}
	s := "45.9000"
	d, err = parseNumeric(&s)
	if err != nil || !d.Valid || d.Decimal.String() != "45.9" {
		t.Fatalf("parse 45.9000 = %v %v", d, err)
	}
	bad := "abc"
	if _, err := parseNumeric(&bad); err == nil {
		t.Fatal("expected error")
	}
}
