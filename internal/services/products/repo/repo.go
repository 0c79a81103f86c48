// Package repo provides the products repository for Postgres
package repo

import (
	"context"
	"fmt"
	"strings"

	"tdsdesk/internal/modkit/repokit"
	"tdsdesk/internal/platform/store"
	"tdsdesk/internal/services/products/domain"

	"github.com/shopspring/decimal"
)

type binder struct{}

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the products repository
type Storage interface {
	// Search returns live products matching every term, lowest id first
	Search(ctx context.Context, terms []string, limit int) ([]domain.Product, error)
	// Upsert inserts or updates one row keyed by (branch_id, code)
	Upsert(ctx context.Context, row domain.ProductUpsert) error
}

type pg struct{ q repokit.Queryer }

const columns = `
	p.id, p.branch_id, p.code, p.reference, p.description,
	p.barcode1, p.barcode2, p.brand, p.section, p.balance,
	p.price::text, p.average_cost::text, p.deleted, p.created_at, p.updated_at`

// searchedColumns are compared accent and case insensitively
var searchedColumns = []string{"p.code", "p.description", "p.reference"}

// Search implements Storage
func (s *pg) Search(ctx context.Context, terms []string, limit int) ([]domain.Product, error) {
	if len(terms) == 0 {
		return nil, nil
	}
	sql, args := searchSQL(terms, limit)
	return store.Many(ctx, s.q, scanProduct, sql, args...)
}

// searchSQL builds the conjunctive term predicate with numbered args
func searchSQL(terms []string, limit int) (string, []any) {
	var sb strings.Builder
	var args []any
	arg := func(v any) string { args = append(args, v); return fmt.Sprintf("$%d", len(args)) }

	sb.WriteString(`SELECT` + columns + `
		FROM products p
		WHERE p.deleted = false
	`)
	for _, t := range terms {
		ph := arg("%" + EscapeLike(t) + "%")
		ors := make([]string, 0, len(searchedColumns))
		for _, c := range searchedColumns {
			ors = append(ors, "lower(unaccent_text("+c+")) ILIKE "+ph)
		}
		sb.WriteString("  AND (" + strings.Join(ors, " OR ") + ")\n")
	}
	sb.WriteString("ORDER BY p.id ASC LIMIT " + arg(limit))
	return sb.String(), args
}

// EscapeLike escapes the LIKE metacharacters of s using the default backslash escape
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// Upsert implements Storage
func (s *pg) Upsert(ctx context.Context, p domain.ProductUpsert) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO products
			(branch_id, code, reference, description, barcode1, barcode2,
			 brand, section, balance, price, average_cost, deleted)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10::numeric,$11::numeric,$12)
		ON CONFLICT (branch_id, code) DO UPDATE SET
			reference    = EXCLUDED.reference,
			description  = EXCLUDED.description,
			barcode1     = EXCLUDED.barcode1,
			barcode2     = EXCLUDED.barcode2,
			brand        = EXCLUDED.brand,
			section      = EXCLUDED.section,
			balance      = EXCLUDED.balance,
			price        = EXCLUDED.price,
			average_cost = EXCLUDED.average_cost,
			deleted      = EXCLUDED.deleted,
			updated_at   = now()`,
		p.BranchID, p.Code, p.Reference, p.Description, p.Barcode1, p.Barcode2,
		p.Brand, p.Section, p.Balance, numericArg(p.Price), numericArg(p.AverageCost), p.Deleted,
	)
	return err
}

// numericArg passes a decimal as text so the driver needs no numeric codec
func numericArg(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal.String()
}

func scanProduct(r store.Row) (domain.Product, error) {
	var (
		p           domain.Product
		price, cost *string
	)
	if err := r.Scan(
		&p.ID, &p.BranchID, &p.Code, &p.Reference, &p.Description,
		&p.Barcode1, &p.Barcode2, &p.Brand, &p.Section, &p.Balance,
		&price, &cost, &p.Deleted, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return domain.Product{}, err
	}
	var err error
	if p.Price, err = parseNumeric(price); err != nil {
		return domain.Product{}, err
	}
	if p.AverageCost, err = parseNumeric(cost); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func parseNumeric(s *string) (decimal.NullDecimal, error) {
	if s == nil {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("parse numeric %q: %w", *s, err)
	}
	return decimal.NewNullDecimal(d), nil
}
