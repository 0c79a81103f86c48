//go:build integration_pg
// +build integration_pg

package service

import (
	"context"
	"fmt"
	"testing"

	"tdsdesk/internal/platform/store/pgtest"
	"tdsdesk/internal/services/products/domain"
	"tdsdesk/internal/services/products/repo"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
)

func TestMatch_Integration(t *testing.T) {
	st := pgtest.Open(t)
	svc := New(st.PG, repo.NewPG(), Config{})
	ctx := context.Background()

	faker := gofakeit.New(42)
	rows := make([]domain.ProductUpsert, 0, 60)
	for i := 0; i < 50; i++ {
		rows = append(rows, domain.ProductUpsert{
			Code:        fmt.Sprintf("N%04d", i),
			Description: faker.Car().Brand + " " + faker.Noun(),
			Brand:       faker.Company(),
			Balance:     faker.Number(0, 40),
			Price:       decimal.NewNullDecimal(decimal.NewFromFloat(faker.Price(5, 900))),
		})
	}
	rows = append(rows,
		domain.ProductUpsert{Code: "F-100", Description: "FILTRO DE ÓLEO MOTOR", Brand: "Tecfil", Balance: 12,
			Price: decimal.NewNullDecimal(decimal.RequireFromString("45.90"))},
		domain.ProductUpsert{Code: "F-200", Description: "FILTRO DE ÓLEO CÂMBIO", Brand: "Mann", Balance: 3},
		domain.ProductUpsert{Code: "P-9", Description: "PASTILHA DE FREIO DIANTEIRA", Reference: "HQ-2042", Deleted: true},
		domain.ProductUpsert{Code: "50%OFF", Description: "KIT PROMOCIONAL"},
	)
	if _, err := svc.Import(ctx, rows); err != nil {
		t.Fatalf("import: %v", err)
	}

	t.Run("accent and case insensitive, lowest id wins", func(t *testing.T) {
		p, ok, err := svc.Match(ctx, "Filtro Oleo")
		if err != nil || !ok {
			t.Fatalf("Match ok=%v err=%v", ok, err)
		}
		if p.Code != "F-100" {
			t.Fatalf("matched %s, want F-100", p.Code)
		}
		if !p.Price.Valid || p.Price.Decimal.String() != "45.9" {
			t.Fatalf("price = %+v", p.Price)
		}
	})

	t.Run("every term required", func(t *testing.T) {
		p, ok, err := svc.Match(ctx, "filtro cambio")
		if err != nil || !ok || p.Code != "F-200" {
			t.Fatalf("got %+v ok=%v err=%v", p, ok, err)
		}
		if _, ok, _ := svc.Match(ctx, "filtro pastilha"); ok {
			t.Fatal("terms must be conjunctive")
		}
	})

	t.Run("soft deleted excluded", func(t *testing.T) {
		if _, ok, err := svc.Match(ctx, "HQ-2042"); ok || err != nil {
			t.Fatalf("deleted product matched ok=%v err=%v", ok, err)
		}
	})

	t.Run("wildcards are literal", func(t *testing.T) {
		p, ok, err := svc.Match(ctx, "50%")
		if err != nil || !ok || p.Code != "50%OFF" {
			t.Fatalf("got %+v ok=%v err=%v", p, ok, err)
		}
		if _, ok, _ := svc.Match(ctx, "F_1"); ok {
			t.Fatal("underscore matched as wildcard")
		}
	})

	t.Run("reimport updates in place", func(t *testing.T) {
		if _, err := svc.Import(ctx, []domain.ProductUpsert{{Code: "F-100", Description: "FILTRO DE ÓLEO MOTOR", Balance: 1}}); err != nil {
			t.Fatal(err)
		}
		p, ok, _ := svc.Match(ctx, "F-100")
		if !ok || p.Balance != 1 {
			t.Fatalf("upsert did not update: %+v", p)
		}
	})

	t.Run("find lists in id order", func(t *testing.T) {
		xs, err := svc.Find(ctx, "filtro oleo", 10)
		if err != nil || len(xs) != 2 || xs[0].ID > xs[1].ID {
			t.Fatalf("find = %+v err=%v", xs, err)
		}
	})
}
