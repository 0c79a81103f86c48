//go:build integration_pg
// +build integration_pg

package service

import (
	"context"
	"testing"

	"tdsdesk/internal/platform/store/pgtest"
	"tdsdesk/internal/services/interactions/domain"
	"tdsdesk/internal/services/interactions/repo"
)

func TestRecordAndList_Integration(t *testing.T) {
	st := pgtest.Open(t)
	svc := New(st.PG, repo.NewPG(), nil, Config{})
	ctx := context.Background()

	for _, text := range []string{"oi", "tem filtro?", "obrigado"} {
		if _, err := svc.Record(ctx, domain.NewInteraction{OriginalText: text, Category: domain.CategoryGreeting, Answer: "ok"}); err != nil {
			t.Fatalf("record %q: %v", text, err)
		}
	}

	xs, err := svc.List(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(xs) != 2 || xs[0].OriginalText != "obrigado" || xs[1].OriginalText != "tem filtro?" {
		t.Fatalf("want newest first, got %+v", xs)
	}
	if xs[0].ID <= xs[1].ID || xs[0].CreatedAt.IsZero() {
		t.Fatalf("unexpected ids or timestamps %+v", xs)
	}
}

func TestAnalyze_PersistsSentiment_Integration(t *testing.T) {
	st := pgtest.Open(t)
	a := &fakeAnalyzer{raw: `{"sentimento":"negativo","resumo":"atraso na entrega","sugestao_de_resposta":"Lamentamos."}`}
	svc := New(st.PG, repo.NewPG(), a, Config{})
	ctx := context.Background()

	if _, err := svc.Analyze(ctx, "meu pedido atrasou"); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	xs, err := svc.List(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(xs) != 1 || xs[0].Sentiment != "negativo" || xs[0].Category != domain.CategorySentiment {
		t.Fatalf("unexpected rows %+v", xs)
	}
}
