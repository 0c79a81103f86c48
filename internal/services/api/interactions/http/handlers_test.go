package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tdsdesk/internal/modkit/httpkit"
	perr "tdsdesk/internal/platform/errors"
	phttp "tdsdesk/internal/platform/net/http"
	idom "tdsdesk/internal/services/interactions/domain"

	"github.com/go-chi/chi/v5"
)

type fakeLog struct {
	rows  []idom.Interaction
	err   error
	limit int
	texts []string
}

func (f *fakeLog) List(_ context.Context, limit int) ([]idom.Interaction, error) {
	f.limit = limit
	return f.rows, f.err
}

func (f *fakeLog) Analyze(_ context.Context, text string) (idom.Interaction, error) {
	f.texts = append(f.texts, text)
	if f.err != nil {
		return idom.Interaction{}, f.err
	}
	return idom.Interaction{
		ID: 7, OriginalText: text, Category: idom.CategorySentiment, Sentiment: "positivo",
		Summary: "elogio", Answer: "Obrigado!", Channel: idom.ChannelAnalyze,
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}, nil
}

func serve(f *fakeLog, method, target, body string) *httptest.ResponseRecorder {
	mux := chi.NewRouter()
	phttp.AdaptChi(mux).Route("/api/v1", func(r httpkit.Router) { Register(r, f, f) })
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	mux.ServeHTTP(rec, req)
	return rec
}

func TestList_BareArray(t *testing.T) {
	t.Parallel()

	t.Run("empty log is []", func(t *testing.T) {
		t.Parallel()
		rec := serve(&fakeLog{}, http.MethodGet, "/api/v1/interactions", "")
		if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
			t.Fatalf("code=%d body=%s", rec.Code, rec.Body)
		}
	})

	t.Run("rows without envelope", func(t *testing.T) {
		t.Parallel()
		f := &fakeLog{rows: []idom.Interaction{{ID: 2, OriginalText: "oi", Category: idom.CategoryGreeting, Channel: idom.ChannelHTTP}}}
		rec := serve(f, http.MethodGet, "/api/v1/interactions?limit=5", "")
		var xs []idom.Interaction
		if err := json.Unmarshal(rec.Body.Bytes(), &xs); err != nil {
			t.Fatalf("body is not a list: %v (%s)", err, rec.Body)
		}
		if len(xs) != 1 || xs[0].ID != 2 || f.limit != 5 {
			t.Fatalf("rows=%+v limit=%d", xs, f.limit)
		}
	})

	t.Run("bad limit stays enveloped", func(t *testing.T) {
		t.Parallel()
		rec := serve(&fakeLog{}, http.MethodGet, "/api/v1/interactions?limit=muitos", "")
		var env phttp.Envelope
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
		if rec.Code != http.StatusBadRequest || env.StatusCode != http.StatusBadRequest || env.Field != "limit" {
			t.Fatalf("code=%d env=%+v", rec.Code, env)
		}
	})
}

func TestAnalyze_RawRecord(t *testing.T) {
	t.Parallel()

	t.Run("record is the body", func(t *testing.T) {
		t.Parallel()
		f := &fakeLog{}
		rec := serve(f, http.MethodPost, "/api/v1/analyze", `{"text":"adorei"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("code=%d body=%s", rec.Code, rec.Body)
		}
		var m map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
			t.Fatal(err)
		}
		if _, wrapped := m["data"]; wrapped {
			t.Fatalf("record was enveloped: %s", rec.Body)
		}
		if m["id"] != float64(7) || m["sentiment"] != "positivo" || m["category"] != idom.CategorySentiment || m["original_text"] != "adorei" {
			t.Fatalf("body = %v", m)
		}
	})

	t.Run("oracle failure stays enveloped", func(t *testing.T) {
		t.Parallel()
		f := &fakeLog{err: perr.Unavailablef("oracle down")}
		rec := serve(f, http.MethodPost, "/api/v1/analyze", `{"text":"adorei"}`)
		var env phttp.Envelope
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
		if rec.Code != http.StatusServiceUnavailable || env.StatusCode != http.StatusServiceUnavailable {
			t.Fatalf("code=%d env=%+v", rec.Code, env)
		}
	})
}
