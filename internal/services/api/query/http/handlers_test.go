package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tdsdesk/internal/modkit/httpkit"
	perr "tdsdesk/internal/platform/errors"
	phttp "tdsdesk/internal/platform/net/http"
	adom "tdsdesk/internal/services/assistant/domain"
	idom "tdsdesk/internal/services/interactions/domain"

	"github.com/go-chi/chi/v5"
)

type fakeAsk struct {
	answer string
	err    error
	turns  []adom.Turn
}

func (f *fakeAsk) Ask(_ context.Context, t adom.Turn) (adom.Result, error) {
	f.turns = append(f.turns, t)
	return adom.Result{Answer: f.answer, Degraded: true}, f.err
}

func post(a adom.AskPort, body string) *httptest.ResponseRecorder {
	mux := chi.NewRouter()
	phttp.AdaptChi(mux).Route("/query", func(r httpkit.Router) { Register(r, a) })
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/query/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	mux.ServeHTTP(rec, req)
	return rec
}

func TestQuery_RawAnswer(t *testing.T) {
	t.Parallel()
	a := &fakeAsk{answer: "Temos 3 unidades."}

	rec := post(a, `{"question":"tem filtro?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"answer":"Temos 3 unidades."}` {
		t.Fatalf("body = %s", got)
	}
	if len(a.turns) != 1 || a.turns[0].Question != "tem filtro?" || a.turns[0].Channel != idom.ChannelHTTP {
		t.Fatalf("turns = %+v", a.turns)
	}
}

func TestQuery_ErrorsEnveloped(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		ask  *fakeAsk
		body string
		want int
	}{
		{"blank question", &fakeAsk{}, `{"question":"  "}`, http.StatusBadRequest},
		{"oracle down", &fakeAsk{err: perr.Unavailablef("oracle down")}, `{"question":"oi"}`, http.StatusServiceUnavailable},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			rec := post(c.ask, c.body)
			var env phttp.Envelope
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if rec.Code != c.want || env.StatusCode != c.want || env.Error == "" {
				t.Fatalf("code=%d env=%+v", rec.Code, env)
			}
		})
	}
}
