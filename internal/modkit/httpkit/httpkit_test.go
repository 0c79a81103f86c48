package httpkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "tdsdesk/internal/platform/errors"
	phttp "tdsdesk/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

type askBody struct {
	Question string `json:"question" validate:"required,notblank"`
}

func newAPI(t *testing.T) http.Handler {
	t.Helper()
	mux := chi.NewRouter()
	MountAPIV1(phttp.AdaptChi(mux), CommonStack(), func(api Router) {
		MountUnder(api, "/products", nil, func(r Router) {
			Get(r, "/{code}", func(r *http.Request) (any, error) {
				if Param(r, "code") == "none" {
					return nil, perr.NotFoundf("product %s", Param(r, "code"))
				}
				n, err := QueryInt(r, "limit")
				if err != nil {
					return nil, err
				}
				return map[string]any{"code": Param(r, "code"), "limit": n}, nil
			})
		})
		PostJSON(api, "/query", func(_ *http.Request, in askBody) (any, error) {
			return Raw(http.StatusAccepted, map[string]string{"echo": in.Question}), nil
		})
	})
	return mux
}

func do(h http.Handler, method, path, body string) (*httptest.ResponseRecorder, Envelope) {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	var env Envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestRoutesAndEnvelope(t *testing.T) {
	t.Parallel()
	h := newAPI(t)

	rec, env := do(h, http.MethodGet, "/api/v1/products/FO-20?limit=3", "")
	if rec.Code != http.StatusOK || env.StatusCode != 200 {
		t.Fatalf("get = %d %s", rec.Code, rec.Body.String())
	}
	data := env.Data.(map[string]any)
	if data["code"] != "FO-20" || data["limit"] != float64(3) {
		t.Fatalf("data = %v", data)
	}
	if rec.Header().Get("X-Request-Id") == "" && env.RequestID == "" {
		t.Fatal("no request id on reply")
	}

	rec, env = do(h, http.MethodGet, "/api/v1/products/FO-20?limit=x", "")
	if rec.Code != http.StatusBadRequest || env.Field != "limit" {
		t.Fatalf("bad limit = %d %+v", rec.Code, env)
	}

	rec, env = do(h, http.MethodGet, "/api/v1/products/none", "")
	if rec.Code != http.StatusNotFound || env.Code != perr.ErrorCodeNotFound {
		t.Fatalf("not found = %d %+v", rec.Code, env)
	}
}

func TestPostJSON(t *testing.T) {
	t.Parallel()
	h := newAPI(t)

	rec, _ := do(h, http.MethodPost, "/api/v1/query", `{"question":"tem correia?"}`)
	if rec.Code != http.StatusAccepted || !strings.Contains(rec.Body.String(), `"echo":"tem correia?"`) {
		t.Fatalf("raw reply = %d %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "status_code") {
		t.Fatalf("raw reply was enveloped: %s", rec.Body.String())
	}

	rec, env := do(h, http.MethodPost, "/api/v1/query", `{"question":" "}`)
	if rec.Code != http.StatusBadRequest || env.Field != "question" {
		t.Fatalf("blank = %d %+v", rec.Code, env)
	}
}
