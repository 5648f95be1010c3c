package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestSugar_Mounts(t *testing.T) {
	t.Parallel()

	r := AdaptChi(chi.NewRouter())

	GetJSON(r, "/g", func(req *http.Request) (any, error) {
		return map[string]string{"id": req.URL.Query().Get("id")}, nil
	})
	PostJSON(r, "/p", func(_ *http.Request, in inDTO) (any, error) {
		return map[string]int{"d": in.N * 2}, nil
	})
	PostJSONCreated(r, "/c", func(_ *http.Request, in inDTO) (any, error) {
		return map[string]int{"n": in.N}, nil
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
		if body != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		rr := httptest.NewRecorder()
		r.Mux().ServeHTTP(rr, req)
		return rr
	}

	if rr := do(http.MethodGet, "/g?id=c1", ""); rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"id":"c1"`) {
		t.Fatalf("GET /g => %d %q", rr.Code, rr.Body.String())
	}
	if rr := do(http.MethodPost, "/p", `{"n":7}`); rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"d":14`) {
		t.Fatalf("POST /p => %d %q", rr.Code, rr.Body.String())
	}
	if rr := do(http.MethodPost, "/c", `{"n":2}`); rr.Code != http.StatusCreated {
		t.Fatalf("POST /c => %d %q", rr.Code, rr.Body.String())
	}
	if rr := do(http.MethodPost, "/g", `{}`); rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /g => %d", rr.Code)
	}
}
