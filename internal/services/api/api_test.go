package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"campaigntracker/internal/adapters/tikapi"
	"campaigntracker/internal/modkit"
	"campaigntracker/internal/modkit/repokit"
	"campaigntracker/internal/platform/config"
	phttp "campaigntracker/internal/platform/net/http"
	"campaigntracker/internal/platform/store"

	"github.com/go-chi/chi/v5"
)

// idleTx never runs a statement; the routes under test do not touch postgres
type idleTx struct{ repokit.Queryer }

func (idleTx) Tx(context.Context, func(repokit.Queryer) error) error { return nil }

var _ store.TxRunner = idleTx{}

func TestMount_Routes(t *testing.T) {
	r := phttp.AdaptChi(chi.NewRouter())
	Mount(r, Options{
		Config:        config.New().Prefix("CORE_API_"),
		Deps:          modkit.Deps{PG: idleTx{}},
		Media:         tikapi.New(tikapi.Options{BaseURL: "http://127.0.0.1:0", APIKey: "k"}),
		Service:       "tracker-api",
		EnableSwagger: true,
	})

	cases := []struct {
		path string
		want int
	}{
		{"/api/v1/meta/version", http.StatusOK},
		{"/api/v1/meta/health", http.StatusOK},
		{"/api/v1/campaigns/get", http.StatusBadRequest},
		{"/api/v1/media/audio/info", http.StatusBadRequest},
		{"/api/docs/doc.json", http.StatusOK},
		{"/api/v1/nope", http.StatusNotFound},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, c.path, nil))
		if rec.Code != c.want {
			t.Fatalf("%s status = %d want %d (%s)", c.path, rec.Code, c.want, rec.Body.String())
		}
	}

	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/meta/version", nil))
	var env map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env["data"].(map[string]any)["service"] != "tracker-api" {
		t.Fatalf("version = %v", env)
	}

	rec = httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	var doc map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode doc: %v", err)
	}
	if doc["info"].(map[string]any)["version"] != "dev" {
		t.Fatalf("doc info = %v", doc["info"])
	}
}
