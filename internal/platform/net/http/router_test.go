package http

import (
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func header(name string) func(stdhttp.Handler) stdhttp.Handler {
	return func(next stdhttp.Handler) stdhttp.Handler {
		return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
			w.Header().Set(name, "1")
			next.ServeHTTP(w, r)
		})
	}
}

func ok(w stdhttp.ResponseWriter, _ *stdhttp.Request) { w.WriteHeader(stdhttp.StatusOK) }

func TestAdaptChi_GroupRouteAndMiddleware(t *testing.T) {
	t.Parallel()

	r := AdaptChi(chi.NewRouter())
	r.Use(header("X-Root"))
	r.Get("/root", ok)

	r.Group(func(g Router) {
		g.Use(header("X-Group"))
		g.Get("/g", ok)
	})
	r.Route("/api", func(sub Router) {
		sub.Use(header("X-Route"))
		sub.Post("/p", ok)
		sub.Handle("/h", stdhttp.HandlerFunc(ok))
	})

	cases := []struct {
		method, path string
		headers      []string
		absent       string
	}{
		{"GET", "/root", []string{"X-Root"}, "X-Group"},
		{"GET", "/g", []string{"X-Root", "X-Group"}, "X-Route"},
		{"POST", "/api/p", []string{"X-Root", "X-Route"}, "X-Group"},
		{"GET", "/api/h", []string{"X-Root", "X-Route"}, "X-Group"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		r.Mux().ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != stdhttp.StatusOK {
			t.Fatalf("%s %s = %d", tc.method, tc.path, rec.Code)
		}
		for _, h := range tc.headers {
			if rec.Header().Get(h) != "1" {
				t.Fatalf("%s %s missing %s", tc.method, tc.path, h)
			}
		}
		if rec.Header().Get(tc.absent) != "" {
			t.Fatalf("%s %s leaked %s", tc.method, tc.path, tc.absent)
		}
	}
}
