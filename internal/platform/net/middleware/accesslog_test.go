package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campaigntracker/internal/platform/net/middleware"
)

func serve(mw func(http.Handler) http.Handler, h http.HandlerFunc, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	mw(h).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestAccessLogZerolog_PassesThrough(t *testing.T) {
	cases := []struct {
		name   string
		opt    middleware.AccessLogOptions
		status int
		body   string
	}{
		{"created", middleware.AccessLogOptions{}, http.StatusCreated, "ok"},
		{"slow", middleware.AccessLogOptions{Slow: time.Nanosecond}, http.StatusOK, "slow"},
		{"server error", middleware.AccessLogOptions{}, http.StatusBadGateway, "upstream"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := serve(middleware.AccessLogZerolog(tc.opt), func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}, "/x")
			if rr.Code != tc.status || rr.Body.String() != tc.body {
				t.Fatalf("code=%d body=%q", rr.Code, rr.Body.String())
			}
		})
	}
}

func TestAccessLogZerolog_MultipleWrites(t *testing.T) {
	rr := serve(middleware.AccessLogZerolog(middleware.AccessLogOptions{}), func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("hi"))
		_, _ = w.Write([]byte("there"))
	}, "/bytes")
	if rr.Body.String() != "hithere" {
		t.Fatalf("body = %q", rr.Body.String())
	}
}
