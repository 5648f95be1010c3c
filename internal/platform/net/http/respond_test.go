package http_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	perr "campaigntracker/internal/platform/errors"
	pnet "campaigntracker/internal/platform/net"
	phttp "campaigntracker/internal/platform/net/http"
)

func reqWithReqID(method, path, rid string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	return req.WithContext(pnet.WithRequest(req.Context(), rid))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) phttp.Envelope {
	t.Helper()
	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal envelope: %v (%q)", err, rec.Body.String())
	}
	return env
}

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	phttp.JSON(rec, http.StatusTeapot, map[string]any{"k": "v"})
	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("content-type = %q", ct)
	}
}

func TestHandle_Success(t *testing.T) {
	cases := []struct {
		name string
		resp phttp.Response
		want int
	}{
		{"ok", phttp.OK(map[string]any{"x": 1}), http.StatusOK},
		{"created", phttp.Created(map[string]any{"id": "c1"}), http.StatusCreated},
		{"zero status", phttp.Response{Body: "hi"}, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := phttp.Handle(func(*http.Request) phttp.Response { return tc.resp })
			rec := httptest.NewRecorder()
			h(rec, reqWithReqID("GET", "/x", "rid-1"))

			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
			env := decode(t, rec)
			if env.StatusCode != tc.want || env.RequestID != "rid-1" || env.Data == nil {
				t.Fatalf("bad envelope: %+v", env)
			}
		})
	}
}

func TestHandle_NoContent(t *testing.T) {
	h := phttp.Handle(func(*http.Request) phttp.Response { return phttp.NoContent() })
	rec := httptest.NewRecorder()
	h(rec, reqWithReqID("POST", "/no", "rid-2"))
	if rec.Code != http.StatusNoContent || rec.Body.Len() != 0 {
		t.Fatalf("code=%d body=%q", rec.Code, rec.Body.String())
	}
}

func TestHandle_ErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{perr.NotFoundf("campaign %s not found", "c1"), http.StatusNotFound},
		{perr.InvalidArgf("end_date must not be before today"), http.StatusUnprocessableEntity},
		{perr.Validationf("audios is required"), http.StatusBadRequest},
		{perr.Upstreamf("tikapi: status 500"), http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		h := phttp.Handle(func(*http.Request) phttp.Response { return phttp.Error(tc.err) })
		rec := httptest.NewRecorder()
		h(rec, reqWithReqID("GET", "/err", "rid-3"))

		if rec.Code != tc.want {
			t.Fatalf("%v: status = %d, want %d", tc.err, rec.Code, tc.want)
		}
		env := decode(t, rec)
		if env.Error == "" || env.RequestID != "rid-3" || env.Data != nil {
			t.Fatalf("bad error envelope: %+v", env)
		}
	}
}

func TestHandle_Headers(t *testing.T) {
	h := phttp.Handle(func(*http.Request) phttp.Response {
		resp := phttp.OK("hello")
		resp.Header = http.Header{}
		resp.Header.Set("X-Thing", "yup")
		return resp
	})
	rec := httptest.NewRecorder()
	h(rec, reqWithReqID("GET", "/hdr", "rid-4"))
	if got := rec.Header().Get("X-Thing"); got != "yup" {
		t.Fatalf("header = %q", got)
	}
}

func TestErrorEnvelope(t *testing.T) {
	status, env := phttp.ErrorEnvelope(perr.Conflictf("code taken"), "rid-5")
	if status != http.StatusConflict || env.Code != perr.ErrorCodeConflict || env.Error != "code taken" {
		t.Fatalf("status=%d env=%+v", status, env)
	}
}

func TestErrorEnvelope_Field(t *testing.T) {
	err := perr.WithField(perr.InvalidArgf("end_date must be after start_date"), "end_date")
	status, env := phttp.ErrorEnvelope(err, "")
	if status != http.StatusUnprocessableEntity || env.Field != "end_date" {
		t.Fatalf("status=%d env=%+v", status, env)
	}

	_, env = phttp.ErrorEnvelope(errors.New("plain"), "")
	if env.Field != "" {
		t.Fatalf("plain error got field %q", env.Field)
	}
}
