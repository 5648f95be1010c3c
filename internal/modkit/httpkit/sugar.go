package httpkit

import (
	"net/http"

	phttp "campaigntracker/internal/platform/net/http"
)

// Get mounts a body-less handler under GET
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, Call(h))
}

// PostJSON mounts a bound and validated JSON handler under POST
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	phttp.PostJSON(r, path, h)
}

// CreateJSON mounts a JSON handler under POST that answers 201
func CreateJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	phttp.PostJSONCreated(r, path, h)
}
