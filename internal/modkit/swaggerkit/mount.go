// Package swaggerkit mounts Swagger UI and the OpenAPI JSON document
package swaggerkit

import (
	"net/http"

	phttp "campaigntracker/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Mount serves the UI under /api/docs/ and the document at /api/docs/doc.json;
// basePath becomes the document's server url
func Mount(r phttp.Router, enabled bool, basePath string) {
	if !enabled {
		return
	}
	r.Get("/api/docs", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/api/docs/", http.StatusPermanentRedirect)
	})
	r.Get("/api/docs/doc.json", serveDocJSON(basePath))
	r.Handle("/api/docs/*", httpSwagger.Handler(
		httpSwagger.InstanceName("api"),
		httpSwagger.URL("/api/docs/doc.json"),
	))
}
