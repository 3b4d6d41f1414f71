package swagger

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
)

// Error constants.
var (
	ErrNilRouter = errors.New("swagger: router is nil")
)

// redocScript is the ReDoc bundle served by the page at /api-docs.
const redocScript = "https://cdn.redoc.ly/redoc/v2.1.5/bundles/redoc.standalone.js"

// Register attaches the API docs routes to router.
// Routes:
//
//	GET /api-docs     -> ReDoc HTML
//	GET /openapi.yaml -> Embedded OpenAPI document
func Register(_ context.Context, router *mux.Router) error {
	if router == nil {
		return ErrNilRouter
	}

	router.HandleFunc("/api-docs", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(indexHTML))
	}).Methods(http.MethodGet)

	router.HandleFunc("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		_, _ = w.Write(OpenAPI)
	}).Methods(http.MethodGet)

	return nil
}

const indexHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>cricscore API</title>
    <style>body{margin:0;padding:0}</style>
  </head>
  <body>
    <redoc id="redoc-container"></redoc>
    <script src="` + redocScript + `"></script>
    <script>Redoc.init('/openapi.yaml', { suppressWarnings: true }, document.getElementById('redoc-container'));</script>
  </body>
</html>`
