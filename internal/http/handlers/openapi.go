package handlers

import (
	_ "embed"
	"html/template"
	"net/http"

	"ouroz/internal/gateway"
)

//go:embed openapi.json
var openAPISpec []byte

var docsPage = template.Must(template.New("docs").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>OUROZ AI Gateway</title></head>
<body>
<h1>OUROZ AI Gateway</h1>
<p>Machine-readable description: <a href="/v1/openapi.json">/v1/openapi.json</a></p>
<ul>
{{range .}}<li><code>POST /api/ai/{{.}}</code></li>
{{end}}</ul>
</body>
</html>`))

func (a *App) OpenAPIJSON(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openAPISpec)
}

// OpenAPIDocs renders a route index for the AI operations.
func (a *App) OpenAPIDocs(w http.ResponseWriter, _ *http.Request) {
	routes := make([]string, 0, len(gateway.Operations))
	for _, op := range gateway.Operations {
		routes = append(routes, op.Route())
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := docsPage.Execute(w, routes); err != nil {
		a.logger().Error().Err(err).Msg("render docs")
	}
}
