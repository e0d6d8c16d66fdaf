package api

import (
	_ "embed"
	"encoding/json"
	"net/http"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed openapi.yaml
var openAPIYAML []byte

// OpenAPISpec returns the embedded OpenAPI document as YAML.
func OpenAPISpec() []byte {
	return openAPIYAML
}

// OpenAPISpecJSON returns the OpenAPI document converted to JSON.
func OpenAPISpecJSON() ([]byte, error) {
	var spec map[string]any
	if err := yaml.Unmarshal(openAPIYAML, &spec); err != nil {
		return nil, err
	}
	return json.Marshal(spec)
}

// OpenAPIHandler serves the document, as JSON when the client asks for it.
func OpenAPIHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.Header.Get("Accept"), "application/json") {
			spec, err := OpenAPISpecJSON()
			if err != nil {
				http.Error(w, "Failed to convert OpenAPI spec to JSON", http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(spec)
			return
		}

		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(openAPIYAML)
	}
}

// SwaggerUIHandler serves a Swagger UI page that loads specURL.
func SwaggerUIHandler(specURL string) http.HandlerFunc {
	page := strings.ReplaceAll(swaggerUIPage, "{{SPEC_URL}}", specURL)
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	}
}

const swaggerUIPage = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Todo API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui.css">
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui-bundle.js"></script>
    <script src="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui-standalone-preset.js"></script>
    <script>
        window.onload = function() {
            window.ui = SwaggerUIBundle({
                url: "{{SPEC_URL}}",
                dom_id: '#swagger-ui',
                deepLinking: true,
                presets: [
                    SwaggerUIBundle.presets.apis,
                    SwaggerUIStandalonePreset
                ],
                layout: "StandaloneLayout"
            });
        };
    </script>
</body>
</html>`
