package apiserver

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed openapi.yaml
var openAPISpec []byte

// OpenAPIHandler serves the API description and a Swagger UI page
type OpenAPIHandler struct {
	logger   *zap.Logger
	specJSON []byte
}

// NewOpenAPIHandler parses the embedded document once so a malformed file fails at startup
func NewOpenAPIHandler(logger *zap.Logger) (*OpenAPIHandler, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(openAPISpec, &doc); err != nil {
		return nil, fmt.Errorf("parse openapi spec: %w", err)
	}

	specJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode openapi spec: %w", err)
	}

	return &OpenAPIHandler{logger: logger, specJSON: specJSON}, nil
}

// ServeOpenAPISpec serves the OpenAPI specification in YAML format
func (h *OpenAPIHandler) ServeOpenAPISpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/x-yaml")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(openAPISpec); err != nil {
		h.logger.Debug("Failed to write OpenAPI spec", zap.Error(err))
	}
}

// ServeOpenAPIJSON serves the OpenAPI specification in JSON format
func (h *OpenAPIHandler) ServeOpenAPIJSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(h.specJSON); err != nil {
		h.logger.Debug("Failed to write OpenAPI spec", zap.Error(err))
	}
}

// ServeSwaggerUI serves a basic Swagger UI interface
func (h *OpenAPIHandler) ServeSwaggerUI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	// The page loads assets from a CDN, so it needs a looser policy than the API
	w.Header().Set("Content-Security-Policy", "default-src 'self' https://unpkg.com 'unsafe-inline'")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, swaggerPage)
}

const swaggerPage = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Kondate API Documentation</title>
    <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui.css" />
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui-bundle.js"></script>
    <script>
        window.onload = function() {
            SwaggerUIBundle({
                url: '/api/v1/openapi.yaml',
                dom_id: '#swagger-ui',
                deepLinking: true,
                displayRequestDuration: true
            });
        };
    </script>
</body>
</html>`
