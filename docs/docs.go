// Package docs раздаёт OpenAPI-описание API для Swagger UI.
package docs

import (
	_ "embed"
	"net/http"
)

//go:embed openapi.json
var OpenAPI []byte

func Handler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(OpenAPI)
}
