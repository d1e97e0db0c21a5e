package fakeapi

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// errorResponse mirrors the detail envelope of the real packing API.
type errorResponse struct {
	Detail string `json:"detail"`
	Code   int    `json:"code"`
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("fakeapi: failed to encode JSON response")
	}
}

// writeError writes a standardized error response
func writeError(w http.ResponseWriter, statusCode int, detail string) {
	writeJSON(w, statusCode, errorResponse{Detail: detail, Code: statusCode})
}
