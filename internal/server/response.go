package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/me/nfisoseq/pkg/model"
)

// requestID generates a unique request identifier.
func requestID() string {
	return "req_" + uuid.New().String()[:8]
}

// respondError writes an error body.
func respondError(w http.ResponseWriter, status int, apiErr *model.APIError) {
	respondJSON(w, status, model.ErrorResponse{Error: apiErr})
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
