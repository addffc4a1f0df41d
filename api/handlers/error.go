package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/tebben/cadastreur/errors"
)

// HandleError writes an APIError as the JSON response body.
func HandleError(w http.ResponseWriter, apiError errors.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiError.Status)
	if err := json.NewEncoder(w).Encode(apiError); err != nil {
		http.Error(w, "Failed to encode JSON", http.StatusInternalServerError)
	}
}
