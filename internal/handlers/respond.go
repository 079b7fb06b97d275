package handlers

import (
	"encoding/json"
	"net/http"
)

// respondJSON writes a JSON body with the given status code.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// respondError writes the {"message": ...} error shape the frontend
// expects.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}
