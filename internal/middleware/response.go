package middleware

import (
	"encoding/json"
	"net/http"
)

// errorEnvelope is the API error body.
type errorEnvelope struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorEnvelope{Error: true, Message: message})
}
