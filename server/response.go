package server

import (
	"encoding/json"
	"net/http"
)

// Response envelopes mirror the original service's json_return shape:
// the HTTP status code is repeated in the body.

// writeJSON writes a JSON success envelope with the given status code
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"code": status,
		"data": data,
	})
}

// writeMessage writes a plain message envelope
func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    status,
		"message": message,
	})
}

// writeError writes a JSON error envelope
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"code":  status,
		"error": message,
	})
}
