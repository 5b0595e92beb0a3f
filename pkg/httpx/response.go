package httpx

import (
	"encoding/json"
	"net/http"
)

// StatusResponse is the uniform rejection body for the API:
// {"status": false, "message": "..."}.
type StatusResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message,omitempty"`
}

// WriteJSON writes a JSON response with the given status code. It sets
// no-store cache headers since most of what we serve is credential material.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteStatus writes the standard {status:false, message} rejection body.
func WriteStatus(w http.ResponseWriter, code int, message string) {
	WriteJSON(w, code, StatusResponse{Status: false, Message: message})
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
