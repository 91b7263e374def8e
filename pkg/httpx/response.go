package httpx

import (
	"encoding/json"
	"net/http"
)

// Standard envelope messages.
const (
	MsgValidationError = "Validation Error."
	MsgNotFound        = "Page not found"
	MsgUnauthorized    = "Unauthorized"
	MsgInternalError   = "An internal error occurred"
)

// Envelope is the body shape of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
// It automatically sets the Content-Type header and Cache-Control headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// This is commonly required for sensitive responses like tokens.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// WriteSuccess writes {success:true, message}.
func WriteSuccess(w http.ResponseWriter, code int, message string) {
	WriteJSON(w, code, Envelope{Success: true, Message: message})
}

// WriteSuccessData writes {success:true, message, data}.
func WriteSuccessData(w http.ResponseWriter, code int, message string, data any) {
	WriteJSON(w, code, Envelope{Success: true, Message: message, Data: data})
}

// WriteValidationError writes a 400 with the per-field errors as data.
func WriteValidationError(w http.ResponseWriter, fields any) {
	WriteJSON(w, http.StatusBadRequest, Envelope{Message: MsgValidationError, Data: fields})
}

func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusUnauthorized, Envelope{Message: message})
}

func WriteError(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusInternalServerError, Envelope{Message: message})
}

func WriteNotFound(w http.ResponseWriter) {
	WriteJSON(w, http.StatusNotFound, Envelope{Message: MsgNotFound})
}
