package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform response shape every endpoint returns. Other
// components depend on this exact layout; do not change field names.
type Envelope struct {
	Status    string `json:"status"` // "Success" or "Error"
	TypeError string `json:"typeError"`
	Message   string `json:"message"`
	Data      any    `json:"data"`
}

// typeError discriminants carried in error envelopes.
const (
	TypeInvalidInput = "INVALID_INPUT"
	TypeInvalid      = "INVALID"
	TypeNotFound     = "NOT_FOUND"
	TypeUnauthorized = "UNAUTHORIZED"
	TypeForbidden    = "FORBIDDEN"
	TypeAlreadyExist = "ALREADY_EXIST"
	TypeUnavailable  = "UNAVAILABLE"
	TypeInternal     = "INTERNAL_SERVER_ERROR"
)

// WriteJSON writes a JSON response with the given status code and sets
// no-cache headers, since everything here is credential-adjacent.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteSuccess writes a success envelope.
func WriteSuccess(w http.ResponseWriter, code int, message string, data any) {
	WriteJSON(w, code, Envelope{
		Status:  "Success",
		Message: message,
		Data:    data,
	})
}

// WriteError writes an error envelope.
func WriteError(w http.ResponseWriter, code int, typeError, message string) {
	WriteJSON(w, code, Envelope{
		Status:    "Error",
		TypeError: typeError,
		Message:   message,
	})
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
