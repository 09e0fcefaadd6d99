package errors

import (
	"encoding/json"
	"net/http"
)

type APIError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ConflictError is returned for a duplicate swipe together with the decision
// that is already on record.
type ConflictError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Swipe   any    `json:"swipe,omitempty"`
}

func Write(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
