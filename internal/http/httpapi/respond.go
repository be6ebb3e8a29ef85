package httpapi

import (
	"encoding/json"
	"net/http"
)

// FieldError is one keyed validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorBody is the error envelope every endpoint returns:
// { "message": ..., "errors": [...] }.
type ErrorBody struct {
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// WriteJSON writes payload as a JSON response.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteError writes the standard error envelope.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorBody{Message: message})
}

// WriteValidationErrors writes a 422 with the keyed field errors.
func WriteValidationErrors(w http.ResponseWriter, message string, errs map[string]string) {
	body := ErrorBody{Message: message}
	for field, msg := range errs {
		body.Errors = append(body.Errors, FieldError{Field: field, Message: msg})
	}
	WriteJSON(w, http.StatusUnprocessableEntity, body)
}
