package helpers

import (
	"encoding/json"
	"net/http"

	"devevents/internal/domain"
)

// ErrorResponse is the body of every error response. Error carries the underlying detail and
// Errors the individual field failures of a validation error.
// swagger:model ErrorResponse
type ErrorResponse struct {
	Message string              `json:"message"`
	Error   string              `json:"error,omitempty"`
	Errors  []domain.FieldError `json:"errors,omitempty"`
}

// WriteJSON sets Content-Type to application/json, writes statusCode and encodes body.
func WriteJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteJSONError writes an ErrorResponse with the given message and detail.
func WriteJSONError(w http.ResponseWriter, statusCode int, message, detail string) {
	WriteJSON(w, statusCode, ErrorResponse{Message: message, Error: detail})
}

// WriteValidationError writes a 400 ErrorResponse listing the field failures carried by err.
func WriteValidationError(w http.ResponseWriter, message string, err error) {
	WriteJSON(w, http.StatusBadRequest, ErrorResponse{
		Message: message,
		Error:   err.Error(),
		Errors:  domain.FieldErrors(err),
	})
}
