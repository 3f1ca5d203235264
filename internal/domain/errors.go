package domain

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrEventNotFound is returned when a booking references an event that does not exist.
	ErrEventNotFound = &wrappedError{msg: "referenced event does not exist", err: ErrNotFound}
	// ErrConflict is returned when a write violates a unique constraint (e.g. duplicate slug).
	ErrConflict = errors.New("conflict")
	// ErrInvalidInput is returned when input fails validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUpload is returned when the asset store rejects or fails an upload.
	ErrUpload = errors.New("image upload failed")
)

type wrappedError struct {
	msg string
	err error
}

func (e *wrappedError) Error() string { return e.msg }
func (e *wrappedError) Unwrap() error { return e.err }

// FieldError is a single failed rule on a named field.
// swagger:model FieldError
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries the ordered field failures of one validation pass.
// errors.Is(err, ErrInvalidInput) reports true for it.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Message)
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// FieldErrors returns the field failures carried by err, or nil if err is not a validation error.
func FieldErrors(err error) []FieldError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Errors
	}
	return nil
}
