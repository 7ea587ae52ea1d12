// Package errs defines the error taxonomy shared by registration, storage and the web layer.
package errs

import (
	"errors"
	"fmt"
)

// Kind identifies the category of an error.
type Kind string

const (
	// KindValidation is a user-correctable input problem. It is never retried.
	KindValidation Kind = "VALIDATION"

	// KindPersistence means the store was unreachable or rejected a write.
	KindPersistence Kind = "PERSISTENCE"
)

// Reason narrows a Kind down to the specific failure.
type Reason string

const (
	ReasonMissingField    Reason = "missing_field"
	ReasonInvalidNumber   Reason = "invalid_number"
	ReasonInvalidSupplier Reason = "invalid_supplier"
	ReasonDuplicateID     Reason = "duplicate_id"
	ReasonNotComputed     Reason = "not_computed"

	ReasonDuplicateKey Reason = "duplicate_key"
	ReasonUnavailable  Reason = "unavailable"
)

// Error is a domain error carrying its kind, reason and, for field problems, the field name.
type Error struct {
	Kind    Kind
	Reason  Reason
	Field   string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s/%s] %s: %v", e.Kind, e.Reason, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s/%s] %s", e.Kind, e.Reason, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Validation creates a validation error about field.
func Validation(reason Reason, field, message string) *Error {
	return &Error{Kind: KindValidation, Reason: reason, Field: field, Message: message}
}

// Validationf creates a validation error with a formatted message.
func Validationf(reason Reason, field, format string, args ...any) *Error {
	return Validation(reason, field, fmt.Sprintf(format, args...))
}

// Persistence wraps a store failure.
func Persistence(reason Reason, message string, cause error) *Error {
	return &Error{Kind: KindPersistence, Reason: reason, Message: message, Cause: cause}
}

// As extracts the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	e, ok := As(err)
	return ok && e.Kind == KindValidation
}

// IsPersistence reports whether err is a persistence failure.
func IsPersistence(err error) bool {
	e, ok := As(err)
	return ok && e.Kind == KindPersistence
}

// ReasonOf returns the reason of err, or "" when err is not an *Error.
func ReasonOf(err error) Reason {
	if e, ok := As(err); ok {
		return e.Reason
	}
	return ""
}

// UserMessage returns the message to show in the UI.
func UserMessage(err error) string {
	if e, ok := As(err); ok {
		return e.Message
	}
	return "Ocurrió un error inesperado."
}
