package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

const (
	CodeValidation   = "ERR_VALIDATION"
	CodeBadRequest   = "ERR_BAD_REQUEST"
	CodeReferenced   = "ERR_REFERENCED"
	CodeNotFound     = "ERR_NOT_FOUND"
	CodeUnauthorized = "ERR_UNAUTHORIZED"
	CodeTokenInvalid = "ERR_TOKEN_INVALID"
	CodeForbidden    = "ERR_FORBIDDEN"
	CodeInternal     = "ERR_INTERNAL"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the error type handlers translate into an HTTP status.
// Anything else reaching a handler is reported as ERR_INTERNAL.
type Error struct {
	Code    string
	Message string
	Details []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func NotFound(resource string) *Error {
	return &Error{Code: CodeNotFound, Message: resource + " not found"}
}

func Validation(message string, details ...FieldError) *Error {
	return &Error{Code: CodeValidation, Message: message, Details: details}
}

// FieldInvalid is a validation error about a single input field.
func FieldInvalid(field, message string) *Error {
	return Validation("validation failed", FieldError{Field: field, Message: message})
}

func BadRequest(message string) *Error {
	return &Error{Code: CodeBadRequest, Message: message}
}

func Referenced(message string) *Error {
	return &Error{Code: CodeReferenced, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Code: CodeUnauthorized, Message: message}
}

func TokenInvalid(message string, err error) *Error {
	return &Error{Code: CodeTokenInvalid, Message: message, Err: err}
}

func Forbidden(message string) *Error {
	return &Error{Code: CodeForbidden, Message: message}
}

// IsCode reports whether err is a *Error with the given code.
func IsCode(err error, code string) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// lookupErr maps a missing row to ERR_NOT_FOUND.
func lookupErr(err error, resource string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(resource)
	}
	return fmt.Errorf("failed to load %s: %w", resource, err)
}

// writeErr maps constraint violations raised by an insert or update.
// uniqueField names the field reported for a duplicate key when the caller
// could not pin it down before writing.
func writeErr(err error, resource, uniqueField string) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		e := FieldInvalid(uniqueField, "a "+resource+" with this "+uniqueField+" already exists")
		e.Err = err
		return e
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		e := Validation("a referenced record does not exist")
		e.Err = err
		return e
	}
	return fmt.Errorf("failed to save %s: %w", resource, err)
}

// deleteErr maps a restricted delete to ERR_REFERENCED.
func deleteErr(err error, resource string) error {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		e := Referenced(fmt.Sprintf("cannot delete %s: it is referenced by other records", resource))
		e.Err = err
		return e
	}
	return fmt.Errorf("failed to delete %s: %w", resource, err)
}
