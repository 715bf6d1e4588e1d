// Package domainerrors provides coded errors for the service layer.
//
// Stores return sentinel errors (pkg/platform/sentinel) for infrastructure
// facts; services translate those into coded domain errors that the HTTP
// layer can map onto status codes without inspecting error strings.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code classifies a domain error for transport mapping.
type Code string

const (
	// CodeValidation marks missing or malformed required input. The caller
	// must correct the request and resend.
	CodeValidation Code = "validation_error"
	// CodeBadRequest marks a request body or parameter that could not be
	// parsed at all.
	CodeBadRequest Code = "bad_request"
	// CodeNotFound marks an identifier that does not resolve.
	CodeNotFound Code = "not_found"
	// CodeForbidden marks a failed authorization check.
	CodeForbidden Code = "forbidden"
	// CodeInternal marks persistence failures and post-condition
	// violations. Details are logged server-side, never returned.
	CodeInternal Code = "internal_error"
)

// Error is a domain error with a transport-mappable code.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return e.Message
}

// New constructs a coded domain error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for
// uncategorized errors.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to its HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeBadRequest:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
