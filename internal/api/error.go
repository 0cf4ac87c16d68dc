package api

import "errors"

// Error codes produced by the transport itself. Service-declared codes are
// passed through verbatim and are not enumerated here.
const (
	// CodeUnauthorized means the session was rejected by the service.
	// Receiving it implies the local session has already been torn down.
	CodeUnauthorized = "UNAUTHORIZED"

	// CodeParseError means the service declared a JSON response but sent
	// malformed JSON.
	CodeParseError = "PARSE_ERROR"

	// CodeNetworkError means the request never produced an HTTP response
	// (connection, DNS, cancellation). StatusCode is 0.
	CodeNetworkError = "NETWORK_ERROR"

	// CodeUnknownError means a non-success status with no structured error
	// body.
	CodeUnknownError = "UNKNOWN_ERROR"
)

// Error is the single typed error crossing the transport boundary.
// No raw HTTP status, header, or body surfaces un-normalized.
type Error struct {
	// StatusCode is the HTTP status, or 0 for network failures.
	StatusCode int

	// Code is a machine-readable error code, either one of the Code*
	// constants or a code declared by the service.
	Code string

	// Message is a human-readable description.
	Message string

	// Details carries the service's error details payload, if any.
	Details any
}

func (e *Error) Error() string {
	return e.Message
}

// HasStatus reports whether err is a transport *Error with the given HTTP
// status code.
func HasStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// HasCode reports whether err is a transport *Error with the given code.
func HasCode(err error, code string) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Code == code
}
