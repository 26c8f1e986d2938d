package backendsdk

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Backend error codes. These are the stable contract with the backend;
// human-readable descriptions are for display only and never matched on.
const (
	CodeInvalidCredentials = "invalid_credentials"
	CodeInvalidCode        = "invalid_code"
	CodeChallengeExpired   = "challenge_expired"
	CodeSessionExpired     = "session_expired"
	CodeReloginRequired    = "relogin_required"
	CodeInvalidFingerprint = "invalid_fingerprint"
	CodeServerError        = "server_error"
)

// Error represents an error response from the backend.
type Error struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int

	// Code is the backend error code (e.g. "invalid_code").
	Code string

	// Message is the backend's human-readable description, surfaced to the
	// user verbatim for code-entry failures.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// HasCode reports whether err is a backend Error with the given code.
func HasCode(err error, code string) bool {
	var be *Error
	return errors.As(err, &be) && be.Code == code
}

// IsTimeout reports whether err represents an exceeded call deadline.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// parseErrorResponse turns a non-2xx backend response into a typed *Error.
func parseErrorResponse(resp *http.Response, body []byte) error {
	var envelope errorResponse
	if err := unmarshalLenient(body, &envelope); err == nil && envelope.Error != "" {
		return &Error{
			StatusCode: resp.StatusCode,
			Code:       envelope.Error,
			Message:    envelope.ErrorDescription,
		}
	}

	return &Error{
		StatusCode: resp.StatusCode,
		Code:       CodeServerError,
		Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
