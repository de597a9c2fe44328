package http

import (
	"errors"
	"fmt"
)

// ErrorDomain identifies errors produced by this package, as opposed to
// errors passed through from a Transport.
const ErrorDomain = "com.wesleyorama2.naivehttp.error"

// Error codes for failures classified locally. HTTP status failures use the
// status code itself.
const (
	CodeBodyEncoding  = -1
	CodeDecode        = -2
	CodeInvalidMethod = -3
	CodeNoResponse    = -4
	CodeInvalidURI    = -13
)

// Sentinel kinds, matchable with errors.Is against any *Error.
var (
	ErrInvalidURI    = errors.New("invalid uri")
	ErrInvalidMethod = errors.New("invalid method")
	ErrBodyEncoding  = errors.New("body encoding failed")
	ErrHTTPStatus    = errors.New("http status error")
	ErrDecode        = errors.New("response decode failed")
	ErrNoResponse    = errors.New("transport returned no response")
)

// Error is a failure classified by this package.
type Error struct {
	Domain string
	Code   int
	Reason string

	kind  error
	cause error
}

func newError(code int, reason string, kind, cause error) *Error {
	return &Error{
		Domain: ErrorDomain,
		Code:   code,
		Reason: reason,
		kind:   kind,
		cause:  cause,
	}
}

// statusError builds the classification for a response at or above
// StatusFailureThreshold.
func statusError(status int) *Error {
	return newError(status, fmt.Sprintf("HTTP Error %d", status), ErrHTTPStatus, nil)
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s (%d): %s: %v", e.Domain, e.Code, e.Reason, e.cause)
	}
	return fmt.Sprintf("%s (%d): %s", e.Domain, e.Code, e.Reason)
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.kind != nil {
		errs = append(errs, e.kind)
	}
	if e.cause != nil {
		errs = append(errs, e.cause)
	}
	return errs
}

// StatusCode returns the HTTP status carried by an ErrHTTPStatus failure.
func StatusCode(err error) (int, bool) {
	var e *Error
	if errors.As(err, &e) && errors.Is(e.kind, ErrHTTPStatus) {
		return e.Code, true
	}
	return 0, false
}
