package evexml

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Sentinel errors for the failure classes callers are expected to branch on.
// Wrapped errors carry context; test with errors.Is or the Is* helpers below.
var (
	// ErrInvalidEndpoint reports an endpoint path that does not match the
	// category/Call shape the API serves.
	ErrInvalidEndpoint = errors.New("invalid endpoint")

	// ErrMissingCredential reports an authenticated call attempted without
	// a usable key pair.
	ErrMissingCredential = errors.New("missing credential")

	// ErrInvalidCredential reports a key pair the remote refused to
	// authenticate. Retrying with the same pair will not succeed.
	ErrInvalidCredential = errors.New("invalid credential")
)

// TransportError reports a failure to reach the API or read its response.
// The wrapped error is the underlying network failure.
type TransportError struct {
	Endpoint Endpoint
	Err      error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("calling %s: %v", e.Endpoint, e.Err)
}

// Unwrap returns the underlying network error.
func (e *TransportError) Unwrap() error { return e.Err }

// StatusError reports a non-2xx HTTP response from the API.
type StatusError struct {
	Endpoint   Endpoint
	StatusCode int
	Status     string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("calling %s: unexpected status %s", e.Endpoint, e.Status)
}

// APIError reports an error document returned by the API in-band, inside an
// otherwise well-formed envelope. Code and Message come from the document.
type APIError struct {
	Endpoint Endpoint
	Code     int
	Message  string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("calling %s: api error %d: %s", e.Endpoint, e.Code, e.Message)
}

// credentialRejected reports whether an in-band error code means the remote
// refused the key pair itself, as opposed to the particular request.
// Codes 202-212 are authentication failures, 222 is an expired key and 223 a
// disabled legacy key.
func credentialRejected(code int) bool {
	return (code >= 202 && code <= 212) || code == 222 || code == 223
}

// IsInvalidEndpoint reports whether err came from endpoint validation.
func IsInvalidEndpoint(err error) bool { return errors.Is(err, ErrInvalidEndpoint) }

// IsMissingCredential reports whether err came from an authenticated call
// attempted without a key pair.
func IsMissingCredential(err error) bool { return errors.Is(err, ErrMissingCredential) }

// IsInvalidCredential reports whether err came from the remote rejecting a
// key pair.
func IsInvalidCredential(err error) bool { return errors.Is(err, ErrInvalidCredential) }

// IsTransport reports whether err is a network-level failure. Such calls may
// succeed on retry.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsRemote reports whether the API answered but refused the request, either
// with a non-2xx status or an in-band error document.
func IsRemote(err error) bool {
	var se *StatusError
	var ae *APIError
	return errors.As(err, &se) || errors.As(err, &ae)
}
