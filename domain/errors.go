package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the harvester error taxonomy.
var (
	// ErrInvalidCategory indicates an unrecognized category string.
	// Raised at query construction, before any network I/O.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrMalformedResponse indicates a response page whose XML could
	// not be parsed at all.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrTransport indicates an HTTP-level failure: a non-success
	// status code or a network error.
	ErrTransport = errors.New("transport error")
)

// InvalidCategoryError reports a category string that matches none of
// the recognized notations or lookup tables.
type InvalidCategoryError struct {
	Input string
}

// Error implements the error interface.
func (e *InvalidCategoryError) Error() string {
	return fmt.Sprintf("invalid category: %q", e.Input)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *InvalidCategoryError) Unwrap() error {
	return ErrInvalidCategory
}

// MalformedResponseError reports a page whose top-level XML failed to
// parse. Missing fields inside an otherwise valid page never produce
// this error.
type MalformedResponseError struct {
	Cause error
}

// Error implements the error interface.
func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response: %v", e.Cause)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *MalformedResponseError) Unwrap() error {
	return ErrMalformedResponse
}

// TransportError reports an HTTP failure. StatusCode is zero for
// network-level failures, in which case Cause carries the connection
// error.
type TransportError struct {
	StatusCode int
	Cause      error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transport error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("transport error: %v", e.Cause)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *TransportError) Unwrap() error {
	return ErrTransport
}

// OAIError reports a protocol-level error element returned by the
// OAI-PMH endpoint inside an HTTP 200 response (badArgument,
// badResumptionToken, ...). noRecordsMatch is not surfaced this way;
// the parser treats it as an empty completed result.
type OAIError struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *OAIError) Error() string {
	return fmt.Sprintf("oai-pmh error %s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *OAIError) Unwrap() error {
	return ErrTransport
}

// NewInvalidCategoryError creates a new InvalidCategoryError.
func NewInvalidCategoryError(input string) *InvalidCategoryError {
	return &InvalidCategoryError{Input: input}
}

// NewMalformedResponseError creates a new MalformedResponseError.
func NewMalformedResponseError(cause error) *MalformedResponseError {
	return &MalformedResponseError{Cause: cause}
}

// NewTransportError creates a new TransportError.
func NewTransportError(statusCode int, cause error) *TransportError {
	return &TransportError{StatusCode: statusCode, Cause: cause}
}

// IsOverloaded reports whether err is a 503 Service Unavailable
// transport error, the endpoint's overload signal. The harvest loop
// recovers from these by sleeping and retrying; every other transport
// error is fatal.
func IsOverloaded(err error) bool {
	var terr *TransportError
	return errors.As(err, &terr) && terr.StatusCode == http.StatusServiceUnavailable
}
