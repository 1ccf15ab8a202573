package catalog

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError reports a draft rejected locally before any request was
// issued. It never reaches the network.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// APIError represents a non-success response from the backing service. The
// message is the server's error string, passed through verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("catalog: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("catalog: HTTP %d: %s", e.StatusCode, e.Message)
}

// TransportError reports a request that could not complete at all
// (connection refused, timeout, malformed response body).
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("catalog: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a local validation failure
func IsValidation(err error) bool {
	var validationError *ValidationError
	return errors.As(err, &validationError)
}

// IsRemoteRejection reports whether err is a non-success service response
func IsRemoteRejection(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError)
}

// IsNotFound reports whether err is a 404 response
func IsNotFound(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == http.StatusNotFound
}

// IsTransport reports whether err is a transport failure
func IsTransport(err error) bool {
	var transportError *TransportError
	return errors.As(err, &transportError)
}
