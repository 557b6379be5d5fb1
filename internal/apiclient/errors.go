package apiclient

import (
	"fmt"
	"net/http"
)

// ResponseError means the backend answered with a non-2xx status.
type ResponseError struct {
	Status int
	Header http.Header
	Body   []byte
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("Request failed with status code %d", e.Status)
}

// NoResponseError means the request was sent but no response arrived
// (connection refused, timeout, reset, cancelled context).
type NoResponseError struct {
	Method string
	URL    string
	Err    error
}

func (e *NoResponseError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NoResponseError) Unwrap() error { return e.Err }

// SetupError means the request could not be built, so nothing was sent.
type SetupError struct {
	Err error
}

func (e *SetupError) Error() string { return e.Err.Error() }

func (e *SetupError) Unwrap() error { return e.Err }
