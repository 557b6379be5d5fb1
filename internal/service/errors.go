package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"eventgo/internal/apiclient"
)

// NoResponseMessage is the fixed text for calls that never got an answer.
const NoResponseMessage = "No response from server. Please check your connection."

// ErrorKind classifies a normalized service error.
type ErrorKind int

const (
	// KindResponse: the backend answered with an error status.
	KindResponse ErrorKind = iota + 1
	// KindNoResponse: the request was sent but nothing came back.
	KindNoResponse
	// KindSetup: the request could not be built or sent.
	KindSetup
)

func (k ErrorKind) String() string {
	switch k {
	case KindResponse:
		return "response"
	case KindNoResponse:
		return "no_response"
	case KindSetup:
		return "setup"
	default:
		return "unknown"
	}
}

// Error is the only error type returned by resource services. It carries a
// display-ready message and deliberately does not unwrap to the transport
// error.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// IsNotFound reports whether err is a normalized 404 from the backend.
func IsNotFound(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == KindResponse && se.Status == 404
}

// Normalize maps any transport failure into a *Error. A nil error stays nil
// and an already-normalized error is returned unchanged.
func Normalize(err error) error {
	if err == nil {
		return nil
	}

	var (
		already  *Error
		respErr  *apiclient.ResponseError
		noResp   *apiclient.NoResponseError
		setupErr *apiclient.SetupError
	)
	switch {
	case errors.As(err, &already):
		return already
	case errors.As(err, &respErr):
		msg := serverMessage(respErr.Body)
		if msg == "" {
			msg = respErr.Error()
		}
		return &Error{
			Kind:    KindResponse,
			Status:  respErr.Status,
			Message: fmt.Sprintf("API Error (%d): %s", respErr.Status, msg),
		}
	case errors.As(err, &noResp):
		return &Error{Kind: KindNoResponse, Message: NoResponseMessage}
	case errors.As(err, &setupErr):
		return &Error{Kind: KindSetup, Message: "Request setup error: " + setupErr.Error()}
	default:
		return &Error{Kind: KindSetup, Message: "Request setup error: " + err.Error()}
	}
}

// serverMessage extracts a non-empty string "message" field from a JSON
// error body.
func serverMessage(body []byte) string {
	var payload struct {
		Message any `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	s, ok := payload.Message.(string)
	if !ok {
		return ""
	}
	return s
}

func decodeError(status int, err error) error {
	return &Error{
		Kind:    KindResponse,
		Status:  status,
		Message: fmt.Sprintf("API Error (%d): invalid response body: %v", status, err),
	}
}
