package api

import (
	"encoding/json"
	"fmt"
)

// ConnectivityMessage is the fixed user-facing text for failures where
// no response was received (offline, DNS, timeout).
const ConnectivityMessage = "Network error. Please check your internet connection and try again."

// Error is the normalized shape every client failure is converted to
// before it reaches a caller. Status > 0 means the server responded
// with that status; Status == 0 means no response was received or the
// request could not be built.
type Error struct {
	// Message is a human-readable description, never empty.
	Message string
	// Status is the HTTP status code, or 0 for transport and local errors.
	Status int
	// Data is the raw server error payload, nil if unavailable.
	Data []byte
}

func (e *Error) Error() string { return e.Message }

// errorEnvelope is the loosely-typed server error body. Probing of its
// optional fields lives here and nowhere else.
type errorEnvelope struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

// ServerMessage extracts the message the server supplied with an error
// response, preferring the message field and then the first entry of
// the errors list. Returns "" when the server supplied neither.
func (e *Error) ServerMessage() string {
	if e.Status == 0 || len(e.Data) == 0 {
		return ""
	}
	var env errorEnvelope
	if err := json.Unmarshal(e.Data, &env); err != nil {
		return ""
	}
	if env.Message != "" {
		return env.Message
	}
	if len(env.Errors) > 0 {
		return env.Errors[0]
	}
	return ""
}

// newServerError normalizes an error-status response.
func newServerError(status int, body []byte) *Error {
	e := &Error{Status: status, Data: body}
	if msg := e.ServerMessage(); msg != "" {
		e.Message = msg
	} else {
		e.Message = fmt.Sprintf("Server error: %d", status)
	}
	return e
}

// newTransportError normalizes a failure where no response arrived.
func newTransportError() *Error {
	return &Error{Message: ConnectivityMessage, Status: 0}
}

// newLocalError normalizes a client-side construction failure.
func newLocalError(err error) *Error {
	msg := "An unexpected error occurred"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return &Error{Message: msg, Status: 0}
}
