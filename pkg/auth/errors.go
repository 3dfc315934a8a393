package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies GoTrue failures.
type ErrorKind int

const (
	ErrGeneral ErrorKind = iota
	ErrNotAuthorized
	ErrInvalidParameters
	ErrNotFound
	ErrHTTP     // transport-level failure
	ErrInternal // response could not be decoded
)

func (k ErrorKind) String() string {
	switch k {
	case ErrNotAuthorized:
		return "not_authorized"
	case ErrInvalidParameters:
		return "invalid_parameters"
	case ErrNotFound:
		return "not_found"
	case ErrHTTP:
		return "http"
	case ErrInternal:
		return "internal"
	default:
		return "general"
	}
}

// Error is a classified GoTrue failure.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("auth: %s", e.Kind)
	}
	if e.Status != 0 {
		return fmt.Sprintf("auth: %s (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("auth: %s: %s", e.Kind, e.Message)
}

// IsKind reports whether err is an auth Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// errorBody is GoTrue's error response shape; which fields are populated
// varies by endpoint.
type errorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

func (b errorBody) text() string {
	switch {
	case b.ErrorDescription != "":
		return b.ErrorDescription
	case b.Msg != "":
		return b.Msg
	case b.Message != "":
		return b.Message
	default:
		return b.Error
	}
}

func errorFromResponse(status int, body []byte) *Error {
	e := &Error{Status: status}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		e.Kind = ErrNotAuthorized
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		e.Kind = ErrInvalidParameters
	case http.StatusNotFound, http.StatusNotAcceptable:
		e.Kind = ErrNotFound
	default:
		e.Kind = ErrGeneral
	}

	var eb errorBody
	if len(body) > 0 && json.Unmarshal(body, &eb) == nil && eb.text() != "" {
		e.Message = eb.text()
	} else if len(body) > 0 {
		e.Message = string(body)
	}
	return e
}
