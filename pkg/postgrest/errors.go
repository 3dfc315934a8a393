package postgrest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies request failures into the small fixed taxonomy the
// API surface exposes. The mapping is total: statuses without a dedicated
// kind classify as KindUnknown.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNotAuthorized
	KindInvalidParameters
	KindNotFound
	KindConflict
	KindHTTP   // transport-level failure, no status code received
	KindDecode // response body could not be parsed
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotAuthorized:
		return "not_authorized"
	case KindInvalidParameters:
		return "invalid_parameters"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindHTTP:
		return "http"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// KindFromStatus maps an HTTP status code to an ErrorKind.
func KindFromStatus(status int) ErrorKind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindNotAuthorized
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindInvalidParameters
	case http.StatusNotFound, http.StatusNotAcceptable:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	default:
		return KindUnknown
	}
}

// Error is a classified request failure. Code, Details and Hint carry the
// structured PostgREST error body when one was returned.
type Error struct {
	Kind    ErrorKind
	Status  int
	Code    string
	Message string
	Details string
	Hint    string
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	s := fmt.Sprintf("postgrest: %s", msg)
	if e.Code != "" {
		s = fmt.Sprintf("postgrest: error %s (%d): %s", e.Code, e.Status, msg)
	} else if e.Status != 0 {
		s = fmt.Sprintf("postgrest: %s (status %d)", msg, e.Status)
	}
	if e.Details != "" {
		s += fmt.Sprintf("; details: %s", e.Details)
	}
	if e.Hint != "" {
		s += fmt.Sprintf("; hint: %s", e.Hint)
	}
	return s
}

// IsKind reports whether err is a postgrest Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// errorBody is the structured error response PostgREST returns, e.g.
//
//	{"code":"42703","message":"column x does not exist","details":null,"hint":"..."}
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// errorFromResponse builds an Error from a non-2xx response, preferring the
// structured body when it parses.
func errorFromResponse(status int, body []byte) *Error {
	e := &Error{
		Kind:   KindFromStatus(status),
		Status: status,
	}
	var eb errorBody
	if len(body) > 0 && json.Unmarshal(body, &eb) == nil && eb.Message != "" {
		e.Code = eb.Code
		e.Message = eb.Message
		e.Details = eb.Details
		e.Hint = eb.Hint
	} else if len(body) > 0 {
		e.Message = string(body)
	}
	return e
}
