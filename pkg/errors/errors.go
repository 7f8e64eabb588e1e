package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	ErrorTypeNetwork                ErrorType = "network"
	ErrorTypeTimeout                ErrorType = "timeout"
	ErrorTypeHTTPStatus             ErrorType = "http_status"
	ErrorTypeParsing                ErrorType = "parsing"
	ErrorTypeMissingName            ErrorType = "missing_name"
	ErrorTypeMissingImage           ErrorType = "missing_image"
	ErrorTypeFilesystem             ErrorType = "filesystem"
	ErrorTypeDestinationUnavailable ErrorType = "destination_unavailable"
	ErrorTypeUnknown                ErrorType = "unknown"
)

// Error carries a type alongside the message so callers can branch on the
// failure class without string matching.
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	Err     error
}

var (
	ErrMissingName            = &Error{Type: ErrorTypeMissingName, Message: "emote name heading not found"}
	ErrMissingImage           = &Error{Type: ErrorTypeMissingImage, Message: "emote image not found"}
	ErrDestinationUnavailable = &Error{Type: ErrorTypeDestinationUnavailable, Message: "no destination directory available"}
)

func (e *Error) Error() string {
	msg := e.Message
	if e.Code != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Code)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same type.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// New creates a typed error.
func New(errorType ErrorType, message string) *Error {
	return &Error{Type: errorType, Message: message}
}

// Wrap creates a typed error around a cause.
func Wrap(errorType ErrorType, err error, message string) *Error {
	return &Error{Type: errorType, Message: message, Err: err}
}

// Status creates an http_status error for a non-2xx response.
func Status(code int, url string) *Error {
	return &Error{
		Type:    ErrorTypeHTTPStatus,
		Message: fmt.Sprintf("unexpected response from %s", url),
		Code:    code,
	}
}

// FromTransport classifies an error returned by an HTTP round trip.
func FromTransport(err error, url string) *Error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return Wrap(ErrorTypeTimeout, err, fmt.Sprintf("request to %s timed out", url))
	}
	return Wrap(ErrorTypeNetwork, err, fmt.Sprintf("request to %s failed", url))
}

// TypeOf returns the type of the first *Error in err's chain.
func TypeOf(err error) ErrorType {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}

// IsTransport reports whether err came from the network or the remote server.
func IsTransport(err error) bool {
	switch TypeOf(err) {
	case ErrorTypeNetwork, ErrorTypeTimeout, ErrorTypeHTTPStatus:
		return true
	default:
		return false
	}
}
