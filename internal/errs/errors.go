package errs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindServer Kind = iota
	KindValidation
	KindNotFound
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindTransport:
		return "transport"
	default:
		return "server"
	}
}

// Error is the one error type surfaced to views. Message is always fit for display.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	// Body holds the raw response body of a failed request, if any.
	Body []byte
	Err  error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Status: http.StatusNotFound, Message: message}
}

func Transport(err error) *Error {
	return &Error{Kind: KindTransport, Message: fmt.Sprintf("request failed: %v", err), Err: err}
}

func Server(status int, message string, body []byte) *Error {
	return &Error{Kind: KindServer, Status: status, Message: message, Body: body}
}

// StatusMessage is the fallback message for a response whose body carries none.
func StatusMessage(status int) string {
	return fmt.Sprintf("%d %s", status, http.StatusText(status))
}

var (
	ErrBusy        = Validation("another request is already in progress")
	ErrNotSignedIn = Validation("Please sign in to place an order")
)

func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindTransport
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the displayable text for err, or fallback when err carries none.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	if fallback != "" {
		return fallback
	}
	return err.Error()
}

// CountsAsFailure reports whether err says something about the health of the
// remote service. Client mistakes (4xx, validation) and cancelled requests do not.
func CountsAsFailure(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var e *Error
	if !errors.As(err, &e) {
		return true
	}
	switch e.Kind {
	case KindTransport:
		return true
	case KindServer:
		return e.Status >= http.StatusInternalServerError
	default:
		return false
	}
}
