// Package apperr defines the error taxonomy shared by every operation:
// a stable machine-checkable kind plus a human message.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	// Internal is the default for errors that carry no kind.
	Internal Kind = iota
	// Validation covers missing or malformed required input.
	Validation
	// NotFound means a referenced complaint, department or user is absent.
	NotFound
	// Conflict covers duplicate upvotes, duplicate registrations and
	// illegal status transitions.
	Conflict
	// Unauthorized covers missing, invalid or unresolvable credentials.
	Unauthorized
	// Upstream covers geocoding, AI and notification provider failures.
	Upstream
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	case Unauthorized:
		return "unauthorized"
	case Upstream:
		return "upstream"
	default:
		return "internal"
	}
}

// HTTPStatus maps a kind to the response status used by the HTTP layer.
func (k Kind) HTTPStatus() int {
	switch k {
	case Validation:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case Unauthorized:
		return http.StatusUnauthorized
	case Upstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, message string, err error) error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from err, defaulting to Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// MessageOf returns the human message from err, or a generic one when the
// error carries no kind (internal details never leak to callers).
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Something went wrong"
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
