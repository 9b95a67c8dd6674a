package common

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies the terminal, user-actionable failures this service
// produces. Transient storage errors are not part of this taxonomy and must
// not be reinterpreted as one of these kinds.
type ErrorKind string

const (
	KindPermissionDenied ErrorKind = "PERMISSION_DENIED"
	KindInvalidInput     ErrorKind = "INVALID_INPUT"
	KindNotFound         ErrorKind = "NOT_FOUND"
	KindInvalidState     ErrorKind = "INVALID_STATE"
	KindExpired          ErrorKind = "EXPIRED"
)

// Error is a kinded error surfaced verbatim to the caller. The message is
// shown in the dashboard, so it must distinguish causes ("already accepted"
// vs "cancelled") rather than collapsing them into "invalid link".
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NewError creates a kinded error with a fixed message.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// NewErrorf creates a kinded error with a formatted message.
func NewErrorf(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind from an error chain. The second return is false
// for errors outside the taxonomy.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// HTTPStatus maps an error kind to its response status.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindPermissionDenied:
		return http.StatusForbidden
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidState:
		return http.StatusConflict
	case KindExpired:
		return http.StatusGone
	}
	return http.StatusInternalServerError
}
