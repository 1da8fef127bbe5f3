package errors

import (
	"errors"
	"net/http"
)

// Kind classifies an Error for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindConflict
	KindNotFound
	KindUnauthorized
	KindPayloadTooLarge
)

// Error is a user-visible failure: a kind plus the message returned to the
// client. Err keeps the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

var (
	ErrInvalidPasswordFormat = &Error{Kind: KindInvalidInput, Message: "Invalid password format"}
	ErrInvalidEmailFormat    = &Error{Kind: KindInvalidInput, Message: "Invalid email format"}
	ErrEmailAlreadyInUse     = &Error{Kind: KindConflict, Message: "Email already exists"}

	// Both login failures carry the same message so callers cannot tell a
	// missing account from a wrong password.
	ErrUserNotFound       = &Error{Kind: KindNotFound, Message: "Invalid email or password"}
	ErrInvalidCredentials = &Error{Kind: KindUnauthorized, Message: "Invalid email or password"}

	ErrMissingAuthHeader = &Error{Kind: KindUnauthorized, Message: "Missing authorization header"}
	ErrInvalidAuthHeader = &Error{Kind: KindUnauthorized, Message: "Invalid authorization header"}
	ErrInvalidToken      = &Error{Kind: KindUnauthorized, Message: "Invalid or expired token"}

	ErrFileTooLarge      = &Error{Kind: KindPayloadTooLarge, Message: "File size exceeds 1 MB limit"}
	ErrMissingImage      = &Error{Kind: KindInvalidInput, Message: "post_image is required"}
	ErrUnsupportedImage  = &Error{Kind: KindInvalidInput, Message: "Only image uploads are allowed"}
	ErrInvalidPagination = &Error{Kind: KindInvalidInput, Message: "Invalid pagination parameters"}
	ErrNoPostsFound      = &Error{Kind: KindNotFound, Message: "No data found"}
)

// Internal wraps an unexpected failure. The message is the cause's message.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: err.Error(), Err: err}
}

// NotFound builds a not-found error with a custom message.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// StatusCode maps an error to its HTTP status. Errors that are not *Error
// are internal.
func StatusCode(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}

	switch e.Kind {
	case KindInvalidInput, KindConflict:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing message for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
