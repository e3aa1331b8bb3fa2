// Package errors defines the tagged errors the lifecycle service returns to
// its callers. Every failure carries a stable machine-readable code and a
// human-readable message; internal record shapes and storage error detail are
// never surfaced.
package errors

import (
	"errors"
	"net/http"

	internalerrors "github.com/carebridge/carebridge/internal/errors"
	"github.com/carebridge/carebridge/pkg/storage"
)

const InternalServerErrorMsg = "Internal Server Error"

// Code is the stable machine-readable error tag.
type Code string

const (
	CodeNotFound          Code = "not_found"
	CodeForbidden         Code = "forbidden"
	CodeInvalidTransition Code = "invalid_transition"
	CodeInviteExpired     Code = "invite_expired"
	CodeInviteRevoked     Code = "invite_revoked"
	CodeEmailMismatch     Code = "email_mismatch"
	CodeInviteExists      Code = "invite_exists"
	CodeShareExists       Code = "share_exists"
	CodeInvalidShare      Code = "invalid_share"
	CodeInvalidCursor     Code = "invalid_cursor"
	CodeServerError       Code = "server_error"
)

// ErrorResponse is the wire shape of a failure.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// GrantError is a tagged error with an HTTP status for the transport layer
// and a hidden internal cause for logs.
type GrantError struct {
	code       Code
	httpStatus int
	message    string
	internal   error
}

func (e *GrantError) Error() string {
	return e.message
}

// Code returns the stable error tag.
func (e *GrantError) Code() Code {
	return e.code
}

// HTTPStatus returns the HTTP status the transport layer should use.
func (e *GrantError) HTTPStatus() int {
	return e.httpStatus
}

// Internal returns the hidden cause, nil for non-infrastructure errors.
func (e *GrantError) Internal() error {
	return e.internal
}

// Response returns the caller-facing shape of the error.
func (e *GrantError) Response() ErrorResponse {
	return ErrorResponse{
		Code:    string(e.code),
		Message: e.message,
	}
}

// Is matches errors by code so sentinel comparisons survive wrapping.
func (e *GrantError) Is(target error) bool {
	var t *GrantError
	if errors.As(target, &t) {
		return e.code == t.code
	}
	return false
}

var (
	ErrNotFound = &GrantError{
		code: CodeNotFound, httpStatus: http.StatusNotFound,
		message: "Record not found",
	}
	ErrForbidden = &GrantError{
		code: CodeForbidden, httpStatus: http.StatusForbidden,
		message: "Not allowed to perform this action",
	}
	ErrInvalidTransition = &GrantError{
		code: CodeInvalidTransition, httpStatus: http.StatusConflict,
		message: "Requested status transition is not allowed",
	}
	ErrInviteExpired = &GrantError{
		code: CodeInviteExpired, httpStatus: http.StatusGone,
		message: "Invitation has expired",
	}
	ErrInviteRevoked = &GrantError{
		code: CodeInviteRevoked, httpStatus: http.StatusGone,
		message: "Invitation has been revoked",
	}
	ErrEmailMismatch = &GrantError{
		code: CodeEmailMismatch, httpStatus: http.StatusForbidden,
		message: "Invitation was issued to a different email address",
	}
	ErrInviteExists = &GrantError{
		code: CodeInviteExists, httpStatus: http.StatusConflict,
		message: "A pending invitation for this recipient already exists",
	}
	ErrShareExists = &GrantError{
		code: CodeShareExists, httpStatus: http.StatusConflict,
		message: "A share with this recipient already exists",
	}
	ErrInvalidShare = &GrantError{
		code: CodeInvalidShare, httpStatus: http.StatusBadRequest,
		message: "Cannot share with this recipient",
	}
	ErrInvalidCursor = &GrantError{
		code: CodeInvalidCursor, httpStatus: http.StatusBadRequest,
		message: "Invalid pagination cursor",
	}
)

// NewInternalError hides an internal cause behind a public message. Internal
// errors are safe for the caller to retry: every mutating operation is
// idempotent with respect to final state.
func NewInternalError(public string, internal error) *GrantError {
	if public == "" {
		public = InternalServerErrorMsg
	}

	return &GrantError{
		code:       CodeServerError,
		httpStatus: http.StatusInternalServerError,
		message:    public,
		internal:   internalerrors.With(internal, errors.New(public)),
	}
}

// HandleError is used to hide internal errors from callers. Use `public` to
// return an error message to the caller.
func HandleError(public string, err error) error {
	switch {
	case errors.Is(err, storage.ErrInvalidContinuationToken):
		return ErrInvalidCursor
	case errors.Is(err, storage.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, storage.ErrCancelled):
		return NewInternalError("Request Cancelled", err)
	}
	return NewInternalError(public, err)
}
