// Package apierr defines the stable error contract of the HTTP API. Every
// rejection carries a machine-readable code and a fixed message; internal
// error text never reaches the client.
package apierr

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Error pairs an HTTP status with the wire-level body {message, error_code}.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func (e *Error) Error() string { return e.Code + ": " + e.Message }

// The full rejection vocabulary. Handlers and middleware return these values;
// nothing else is ever serialized to a client on failure.
var (
	InvalidCredentials      = &Error{Status: http.StatusUnauthorized, Code: "INVALID_CREDENTIALS", Message: "Invalid email or password."}
	InvalidToken            = &Error{Status: http.StatusUnauthorized, Code: "INVALID_TOKEN", Message: "Token is invalid or has been revoked. Please log in again."}
	TokenExpired            = &Error{Status: http.StatusForbidden, Code: "TOKEN_EXPIRED", Message: "Token has expired. Please log in again."}
	AccessTokenRequired     = &Error{Status: http.StatusForbidden, Code: "ACCESS_TOKEN_REQUIRED", Message: "Please provide an access token."}
	RefreshTokenRequired    = &Error{Status: http.StatusForbidden, Code: "REFRESH_TOKEN_REQUIRED", Message: "Please provide a refresh token."}
	UserNotFound            = &Error{Status: http.StatusNotFound, Code: "USER_NOT_FOUND", Message: "User not found."}
	BookNotFound            = &Error{Status: http.StatusNotFound, Code: "BOOK_NOT_FOUND", Message: "Book not found."}
	UserAlreadyExists       = &Error{Status: http.StatusForbidden, Code: "USER_ALREADY_EXISTS", Message: "User with this email already exists."}
	InsufficientPermissions = &Error{Status: http.StatusForbidden, Code: "INSUFFICIENT_PERMISSIONS", Message: "You do not have permission to perform this action."}
	Internal                = &Error{Status: http.StatusInternalServerError, Code: "INTERNAL_SERVER_ERROR", Message: "Something went wrong. Please try again later."}
)

// BadRequest builds a validation rejection with a caller-supplied message.
func BadRequest(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: "BAD_REQUEST", Message: message}
}

// From maps an arbitrary error to its wire representation. Unrecognized
// errors collapse to Internal so no detail leaks.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Internal
}

// Write serializes e to w with its paired status code.
func Write(w http.ResponseWriter, e *Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Status)
	_ = json.NewEncoder(w).Encode(e)
}
