package constant

import "net/http"

type ErrorType int

const (
	Successful ErrorType = iota
	ErrInternal
	ErrNotFound
	ErrInvalidRequest
	ErrUnauthorize
	ErrCredentialExists
	ErrInvalidPassword
	ErrUserNotFound
	ErrTokenExpired
	ErrForbidden
	ErrTooManyAttempts
	ErrMethodNotAllowed
)

// invalidCredentialMessage is shared by ErrUserNotFound and ErrInvalidPassword
// so the response does not reveal which accounts exist.
const invalidCredentialMessage = "Invalid email/phone or password"

var ErrorTypeMessage = map[ErrorType]string{
	Successful:          "Success",
	ErrInternal:         "Server error",
	ErrNotFound:         "Data not found",
	ErrInvalidRequest:   "Invalid request",
	ErrUnauthorize:      "Unauthorized",
	ErrCredentialExists: "Email or phone already registered",
	ErrInvalidPassword:  invalidCredentialMessage,
	ErrUserNotFound:     invalidCredentialMessage,
	ErrTokenExpired:     "Token expired",
	ErrForbidden:        "Forbidden",
	ErrTooManyAttempts:  "Too many login attempts, try again later",
	ErrMethodNotAllowed: "Method not allowed",
}

var ErrorTypeHTTPCode = map[ErrorType]int{
	Successful:          http.StatusOK,
	ErrInternal:         http.StatusInternalServerError,
	ErrNotFound:         http.StatusNotFound,
	ErrInvalidRequest:   http.StatusBadRequest,
	ErrUnauthorize:      http.StatusUnauthorized,
	ErrCredentialExists: http.StatusConflict,
	ErrInvalidPassword:  http.StatusUnauthorized,
	ErrUserNotFound:     http.StatusUnauthorized,
	ErrTokenExpired:     http.StatusUnauthorized,
	ErrForbidden:        http.StatusForbidden,
	ErrTooManyAttempts:  http.StatusTooManyRequests,
	ErrMethodNotAllowed: http.StatusMethodNotAllowed,
}

// ErrorTypeCode is the internal code used in logs. It is not sent to clients.
var ErrorTypeCode = map[ErrorType]string{
	Successful:          "0000",
	ErrInternal:         "0001",
	ErrNotFound:         "0002",
	ErrInvalidRequest:   "0003",
	ErrUnauthorize:      "0004",
	ErrCredentialExists: "0005",
	ErrInvalidPassword:  "0006",
	ErrUserNotFound:     "0007",
	ErrTokenExpired:     "0008",
	ErrForbidden:        "0009",
	ErrTooManyAttempts:  "0010",
	ErrMethodNotAllowed: "0011",
}
