package errors

import "github.com/muhammadheryan/artisanhub/constant"

type CustomError struct {
	errType constant.ErrorType
	cause   error
}

func (c CustomError) Error() string {
	return constant.ErrorTypeMessage[c.errType]
}

func (c CustomError) ErrorCode() string {
	return constant.ErrorTypeCode[c.errType]
}

func (c CustomError) ErrorHTTPCode() int {
	return constant.ErrorTypeHTTPCode[c.errType]
}

func (c CustomError) ErrorType() constant.ErrorType {
	return c.errType
}

// Unwrap exposes the underlying cause for logging. It never reaches the client.
func (c CustomError) Unwrap() error {
	return c.cause
}

// Is matches another CustomError of the same type, regardless of cause.
func (c CustomError) Is(target error) bool {
	t, ok := target.(CustomError)
	if !ok {
		return false
	}
	return t.errType == c.errType
}

func SetCustomError(errorType constant.ErrorType) CustomError {
	return CustomError{
		errType: errorType,
	}
}

// WrapCustomError keeps cause attached to the typed error.
func WrapCustomError(errorType constant.ErrorType, cause error) CustomError {
	return CustomError{
		errType: errorType,
		cause:   cause,
	}
}
