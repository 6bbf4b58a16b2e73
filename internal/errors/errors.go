package errors

import (
	stderrors "errors"
	"net/http"
)

// Kind classifies an application error for the HTTP layer.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindTooManyRequests
)

// Client-facing texts shared by the auth middleware, the services and the
// HTTP error handler.
const (
	// InternalMessage is the only text clients ever see for unclassified failures.
	InternalMessage    = "На сервере произошла ошибка"
	MsgAuthRequired    = "Необходима авторизация."
	MsgTooManyRequests = "Слишком много запросов, попробуйте позже."
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Message string `json:"message"`
}

// AppError is the error value returned by services and handlers.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps the error kind to an HTTP status code.
func (e *AppError) StatusCode() int {
	switch e.Kind {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// ToErrorResponse converts an AppError to the client-facing body.
// Internal errors never expose their message.
func (e *AppError) ToErrorResponse() ErrorResponse {
	if e.Kind == KindInternal {
		return ErrorResponse{Message: InternalMessage}
	}
	return ErrorResponse{Message: e.Message}
}

func newError(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func BadRequest(message string, err error) *AppError {
	return newError(KindBadRequest, message, err)
}

func Unauthorized(message string, err error) *AppError {
	return newError(KindUnauthorized, message, err)
}

func Forbidden(message string, err error) *AppError {
	return newError(KindForbidden, message, err)
}

func NotFound(message string, err error) *AppError {
	return newError(KindNotFound, message, err)
}

func Conflict(message string, err error) *AppError {
	return newError(KindConflict, message, err)
}

func TooManyRequests(message string) *AppError {
	return newError(KindTooManyRequests, message, nil)
}

func Internal(err error) *AppError {
	return newError(KindInternal, InternalMessage, err)
}

// MapErrorToHTTP finds the AppError in err's chain, or wraps err as Internal.
func MapErrorToHTTP(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// IsKind reports whether err carries an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Kind == kind
}
