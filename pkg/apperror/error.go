package apperror

import "net/http"

// Actions tell the client what the user can do next.
const (
	ActionReturnToLogin = "return_to_login"
	ActionSignUp        = "sign_up"
	ActionSignIn        = "sign_in"
	ActionRetry         = "retry"
	ActionCheckEmail    = "check_email"
)

type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithAction attaches a call to action and returns the same error.
func (e *AppError) WithAction(action string) *AppError {
	e.Action = action
	return e
}

func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, message, nil)
}

func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, message, nil)
}

func Forbidden(message string) *AppError {
	return New(http.StatusForbidden, message, nil)
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message, nil)
}

func Conflict(message string) *AppError {
	return New(http.StatusConflict, message, nil)
}

func TooManyRequests(message string) *AppError {
	return New(http.StatusTooManyRequests, message, nil)
}

// Unavailable wraps a failure of an upstream service (auth gateway, storage).
func Unavailable(message string, err error) *AppError {
	return New(http.StatusServiceUnavailable, message, err).WithAction(ActionRetry)
}

func Internal(err error) *AppError {
	return New(http.StatusInternalServerError, "Internal Server Error", err)
}
