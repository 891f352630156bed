package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Error is an error that knows which HTTP status it maps to.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func Validation(message string) *Error {
	return New(http.StatusBadRequest, message, nil)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, message, nil)
}

func Forbidden(message string) *Error {
	return New(http.StatusForbidden, message, nil)
}

// BusinessRule is a request the backend (or checkout rules) refused, e.g. not enough slots.
func BusinessRule(message string) *Error {
	return New(http.StatusUnprocessableEntity, message, nil)
}

func Upstream(message string, err error) *Error {
	return New(http.StatusBadGateway, message, err)
}

var (
	ErrSessionExpired = New(http.StatusUnauthorized, "session expired", nil)
	ErrNotLoggedIn    = New(http.StatusUnauthorized, "no authentication token found", nil)
)

// Message returns the user-facing message of err.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// Code returns the HTTP status carried by err, or 500.
func Code(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}

// Handler renders every error as {"error": message}.
func Handler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := "internal server error"

		var appErr *Error
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &appErr):
			code = appErr.Code
			message = appErr.Message
		case errors.As(err, &httpErr):
			code = httpErr.Code
			message = fmt.Sprint(httpErr.Message)
		}

		if code >= http.StatusInternalServerError {
			log.Error("request error", zap.String("path", c.Path()), zap.Error(err))
		}

		if err := c.JSON(code, map[string]string{"error": message}); err != nil {
			log.Error("write error response", zap.Error(err))
		}
	}
}
