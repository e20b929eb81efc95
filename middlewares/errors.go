package middlewares

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrymomot/polyglot/internal"
)

// PanicError is returned by Recover when a handler panics.
type PanicError struct {
	Value any
	Stack []byte // nil when stack capture is disabled
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes the panic value when it is itself an error.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// TimeoutError is returned by Timeout when a handler misses its deadline.
type TimeoutError struct {
	Duration time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timeout after %s", e.Duration)
}

// Unwrap makes errors.Is(err, context.DeadlineExceeded) report true.
func (e *TimeoutError) Unwrap() error {
	return context.DeadlineExceeded
}

// IsPanicError reports whether err wraps a PanicError.
func IsPanicError(err error) bool {
	_, ok := AsPanicError(err)
	return ok
}

// IsTimeoutError reports whether err wraps a TimeoutError.
func IsTimeoutError(err error) bool {
	_, ok := AsTimeoutError(err)
	return ok
}

// AsPanicError extracts the PanicError from err.
func AsPanicError(err error) (*PanicError, bool) {
	return as[*PanicError](err)
}

// AsTimeoutError extracts the TimeoutError from err.
func AsTimeoutError(err error) (*TimeoutError, bool) {
	return as[*TimeoutError](err)
}

func as[T error](err error) (T, bool) {
	var target T
	if err != nil && errors.As(err, &target) {
		return target, true
	}
	return target, false
}

// ErrorBody is the JSON document written by JSONErrors.
type ErrorBody struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// JSONErrors is an ErrorHandler that writes every handler error as an
// ErrorBody. Panics become 500 and timeouts become 503. When an HTTPError
// carries an ErrorCode, the message is looked up with the request translator
// and the HTTPError message is used when no translation exists.
func JSONErrors(c internal.Context, err error) error {
	status := http.StatusInternalServerError
	body := ErrorBody{
		Error:     http.StatusText(status),
		RequestID: GetRequestID(c),
	}

	switch {
	case IsPanicError(err):
	case IsTimeoutError(err):
		status = http.StatusServiceUnavailable
		body.Error = http.StatusText(status)
	default:
		if he := internal.AsHTTPError(err); he != nil {
			status = he.Code
			body.Error = he.Message
			body.Code = he.ErrorCode
			body.Detail = he.Detail
			if he.ErrorCode != "" {
				if msg := c.T(he.ErrorCode); msg != he.ErrorCode {
					body.Error = msg
				}
			}
			if he.RequestID != "" {
				body.RequestID = he.RequestID
			}
		}
	}

	if status >= http.StatusInternalServerError {
		c.LogError("request failed", "status", status, "error", err)
	}

	return c.JSON(status, body)
}
