// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/z5labs/webhost/exchange"
)

// ErrorHandler turns a handler failure into a response.
type ErrorHandler interface {
	HandleError(req *exchange.Request, resp *exchange.Response, err error) (any, error)
}

// ErrorHandlerFunc is a func implementation of [ErrorHandler].
type ErrorHandlerFunc func(req *exchange.Request, resp *exchange.Response, err error) (any, error)

// HandleError implements the [ErrorHandler] interface.
func (f ErrorHandlerFunc) HandleError(req *exchange.Request, resp *exchange.Response, err error) (any, error) {
	return f(req, resp, err)
}

// StatusError associates an HTTP status code with a failure.
type StatusError struct {
	Code  int
	Cause error
}

// Errorf returns a [StatusError] with a formatted cause.
func Errorf(code int, format string, args ...any) error {
	return StatusError{
		Code:  code,
		Cause: fmt.Errorf(format, args...),
	}
}

// Error implements the [builtin.error] interface.
func (e StatusError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Code, http.StatusText(e.Code), e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e StatusError) Unwrap() error {
	return e.Cause
}

// DefaultErrorHandler responds in plain text. A [StatusError] decides the
// status code, otherwise 500 is used. Client errors echo the cause while
// server errors only expose the status text.
var DefaultErrorHandler ErrorHandler = ErrorHandlerFunc(func(req *exchange.Request, resp *exchange.Response, err error) (any, error) {
	code := http.StatusInternalServerError
	msg := err.Error()

	var serr StatusError
	if errors.As(err, &serr) {
		code = serr.Code
		if serr.Cause != nil {
			msg = serr.Cause.Error()
		}
	}
	if code >= http.StatusInternalServerError {
		msg = http.StatusText(code)
	}

	resp.SetCode(code).SetContentType(exchange.PlainTextUTF8)
	return msg, nil
})
