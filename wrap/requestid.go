// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package wrap

import (
	"github.com/z5labs/webhost/exchange"

	"github.com/google/uuid"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-Id"

// RequestID assigns every request an id, reusing an inbound
// [RequestIDHeader] when present, and echoes it in the response.
func RequestID() Wrapper {
	return WrapperFunc(func(req *exchange.Request, next Invocation) (any, error) {
		id := req.Header(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		req.SetID(id)
		req.Response().Header().Set(RequestIDHeader, id)
		return next()
	})
}
