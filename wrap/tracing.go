// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package wrap

import (
	"github.com/z5labs/webhost/exchange"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracing starts a span around every invocation. A nil tracer uses the
// global tracer provider.
func Tracing(tracer trace.Tracer) Wrapper {
	if tracer == nil {
		tracer = otel.Tracer("github.com/z5labs/webhost/wrap")
	}
	return WrapperFunc(func(req *exchange.Request, next Invocation) (any, error) {
		ctx, span := tracer.Start(
			req.Context(),
			req.Verb()+" "+req.Path(),
			trace.WithAttributes(
				attribute.String("http.method", req.Verb()),
				attribute.String("http.target", req.Path()),
			),
		)
		defer span.End()

		req.SetContext(ctx)
		if id := req.ID(); id != "" {
			span.SetAttributes(attribute.String("request.id", id))
		}

		v, err := next()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return v, err
	})
}
