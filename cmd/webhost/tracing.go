// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// UnknownExporterError is returned for an unsupported --trace value.
type UnknownExporterError struct {
	Name string
}

// Error implements the [builtin.error] interface.
func (e UnknownExporterError) Error() string {
	return fmt.Sprintf("unknown trace exporter: %q", e.Name)
}

type traceOptions struct {
	exporter     string
	otlpEndpoint string
	out          io.Writer
}

func newTracerProvider(ctx context.Context, serviceName string, opts traceOptions) (*sdktrace.TracerProvider, error) {
	res, err := resource.New(
		ctx,
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, err
	}

	var exporter sdktrace.SpanExporter
	switch opts.exporter {
	case "", "none":
		return sdktrace.NewTracerProvider(
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sdktrace.NeverSample()),
		), nil
	case "stdout":
		exporter, err = stdouttrace.New(stdouttrace.WithWriter(opts.out))
	case "otlp":
		exporter, err = otlptracegrpc.New(
			ctx,
			otlptracegrpc.WithEndpoint(opts.otlpEndpoint),
			otlptracegrpc.WithInsecure(),
		)
	default:
		return nil, UnknownExporterError{Name: opts.exporter}
	}
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
	)
	return tp, nil
}
