//
// Tencent is pleased to support the open source community by making trpc-graphqa-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-graphqa-go is licensed under the Apache License Version 2.0.
//
//

// Package trace provides OpenTelemetry tracing for trpc-graphqa-go.
package trace

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentName is the instrumentation scope of all spans emitted by this module.
const InstrumentName = "trpc.graphqa.go"

// Tracer is the global tracer. It is a no-op tracer until Start installs a provider.
var Tracer trace.Tracer = otel.Tracer(InstrumentName)

const (
	defaultServiceName  = "trpc-graphqa-go"
	defaultGRPCEndpoint = "localhost:4317"
)

type options struct {
	serviceName string
	endpoint    string
	headers     map[string]string
	insecure    bool
}

// Option configures Start.
type Option func(*options)

// WithServiceName sets the service.name resource attribute.
func WithServiceName(name string) Option {
	return func(o *options) {
		o.serviceName = name
	}
}

// WithEndpoint sets the OTLP gRPC collector endpoint, "host:port".
func WithEndpoint(endpoint string) Option {
	return func(o *options) {
		o.endpoint = endpoint
	}
}

// WithHeaders sets extra headers sent with every export request.
func WithHeaders(headers map[string]string) Option {
	return func(o *options) {
		o.headers = headers
	}
}

// WithSecure enables TLS towards the collector.
func WithSecure() Option {
	return func(o *options) {
		o.insecure = false
	}
}

// Start installs a batching OTLP gRPC trace exporter as the global provider.
// The returned function flushes and shuts the provider down.
func Start(ctx context.Context, opts ...Option) (func() error, error) {
	o := options{
		serviceName: defaultServiceName,
		endpoint:    tracesEndpoint(),
		insecure:    true,
	}
	for _, opt := range opts {
		opt(&o)
	}

	exporterOpts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(o.endpoint)}
	if o.insecure {
		exporterOpts = append(exporterOpts, otlptracegrpc.WithInsecure())
	}
	if len(o.headers) > 0 {
		exporterOpts = append(exporterOpts, otlptracegrpc.WithHeaders(o.headers))
	}
	exporter, err := otlptracegrpc.New(ctx, exporterOpts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp trace exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", o.serviceName),
		)),
	)
	otel.SetTracerProvider(provider)
	Tracer = provider.Tracer(InstrumentName)

	return func() error {
		return provider.Shutdown(context.Background())
	}, nil
}

// tracesEndpoint resolves the collector endpoint from the standard OTEL
// environment variables, the traces specific one taking precedence.
func tracesEndpoint() string {
	if ep := os.Getenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"); ep != "" {
		return ep
	}
	if ep := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); ep != "" {
		return ep
	}
	return defaultGRPCEndpoint
}
