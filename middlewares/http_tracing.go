// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2025 UnderNET

package middlewares

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// HTTPTracingConfig holds configuration for HTTP tracing middleware
type HTTPTracingConfig struct {
	// Skipper defines a function to skip middleware
	Skipper func(echo.Context) bool
	// TracerProvider is the OpenTelemetry tracer provider
	TracerProvider trace.TracerProvider
	// ServiceName is used for span naming and attributes
	ServiceName string
	// Propagator is used for trace context propagation
	Propagator propagation.TextMapPropagator
}

// DefaultHTTPTracingConfig provides default configuration
var DefaultHTTPTracingConfig = HTTPTracingConfig{
	Skipper:     func(echo.Context) bool { return false },
	ServiceName: "drupal-authsource",
}

// HTTPTracing returns a middleware that starts a server span per request, names it
// after the route and adds the trace IDs to the request logger
func HTTPTracing(tracerProvider trace.TracerProvider, serviceName string) echo.MiddlewareFunc {
	return HTTPTracingWithConfig(HTTPTracingConfig{
		TracerProvider: tracerProvider,
		ServiceName:    serviceName,
	})
}

// HTTPTracingWithConfig returns a middleware with custom configuration
func HTTPTracingWithConfig(config HTTPTracingConfig) echo.MiddlewareFunc {
	if config.Skipper == nil {
		config.Skipper = DefaultHTTPTracingConfig.Skipper
	}
	if config.ServiceName == "" {
		config.ServiceName = DefaultHTTPTracingConfig.ServiceName
	}
	if config.Propagator == nil {
		config.Propagator = otel.GetTextMapPropagator()
	}
	if config.TracerProvider == nil {
		config.TracerProvider = otel.GetTracerProvider()
	}

	base := otelecho.Middleware(
		config.ServiceName,
		otelecho.WithTracerProvider(config.TracerProvider),
		otelecho.WithPropagators(config.Propagator),
		otelecho.WithSkipper(config.Skipper),
	)

	enhance := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			span := trace.SpanFromContext(c.Request().Context())
			if !span.IsRecording() {
				return next(c)
			}

			req := c.Request()
			name := fmt.Sprintf("HTTP %s", req.Method)
			if route := c.Path(); route != "" {
				name = fmt.Sprintf("HTTP %s %s", req.Method, route)
			}
			span.SetName(name)
			span.SetAttributes(
				attribute.String("service.name", config.ServiceName),
				attribute.String("http.client_ip", c.RealIP()),
				attribute.String("http.request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			addTraceInfoToContext(c, span)

			err := next(c)
			if err != nil {
				recordErrorInSpan(span, err)
			}
			return err
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return base(enhance(next))
	}
}

// addTraceInfoToContext exposes the trace ID in the response and in the request logger
func addTraceInfoToContext(c echo.Context, span trace.Span) {
	sc := span.SpanContext()
	if !sc.IsValid() {
		return
	}

	c.Set("trace.id", sc.TraceID().String())
	c.Set("span.id", sc.SpanID().String())
	c.Response().Header().Set("X-Trace-Id", sc.TraceID().String())

	logger := GetLoggerFromContext(c).With("traceID", sc.TraceID().String(), "spanID", sc.SpanID().String())
	c.Set(loggerKey, logger)
}

// recordErrorInSpan records err on span. Client errors leave the span status unset.
func recordErrorInSpan(span trace.Span, err error) {
	span.RecordError(err)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		span.SetAttributes(attribute.Int("http.status_code", he.Code))
		if he.Code < http.StatusInternalServerError {
			return
		}
	}
	span.SetStatus(codes.Error, err.Error())
}

// GetTraceID returns the trace ID of the current request, or an empty string
func GetTraceID(c echo.Context) string {
	if traceID, ok := c.Get("trace.id").(string); ok {
		return traceID
	}

	sc := trace.SpanFromContext(c.Request().Context()).SpanContext()
	if sc.IsValid() {
		return sc.TraceID().String()
	}
	return ""
}
