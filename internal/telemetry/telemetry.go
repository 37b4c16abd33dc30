// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023-2024 UnderNET

// Package telemetry provides OpenTelemetry initialization, the OTLP trace exporter and the prometheus endpoint
package telemetry

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Provider manages the OpenTelemetry meter and tracer providers and the prometheus registry
type Provider struct {
	metricProvider *sdkmetric.MeterProvider
	traceProvider  *sdktrace.TracerProvider
	registry       *prometheus.Registry
	config         *Config
}

// Config holds the telemetry configuration. Enabled controls metrics,
// TracingEnabled controls the OTLP trace pipeline.
type Config struct {
	Enabled            bool
	ServiceName        string
	ServiceVersion     string
	PrometheusEndpoint string

	TracingEnabled    bool
	TracingSampleRate float64
	OTLPEndpoint      string
	OTLPInsecure      bool
	OTLPHeaders       map[string]string
}

// NewProvider creates a new telemetry provider with the given configuration. A
// disabled provider hands out no-op meters and tracers.
func NewProvider(ctx context.Context, config *Config) (*Provider, error) {
	if config == nil {
		return nil, errors.New("telemetry config cannot be nil")
	}

	provider := &Provider{
		config: config,
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", config.ServiceName),
		attribute.String("service.version", config.ServiceVersion),
	)

	if config.TracingEnabled {
		exporter, err := newOTLPTraceExporter(ctx, config)
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		provider.traceProvider = newTracerProvider(res, exporter, config.TracingSampleRate)
		otel.SetTracerProvider(provider.traceProvider)
		SetupGlobalPropagator()
	}

	if !config.Enabled {
		return provider, nil
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	provider.registry = registry
	provider.metricProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	return provider, nil
}

// Enabled reports whether metrics are collected
func (p *Provider) Enabled() bool {
	return p.metricProvider != nil
}

// GetMeter returns a meter for the given name
func (p *Provider) GetMeter(name string, opts ...metric.MeterOption) metric.Meter {
	if p.metricProvider == nil {
		return noop.NewMeterProvider().Meter(name, opts...)
	}
	return p.metricProvider.Meter(name, opts...)
}

// TracingEnabled reports whether spans are exported
func (p *Provider) TracingEnabled() bool {
	return p.traceProvider != nil
}

// GetTracerProvider returns the SDK tracer provider, or a no-op one when tracing is disabled
func (p *Provider) GetTracerProvider() trace.TracerProvider {
	if p.traceProvider == nil {
		return tracenoop.NewTracerProvider()
	}
	return p.traceProvider
}

// GetTracer returns a tracer for the given name
func (p *Provider) GetTracer(name string, opts ...trace.TracerOption) trace.Tracer {
	return p.GetTracerProvider().Tracer(name, opts...)
}

// Shutdown flushes and stops the trace and meter providers
func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error

	if p.traceProvider != nil {
		if err := p.traceProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown trace provider: %w", err))
		}
	}

	if p.metricProvider != nil {
		if err := p.metricProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown metric provider: %w", err))
		}
	}

	return errors.Join(errs...)
}
