// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2025 UnderNET

// Package metrics provides authentication-specific metrics collection
package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Failure reasons recorded with failed authentication attempts
const (
	ReasonNoMatch     = "no_match"
	ReasonNotFound    = "not_found"
	ReasonInvalidHash = "invalid_hash"
	ReasonRateLimited = "rate_limited"
	ReasonDatastore   = "datastore_error"
)

// AuthMetrics holds all authentication-related metric instruments
type AuthMetrics struct {
	loginAttempts  metric.Int64Counter
	loginDuration  metric.Float64Histogram
	loginSuccesses metric.Int64Counter
	loginFailures  metric.Int64Counter

	// Hash metrics
	hashVerifications metric.Int64Counter
	hashDuration      metric.Float64Histogram

	// Datastore metrics
	connectRetries metric.Int64Counter
}

// AuthMetricsConfig holds configuration for authentication metrics
type AuthMetricsConfig struct {
	Meter       metric.Meter
	ServiceName string
}

// NewAuthMetrics creates a new authentication metrics collector
func NewAuthMetrics(config AuthMetricsConfig) (*AuthMetrics, error) {
	if config.Meter == nil {
		return nil, fmt.Errorf("meter cannot be nil")
	}

	if config.ServiceName == "" {
		config.ServiceName = "drupal-authsource"
	}

	metrics := &AuthMetrics{}

	var err error
	metrics.loginAttempts, err = config.Meter.Int64Counter(
		"auth_login_attempts_total",
		metric.WithDescription("Total number of login attempts"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create login attempts counter: %w", err)
	}

	metrics.loginDuration, err = config.Meter.Float64Histogram(
		"auth_login_duration_ms",
		metric.WithDescription("Login duration in milliseconds, including the datastore lookup"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create login duration histogram: %w", err)
	}

	metrics.loginSuccesses, err = config.Meter.Int64Counter(
		"auth_login_successes_total",
		metric.WithDescription("Total number of successful logins"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create login successes counter: %w", err)
	}

	metrics.loginFailures, err = config.Meter.Int64Counter(
		"auth_login_failures_total",
		metric.WithDescription("Total number of failed logins"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create login failures counter: %w", err)
	}

	metrics.hashVerifications, err = config.Meter.Int64Counter(
		"auth_hash_verifications_total",
		metric.WithDescription("Total number of stored hash verifications by algorithm"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create hash verifications counter: %w", err)
	}

	metrics.hashDuration, err = config.Meter.Float64Histogram(
		"auth_hash_duration_ms",
		metric.WithDescription("Stored hash verification duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create hash duration histogram: %w", err)
	}

	metrics.connectRetries, err = config.Meter.Int64Counter(
		"auth_datastore_connect_retries_total",
		metric.WithDescription("Total number of datastore connection retries"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create connect retries counter: %w", err)
	}

	return metrics, nil
}

// RecordLoginAttempt records a login attempt with the given result
func (m *AuthMetrics) RecordLoginAttempt(ctx context.Context, success bool, duration time.Duration, reason string) {
	attrs := []attribute.KeyValue{
		attribute.String("result", getResultString(success)),
	}

	if !success && reason != "" {
		attrs = append(attrs, attribute.String("failure_reason", reason))
	}

	m.loginAttempts.Add(ctx, 1, metric.WithAttributes(attrs...))

	durationMs := float64(duration.Nanoseconds()) / 1e6
	m.loginDuration.Record(ctx, durationMs, metric.WithAttributes(attrs...))

	if success {
		m.loginSuccesses.Add(ctx, 1, metric.WithAttributes(attrs...))
	} else {
		m.loginFailures.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordHashVerification records a stored hash verification
func (m *AuthMetrics) RecordHashVerification(ctx context.Context, algorithm string, legacy bool, success bool, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("algorithm", algorithm),
		attribute.Bool("legacy", legacy),
		attribute.String("result", getResultString(success)),
	}

	m.hashVerifications.Add(ctx, 1, metric.WithAttributes(attrs...))

	durationMs := float64(duration.Nanoseconds()) / 1e6
	m.hashDuration.Record(ctx, durationMs, metric.WithAttributes(attrs...))
}

// RecordConnectRetry records a datastore connection retry
func (m *AuthMetrics) RecordConnectRetry(ctx context.Context, attempt int) {
	m.connectRetries.Add(ctx, 1, metric.WithAttributes(attribute.Int("attempt", attempt)))
}

// getResultString converts a boolean success value to a string
func getResultString(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
