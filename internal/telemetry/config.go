// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023-2024 UnderNET

package telemetry

import (
	"github.com/undernetirc/drupal-authsource/internal/config"
)

// LoadConfigFromViper loads telemetry configuration from Viper
func LoadConfigFromViper(serviceName, serviceVersion string) *Config {
	endpoint := config.MetricsEndpoint.GetString()
	if endpoint == "" {
		endpoint = "/metrics"
	}

	sampleRate := config.TelemetryTracingSampleRate.GetFloat64()
	if sampleRate < 0 || sampleRate > 1 {
		sampleRate = 1
	}

	return &Config{
		Enabled:            config.MetricsEnabled.GetBool(),
		ServiceName:        serviceName,
		ServiceVersion:     serviceVersion,
		PrometheusEndpoint: endpoint,
		TracingEnabled:     config.TelemetryTracingEnabled.GetBool(),
		TracingSampleRate:  sampleRate,
		OTLPEndpoint:       config.TelemetryOTLPEndpoint.GetString(),
		OTLPInsecure:       config.TelemetryOTLPInsecure.GetBool(),
		OTLPHeaders:        config.TelemetryOTLPHeaders.GetStringMapString(),
	}
}
