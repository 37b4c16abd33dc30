// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2025 UnderNET

package telemetry

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns the HTTP handler for Prometheus metrics
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		Timeout:           5 * time.Second,
	})
}

// RegisterMetricsEndpoint registers the metrics endpoint with Echo router
func RegisterMetricsEndpoint(e *echo.Echo, provider *Provider) {
	if !provider.Enabled() {
		return
	}
	e.GET(provider.config.PrometheusEndpoint, echo.WrapHandler(provider.Handler()))
}
