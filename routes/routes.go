// SPDX-License-Identifier: MIT
// SPDX-FileCopyRightText: Copyright (c) 2023 UnderNET

// Package routes defines the routes for the echo server.
package routes

import (
	"log/slog"
	"os"
	"reflect"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"

	"github.com/undernetirc/drupal-authsource/controllers"
	"github.com/undernetirc/drupal-authsource/internal/config"
	"github.com/undernetirc/drupal-authsource/internal/helper"
	"github.com/undernetirc/drupal-authsource/internal/telemetry"
	"github.com/undernetirc/drupal-authsource/middlewares"
)

// RouteService holds the echo instance, the versioned API group and the
// dependencies shared by the controllers
type RouteService struct {
	e                 *echo.Echo
	routerGroup       *echo.Group
	source            controllers.Authenticator
	pool              controllers.DBInterface
	rdb               *redis.Client
	telemetryProvider *telemetry.Provider
	logger            *slog.Logger
}

// NewRouteService creates a new RouteService. pool, rdb and telemetryProvider may be nil.
func NewRouteService(
	e *echo.Echo,
	source controllers.Authenticator,
	pool controllers.DBInterface,
	rdb *redis.Client,
	telemetryProvider *telemetry.Provider,
	logger *slog.Logger,
) *RouteService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RouteService{
		e:                 e,
		source:            source,
		pool:              pool,
		rdb:               rdb,
		telemetryProvider: telemetryProvider,
		logger:            logger,
	}
}

// NewEcho returns an echo instance with the validator and the common middlewares
func NewEcho(logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetOutput(os.Stdout)
	if config.ServiceDevMode.GetBool() {
		e.Debug = true
		e.Logger.SetLevel(log.DEBUG)
	} else {
		e.Logger.SetLevel(log.INFO)
	}
	e.Validator = helper.NewValidator()

	e.Use(middleware.RequestID())
	e.Use(middlewares.RequestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("64K"))

	return e
}

// APIPrefixV1 returns the prefix of the versioned API routes
func APIPrefixV1() string {
	prefix := strings.Trim(config.ServiceAPIPrefix.GetString(), "/")
	if prefix == "" {
		return "/v1"
	}
	return "/" + prefix + "/v1"
}

// skipTracing leaves infrastructure endpoints out of the traces
func skipTracing(c echo.Context) bool {
	path := c.Request().URL.Path
	return path == "/health-check" ||
		path == config.MetricsEndpoint.GetString() ||
		strings.HasPrefix(path, "/documentation/") ||
		path == "/docs" || path == "/swagger.json"
}

// LoadRoutes registers the tracing and metrics middlewares and the metrics endpoint
// when telemetry is enabled and calls every RouteService method whose name ends in "Routes"
func LoadRoutes(r *RouteService) error {
	if r.telemetryProvider != nil && r.telemetryProvider.TracingEnabled() {
		r.e.Use(middlewares.HTTPTracingWithConfig(middlewares.HTTPTracingConfig{
			Skipper:        skipTracing,
			TracerProvider: r.telemetryProvider.GetTracerProvider(),
			ServiceName:    "drupal-authsource",
		}))
	}

	if r.telemetryProvider != nil && r.telemetryProvider.Enabled() {
		r.e.Use(middlewares.HTTPInstrumentation(r.telemetryProvider.GetMeter("drupal-authsource-http")))
		telemetry.RegisterMetricsEndpoint(r.e, r.telemetryProvider)
	}

	r.routerGroup = r.e.Group(APIPrefixV1())

	reflType := reflect.TypeOf(r)
	for i := 0; i < reflType.NumMethod(); i++ {
		method := reflType.Method(i)
		if strings.HasSuffix(method.Name, "Routes") {
			reflect.ValueOf(r).MethodByName(method.Name).Call(nil)
		}
	}

	return nil
}
