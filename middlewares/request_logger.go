// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2025 UnderNET

package middlewares

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
)

const loggerKey = "logger"

// RequestLoggerConfig holds configuration for the request logger middleware
type RequestLoggerConfig struct {
	// Skipper defines a function to skip middleware
	Skipper func(echo.Context) bool
	// Logger is the base logger
	Logger *slog.Logger
}

// RequestLogger returns a middleware that stores a request scoped logger in the
// echo context and logs every completed request
func RequestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return RequestLoggerWithConfig(RequestLoggerConfig{Logger: logger})
}

// RequestLoggerWithConfig returns a middleware with custom configuration
func RequestLoggerWithConfig(config RequestLoggerConfig) echo.MiddlewareFunc {
	if config.Skipper == nil {
		config.Skipper = func(echo.Context) bool { return false }
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if config.Skipper(c) {
				return next(c)
			}

			start := time.Now()
			logger := config.Logger
			if requestID := c.Response().Header().Get(echo.HeaderXRequestID); requestID != "" {
				logger = logger.With("requestID", requestID)
			}
			c.Set(loggerKey, logger)

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			logRequestCompletion(c, GetLoggerFromContext(c), err, time.Since(start))
			return nil
		}
	}
}

func logRequestCompletion(c echo.Context, logger *slog.Logger, err error, latency time.Duration) {
	res := c.Response()
	req := c.Request()

	attrs := []any{
		"method", req.Method,
		"path", req.URL.Path,
		"status", res.Status,
		"size", res.Size,
		"latency", latency,
		"clientIP", c.RealIP(),
	}
	if route := c.Path(); route != "" {
		attrs = append(attrs, "route", route)
	}

	switch {
	case err != nil:
		attrs = append(attrs, "error", err)
		logger.Error("Request completed with error", attrs...)
	case res.Status >= 500:
		logger.Error("Request completed with server error", attrs...)
	case res.Status >= 400:
		logger.Warn("Request completed with client error", attrs...)
	default:
		logger.Info("Request completed", attrs...)
	}
}

// GetLoggerFromContext returns the request scoped logger, or slog.Default outside the middleware
func GetLoggerFromContext(c echo.Context) *slog.Logger {
	if logger, ok := c.Get(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
