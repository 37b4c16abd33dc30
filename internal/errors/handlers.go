// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2024 UnderNET

package errors

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// getRequestID extracts request ID from context for logging
func getRequestID(c echo.Context) string {
	requestID := c.Response().Header().Get(echo.HeaderXRequestID)
	if requestID == "" {
		requestID = "unknown"
	}
	return requestID
}

// HandleValidationError handles request validation errors
func HandleValidationError(c echo.Context, err error) error {
	slog.Warn("Validation error",
		"requestID", getRequestID(c),
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
		"error", err.Error())

	return c.JSON(http.StatusBadRequest, NewErrorResponse(
		ErrCodeValidation,
		err.Error(),
		nil,
	))
}

// HandleBadRequestError handles malformed request errors
func HandleBadRequestError(c echo.Context, message string) error {
	if message == "" {
		message = "Bad request"
	}

	slog.Warn("Bad request",
		"requestID", getRequestID(c),
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
		"message", message)

	return c.JSON(http.StatusBadRequest, NewErrorResponse(
		ErrCodeBadRequest,
		message,
		nil,
	))
}

// HandleInvalidCredentialsError answers a failed authentication. Unknown logins,
// wrong passwords and unreadable stored hashes all produce the same response.
func HandleInvalidCredentialsError(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, NewErrorResponse(
		ErrCodeInvalidCredentials,
		"Invalid username or password",
		nil,
	))
}

// HandleTooManyRequestsError answers a rate limited request and sets Retry-After in whole seconds
func HandleTooManyRequestsError(c echo.Context, retryAfter time.Duration) error {
	seconds := int(math.Ceil(retryAfter.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	c.Response().Header().Set("Retry-After", strconv.Itoa(seconds))

	slog.Warn("Rate limited",
		"requestID", getRequestID(c),
		"path", c.Request().URL.Path,
		"retryAfter", seconds)

	return c.JSON(http.StatusTooManyRequests, NewErrorResponse(
		ErrCodeTooManyRequests,
		"Too many authentication attempts, try again later",
		map[string]int{"retry_after": seconds},
	))
}

// HandleInternalError handles unexpected internal server errors
func HandleInternalError(c echo.Context, err error, message string) error {
	if message == "" {
		message = "Internal server error"
	}

	slog.Error("Internal server error",
		"requestID", getRequestID(c),
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
		"error", err.Error(),
		"publicMessage", message)

	return c.JSON(http.StatusInternalServerError, NewErrorResponse(
		ErrCodeInternal,
		message,
		nil,
	))
}
