// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023-2024 UnderNET

package helper

import (
	"io"
	"log/slog"
	"strings"

	"github.com/labstack/echo/v4"
	slogformatter "github.com/samber/slog-formatter"
)

// redactedKeys are attribute keys whose values never reach the log output
var redactedKeys = []string{"password", "pass", "hash", "stored_hash"}

// NewLogger returns a slog.Logger writing to w in the given format ("json" or "text").
// Secrets logged under a redacted key are masked and errors are expanded.
func NewLogger(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	formatters := []slogformatter.Formatter{slogformatter.ErrorFormatter("error")}
	for _, key := range redactedKeys {
		formatters = append(formatters, slogformatter.FormatByKey(key, func(_ slog.Value) slog.Value {
			return slog.StringValue("*******")
		}))
	}

	return slog.New(slogformatter.NewFormatterHandler(formatters...)(handler))
}

// GetRequestLogger returns a logger derived from base that includes the request ID
// from the Echo context in all log entries. If no request ID is found, it uses "unknown".
func GetRequestLogger(c echo.Context, base *slog.Logger) *slog.Logger {
	if base == nil {
		base = slog.Default()
	}
	return base.With("requestID", GetRequestID(c))
}

// GetRequestID extracts the request ID from the Echo context.
// Returns "unknown" if no request ID is found.
func GetRequestID(c echo.Context) string {
	requestID := c.Response().Header().Get(echo.HeaderXRequestID)
	if requestID == "" {
		requestID = "unknown"
	}
	return requestID
}
