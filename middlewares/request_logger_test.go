// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2025 UnderNET

package middlewares

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		lines = append(lines, entry)
	}
	return lines
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	e := echo.New()
	e.Use(middleware.RequestID())
	e.Use(RequestLogger(logger))

	var fromContext *slog.Logger
	e.GET("/ok", func(c echo.Context) error {
		fromContext = GetLoggerFromContext(c)
		return c.String(http.StatusOK, "ok")
	})
	e.POST("/denied", func(c echo.Context) error {
		return c.NoContent(http.StatusUnauthorized)
	})
	e.GET("/boom", func(_ echo.Context) error {
		return echo.NewHTTPError(http.StatusInternalServerError, "boom")
	})

	t.Run("success", func(t *testing.T) {
		buf.Reset()
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, fromContext)
		assert.NotSame(t, logger, fromContext)

		lines := decodeLines(t, &buf)
		require.Len(t, lines, 1)
		assert.Equal(t, "INFO", lines[0]["level"])
		assert.Equal(t, "/ok", lines[0]["path"])
		assert.Equal(t, float64(200), lines[0]["status"])
		assert.Equal(t, rec.Header().Get(echo.HeaderXRequestID), lines[0]["requestID"])
	})

	t.Run("client error", func(t *testing.T) {
		buf.Reset()
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/denied", nil))

		lines := decodeLines(t, &buf)
		require.Len(t, lines, 1)
		assert.Equal(t, "WARN", lines[0]["level"])
	})

	t.Run("handler error", func(t *testing.T) {
		buf.Reset()
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		lines := decodeLines(t, &buf)
		require.Len(t, lines, 1)
		assert.Equal(t, "ERROR", lines[0]["level"])
		assert.Equal(t, float64(500), lines[0]["status"])
	})
}

func TestGetLoggerFromContextFallback(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Same(t, slog.Default(), GetLoggerFromContext(c))
}
