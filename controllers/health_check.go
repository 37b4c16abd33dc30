// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023 UnderNET

package controllers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// DBInterface defines the interface for database operations
type DBInterface interface {
	Ping(ctx context.Context) error
}

// RedisInterface defines the interface for Redis operations
type RedisInterface interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// HealthCheckController reports the state of the Drupal database and, when
// rate limiting is enabled, redis
type HealthCheckController struct {
	dbPool DBInterface
	rdb    RedisInterface
}

// NewHealthCheckController returns a new HealthCheckController. rdb may be nil.
func NewHealthCheckController(dbPool DBInterface, rdb RedisInterface) *HealthCheckController {
	return &HealthCheckController{dbPool: dbPool, rdb: rdb}
}

// HealthCheckResponse is the health check response
type HealthCheckResponse struct {
	Status   string `json:"status"`
	Postgres string `json:"postgres,omitempty"`
	Redis    string `json:"redis,omitempty"`
}

// HealthCheck godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} HealthCheckResponse
// @Router /health-check [get]
func (ctr *HealthCheckController) HealthCheck(c echo.Context) error {
	resp := new(HealthCheckResponse)
	resp.Status = "OK"
	resp.Postgres = "UP"

	err := ctr.dbPool.Ping(c.Request().Context())
	if err != nil {
		resp.Status = "DEGRADED"
		resp.Postgres = "DOWN"
	}

	if ctr.rdb != nil {
		resp.Redis = "UP"
		err = ctr.rdb.Ping(c.Request().Context()).Err()
		if err != nil {
			resp.Status = "DEGRADED"
			resp.Redis = "DOWN"
		}
	}

	return c.JSON(http.StatusOK, resp)
}
