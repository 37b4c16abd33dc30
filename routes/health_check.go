// SPDX-License-Identifier: MIT
// SPDX-FileCopyRightText: Copyright (c) 2023 UnderNET

package routes

import (
	"github.com/undernetirc/drupal-authsource/controllers"
)

// HealthCheckRoutes Adds health check endpoint to determine if the service is up (useful for load balancers or k8s)
func (r *RouteService) HealthCheckRoutes() {
	if r.pool == nil {
		return
	}
	r.logger.Info("Loading health check routes")

	var rdb controllers.RedisInterface
	if r.rdb != nil {
		rdb = r.rdb
	}
	c := controllers.NewHealthCheckController(r.pool, rdb)
	r.e.GET("/health-check", c.HealthCheck)
}
