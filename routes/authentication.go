// SPDX-License-Identifier: MIT
// SPDX-FileCopyRightText: Copyright (c) 2023 UnderNET

package routes

import (
	"github.com/undernetirc/drupal-authsource/controllers"
)

// AuthnRoutes defines the routes for the authentication endpoints
func (r *RouteService) AuthnRoutes() {
	r.logger.Info("Loading authentication routes")
	c := controllers.NewAuthenticationController(r.source, r.logger)

	r.routerGroup.POST("/authn", c.Login)
	r.routerGroup.POST("/hash/inspect", c.InspectHash)
}
