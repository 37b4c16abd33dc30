// SPDX-License-Identifier: MIT
// SPDX-FileCopyRightText: Copyright (c) 2025 UnderNET

package routes

import (
	"github.com/mvrilo/go-redoc"
	echoredoc "github.com/mvrilo/go-redoc/echo"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/undernetirc/drupal-authsource/docs"
)

// DocsRoutes serves the API documentation: swagger UI under /documentation and redoc under /docs
func (r *RouteService) DocsRoutes() {
	r.logger.Info("Loading API documentation routes")

	r.e.GET("/documentation/*", echoSwagger.WrapHandler)

	r.e.Use(echoredoc.New(redoc.Redoc{
		DocsPath: "/docs",
		SpecPath: "/swagger.json",
		SpecFile: "swagger.json",
		SpecFS:   &docs.SwaggerFS,
		Title:    "Drupal Auth Source API Documentation",
	}))
}
