// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023-2024 UnderNET

// Package controllers provides the controllers for the API
package controllers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/undernetirc/drupal-authsource/internal/auth/password"
	"github.com/undernetirc/drupal-authsource/internal/authsource"
	apierrors "github.com/undernetirc/drupal-authsource/internal/errors"
	"github.com/undernetirc/drupal-authsource/internal/helper"
)

// Authenticator verifies a login and password against the Drupal database
type Authenticator interface {
	AuthenticateResult(ctx context.Context, login, password string) (authsource.Result, error)
	AuthMethodName() string
}

// AuthenticationController is the controller for the authentication routes
type AuthenticationController struct {
	source Authenticator
	logger *slog.Logger
}

// NewAuthenticationController returns a new AuthenticationController
func NewAuthenticationController(source Authenticator, logger *slog.Logger) *AuthenticationController {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthenticationController{source: source, logger: logger}
}

// loginRequest is the struct holding the data for the login request
type loginRequest struct {
	Login    string `json:"login"    validate:"required,drupalusername"`
	// Password is limited to 512 characters, not bytes
	Password string `json:"password" validate:"required,max=512"`
}

// LoginResponse is the response sent to a client when the password matched
type LoginResponse struct {
	Matched    bool                `json:"matched"`
	AuthSource string              `json:"auth_source"`
	Account    *authsource.Account `json:"account,omitempty"`
}

// Login godoc
// @Summary Authenticate a Drupal user
// @Description Verifies login and password against the Drupal users table. When on-the-fly
// @Description registration is enabled the response carries the account attributes.
// @Tags auth
// @Accept json
// @Produce json
// @Param data body loginRequest true "Login request"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} apierrors.ErrorResponse "Invalid request"
// @Failure 401 {object} apierrors.ErrorResponse "Invalid username or password"
// @Failure 429 {object} apierrors.ErrorResponse "Too many attempts"
// @Failure 500 {object} apierrors.ErrorResponse "Datastore unavailable"
// @Router /api/v1/authn [post]
func (ctr *AuthenticationController) Login(c echo.Context) error {
	req := new(loginRequest)
	if err := c.Bind(req); err != nil {
		return apierrors.HandleBadRequestError(c, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return apierrors.HandleValidationError(c, err)
	}

	logger := helper.GetRequestLogger(c, ctr.logger)

	res, err := ctr.source.AuthenticateResult(c.Request().Context(), req.Login, req.Password)
	if err != nil {
		var rlErr *authsource.RateLimitError
		if errors.As(err, &rlErr) {
			return apierrors.HandleTooManyRequestsError(c, rlErr.RetryAfter)
		}
		return apierrors.HandleInternalError(c, err, "Authentication is temporarily unavailable")
	}

	if !res.Matched {
		logger.Info("Authentication failed", "login", req.Login)
		return apierrors.HandleInvalidCredentialsError(c)
	}

	return c.JSON(http.StatusOK, &LoginResponse{
		Matched:    true,
		AuthSource: ctr.source.AuthMethodName(),
		Account:    res.Account,
	})
}

type inspectHashRequest struct {
	Hash string `json:"hash" validate:"required,max=128,nocontrolchars"`
}

// InspectHash godoc
// @Summary Inspect a stored hash
// @Description Reports the type tag, algorithm, iteration exponent and legacy flag of a Drupal stored hash
// @Description and whether Drupal would rehash it on the next login. The salt and digest are never returned.
// @Tags auth
// @Accept json
// @Produce json
// @Param data body inspectHashRequest true "Hash"
// @Success 200 {object} password.HashInfo
// @Failure 400 {object} apierrors.ErrorResponse "Not a Drupal hash"
// @Router /api/v1/hash/inspect [post]
func (ctr *AuthenticationController) InspectHash(c echo.Context) error {
	req := new(inspectHashRequest)
	if err := c.Bind(req); err != nil {
		return apierrors.HandleBadRequestError(c, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return apierrors.HandleValidationError(c, err)
	}

	info, err := password.Info(req.Hash)
	if err != nil {
		return apierrors.HandleBadRequestError(c, "Not a valid Drupal password hash")
	}

	return c.JSON(http.StatusOK, info)
}
