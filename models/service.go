// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023 UnderNET

// This file needs to be manually updated with the new models based on the file querier.go

// Package models contains the database models
package models

import (
	"context"
)

// Service is a wrapper around the database queries
type Service struct {
	db *Queries
}

// NewService creates a new Service
func NewService(db *Queries) *Service {
	return &Service{db: db}
}

// GetActiveUserByLogin gets an active user holding the given role by login name
func (s *Service) GetActiveUserByLogin(ctx context.Context, arg GetActiveUserByLoginParams) (GetActiveUserByLoginRow, error) {
	return s.db.GetActiveUserByLogin(ctx, arg)
}
