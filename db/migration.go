// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023 UnderNET

// Package db holds the Drupal user schema used for development and tests.
package db

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	// postgres driver for golang-migrate
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// MigrationHandler applies the embedded Drupal schema migrations
type MigrationHandler struct {
	*migrate.Migrate
}

// NewMigrationHandler returns a MigrationHandler for the database at dbURI
func NewMigrationHandler(dbURI string) (*MigrationHandler, error) {
	d, err := iofs.New(&migrationFS, "migrations")
	if err != nil {
		return nil, err
	}
	m, err := migrate.NewWithSourceInstance("iofs", d, dbURI)
	if err != nil {
		return nil, err
	}

	return &MigrationHandler{m}, nil
}

// MigrationStep migrates step versions up (positive) or down (negative) and
// returns the resulting version
func (m *MigrationHandler) MigrationStep(step int) (uint, error) {
	direction := "up"
	if step < 0 {
		direction = "down"
	}

	if err := m.Steps(step); err != nil {
		return 0, fmt.Errorf("failed to run migration %s: %w", direction, err)
	}
	ver, _, err := m.Version()
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// RunMigrations migrates the database to the latest version
func (m *MigrationHandler) RunMigrations() error {
	slog.Info("Running database migrations")
	if err := m.Up(); err != nil {
		if !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		slog.Info("Database migration: NO CHANGE")
		return nil
	}
	slog.Info("Database migration: SUCCESS")
	return nil
}

// ListMigrations returns the paths of all embedded migration files
func ListMigrations() ([]string, error) {
	var files []string
	err := fs.WalkDir(&migrationFS, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// ViewMigration returns the content of an embedded migration file, or nil if it does not exist
func ViewMigration(file string) []byte {
	f, _ := migrationFS.ReadFile(file)
	return f
}
