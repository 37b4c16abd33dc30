// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023 UnderNET

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	dbm "github.com/undernetirc/drupal-authsource/db"
	"github.com/undernetirc/drupal-authsource/docs"
	"github.com/undernetirc/drupal-authsource/internal/authsource"
	"github.com/undernetirc/drupal-authsource/internal/config"
	"github.com/undernetirc/drupal-authsource/internal/helper"
	"github.com/undernetirc/drupal-authsource/internal/metrics"
	"github.com/undernetirc/drupal-authsource/internal/ratelimit"
	"github.com/undernetirc/drupal-authsource/internal/telemetry"
	"github.com/undernetirc/drupal-authsource/models"
	"github.com/undernetirc/drupal-authsource/routes"
)

const serviceName = "drupal-authsource"

var (
	Version     = "0.0.1-dev"
	BuildDate   string
	BuildCommit string
)

// logAndExit prints message and exits with code
func logAndExit(message string, code int) {
	fmt.Println(message)
	os.Exit(code)
}

// @title Drupal Auth Source API
// @version 0.1
// @description Authenticates logins against the users of a Drupal 7 database.

// @license.name MIT

// @BasePath /
func main() {
	configPath := flag.String("config", "", "path to configuration file")
	migrateUpOne := flag.Bool("migrate-up1", false, "run database migrations up by one and then exit")
	migrateDownOne := flag.Bool("migrate-down1", false, "run database migrations down by one and then exit")
	listMigrationFlag := flag.Bool("list-migrations", false, "list all SQL migrations and then exit")
	viewMigrationFlag := flag.String("view-migration", "", "view a specific SQL migration and then exit")
	versionFlag := flag.Bool("version", false, "print version and exit")

	flag.Parse()

	if *versionFlag {
		if BuildCommit == "" {
			BuildCommit = "unknown"
		}
		logAndExit(fmt.Sprintf("Version %s %s %s", Version, BuildCommit, BuildDate), 0)
	}

	config.InitConfig(*configPath)
	docs.SwaggerInfo.Version = Version

	logger := helper.NewLogger(os.Stdout, config.GetLogLevel(), config.ServiceLogFormat.GetString())
	slog.SetDefault(logger)

	if *listMigrationFlag {
		files, err := dbm.ListMigrations()
		if err != nil {
			logAndExit(err.Error(), 1)
		}
		for _, f := range files {
			fmt.Println(f)
		}
		os.Exit(0)
	}

	if *viewMigrationFlag != "" {
		logAndExit(string(dbm.ViewMigration(*viewMigrationFlag)), 0)
	}

	if *migrateUpOne && *migrateDownOne {
		logAndExit("cannot run migrations for both up and down at the same time", 1)
	}

	if *migrateUpOne || *migrateDownOne || config.DatabaseAutoMigration.GetBool() {
		mgrHandler, err := dbm.NewMigrationHandler(config.GetDbURI())
		if err != nil {
			logAndExit(err.Error(), 1)
		}

		switch {
		case *migrateUpOne, *migrateDownOne:
			step := 1
			if *migrateDownOne {
				step = -1
			}
			ver, err := mgrHandler.MigrationStep(step)
			if err != nil {
				logAndExit(err.Error(), 1)
			}
			logAndExit(fmt.Sprintf("successfully migrated to version %d", ver), 0)
		default:
			if err := mgrHandler.RunMigrations(); err != nil {
				logAndExit(fmt.Sprintf("Migrations failed: %s", err), 1)
			}
		}
	}

	if err := run(logger); err != nil {
		logger.Error("Service stopped", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Metrics and traces
	provider, err := telemetry.NewProvider(ctx, telemetry.LoadConfigFromViper(serviceName, Version))
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Failed to shut down telemetry", "error", err)
		}
	}()

	authMetrics, err := metrics.NewAuthMetrics(metrics.AuthMetricsConfig{
		Meter:       provider.GetMeter(serviceName),
		ServiceName: serviceName,
	})
	if err != nil {
		return err
	}

	// Connect to the Drupal database
	policy := authsource.RetryPolicy{
		MaxRetries:   config.DatabaseMaxRetries.GetInt(),
		PauseRetries: config.DatabasePauseRetries.GetInt(),
		Pause:        config.DatabaseRetryPause.GetDuration(),
	}
	pool, err := authsource.Connect(ctx, config.GetDbURI(), policy, func(err error, retry int) {
		logger.Warn("Database connection failed, retrying", "retry", retry, "error", err)
		authMetrics.RecordConnectRetry(ctx, retry)
	})
	if err != nil {
		return err
	}
	defer pool.Close()
	logger.Info("Successfully connected to the postgres database")

	opts := authsource.Options{
		RoleName:         config.DrupalRoleName.GetString(),
		Name:             config.DrupalAuthName.GetString(),
		OnTheFlyRegister: config.DrupalOnTheFlyRegister.GetBool(),
		Metrics:          authMetrics,
		Logger:           logger,
		Tracer:           provider.GetTracer(serviceName),
	}

	// Connect to redis
	var rdb *redis.Client
	if config.RateLimitEnabled.GetBool() {
		rdb = redis.NewClient(&redis.Options{
			Addr:     config.GetRedisAddress(),
			Password: config.RedisPassword.GetString(),
			DB:       config.RedisDatabase.GetInt(),
		})
		defer func() {
			if err := rdb.Close(); err != nil {
				logger.Warn("Failed to close redis client", "error", err)
			}
		}()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("Redis is unreachable, rate limiting fails open until it recovers", "error", err)
		} else {
			logger.Info("Successfully connected to redis")
		}

		opts.Limiter = ratelimit.NewRedisRateLimiter(rdb)
		opts.LimitAttempts = config.RateLimitAttempts.GetInt()
		opts.LimitWindow = config.RateLimitWindow.GetDuration()
	}

	source := authsource.New(models.NewService(models.New(pool)), opts)

	e := routes.NewEcho(logger)
	if err := routes.LoadRoutes(routes.NewRouteService(e, source, pool, rdb, provider, logger)); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "address", config.GetServerAddress(), "version", Version)
		if err := e.Start(config.GetServerAddress()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
