// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023-2024 UnderNET

// Package config provides typed access to the service configuration
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// K is a configuration key
type K string

const (
	// ServiceHost is the address the HTTP server binds to
	ServiceHost K = "service.host"
	// ServicePort is the port the HTTP server listens on
	ServicePort K = "service.port"
	// ServiceAPIPrefix is the prefix of all API routes
	ServiceAPIPrefix K = "service.api_prefix"
	// ServiceLogLevel is the minimum slog level (debug, info, warn, error)
	ServiceLogLevel K = "service.log_level"
	// ServiceLogFormat is either json or text
	ServiceLogFormat K = "service.log_format"
	// ServiceDevMode enables development mode
	ServiceDevMode K = "service.dev_mode"

	// DatabaseHost is the Drupal database host
	DatabaseHost K = "database.host"
	// DatabasePort is the Drupal database port
	DatabasePort K = "database.port"
	// DatabaseUsername is the Drupal database user
	DatabaseUsername K = "database.username"
	// DatabasePassword is the Drupal database password
	DatabasePassword K = "database.password"
	// DatabaseName is the Drupal database name
	DatabaseName K = "database.name"
	// DatabaseSSLMode is the libpq sslmode
	DatabaseSSLMode K = "database.sslmode"
	// DatabaseAutoMigration creates the Drupal user tables on startup (development only)
	DatabaseAutoMigration K = "database.auto_migration"
	// DatabaseMaxRetries is the number of connection retries before giving up
	DatabaseMaxRetries K = "database.max_retries"
	// DatabasePauseRetries is the number of retries that are preceded by a pause
	DatabasePauseRetries K = "database.pause_retries"
	// DatabaseRetryPause is the pause between early retries
	DatabaseRetryPause K = "database.retry_pause"

	// DrupalRoleName is the Drupal role a user must hold to authenticate
	DrupalRoleName K = "drupal.role_name"
	// DrupalAuthName is the auth source name reported with matched accounts
	DrupalAuthName K = "drupal.auth_name"
	// DrupalOnTheFlyRegister returns account attributes for automatic registration
	DrupalOnTheFlyRegister K = "drupal.onthefly_register"

	// RedisHost is the redis host
	RedisHost K = "redis.host"
	// RedisPort is the redis port
	RedisPort K = "redis.port"
	// RedisPassword is the redis password
	RedisPassword K = "redis.password"
	// RedisDatabase is the redis database number
	RedisDatabase K = "redis.database"

	// RateLimitEnabled enables login rate limiting
	RateLimitEnabled K = "rate_limit.enabled"
	// RateLimitAttempts is the number of attempts allowed per window and login
	RateLimitAttempts K = "rate_limit.attempts"
	// RateLimitWindow is the rate limit sliding window
	RateLimitWindow K = "rate_limit.window"

	// MetricsEnabled enables the prometheus endpoint
	MetricsEnabled K = "metrics.enabled"
	// MetricsEndpoint is the path of the prometheus endpoint
	MetricsEndpoint K = "metrics.endpoint"

	// TelemetryTracingEnabled enables OpenTelemetry tracing
	TelemetryTracingEnabled K = "telemetry.tracing.enabled"
	// TelemetryTracingSampleRate is the ratio of traces sampled, between 0 and 1
	TelemetryTracingSampleRate K = "telemetry.tracing.sample_rate"
	// TelemetryOTLPEndpoint is the host:port of the OTLP/HTTP trace collector
	TelemetryOTLPEndpoint K = "telemetry.otlp.endpoint"
	// TelemetryOTLPInsecure disables TLS towards the collector
	TelemetryOTLPInsecure K = "telemetry.otlp.insecure"
	// TelemetryOTLPHeaders are extra headers sent with every export
	TelemetryOTLPHeaders K = "telemetry.otlp.headers"
)

// Get returns the raw value of the key
func (k K) Get() interface{} {
	return viper.Get(string(k))
}

// GetString returns the value of the key as a string
func (k K) GetString() string {
	return viper.GetString(string(k))
}

// GetBool returns the value of the key as a bool
func (k K) GetBool() bool {
	return viper.GetBool(string(k))
}

// GetInt returns the value of the key as an int
func (k K) GetInt() int {
	return viper.GetInt(string(k))
}

// GetUint returns the value of the key as an uint
func (k K) GetUint() uint {
	return viper.GetUint(string(k))
}

// GetFloat64 returns the value of the key as a float64
func (k K) GetFloat64() float64 {
	return viper.GetFloat64(string(k))
}

// GetStringMapString returns the value of the key as a map[string]string
func (k K) GetStringMapString() map[string]string {
	return viper.GetStringMapString(string(k))
}

// GetDuration returns the value of the key as a time.Duration
func (k K) GetDuration() time.Duration {
	return viper.GetDuration(string(k))
}

// Set sets the value of the key
func (k K) Set(value interface{}) {
	viper.Set(string(k), value)
}

// DefaultConfig sets the default configuration values
func DefaultConfig() {
	viper.SetDefault(string(ServiceHost), "*")
	viper.SetDefault(string(ServicePort), 8080)
	viper.SetDefault(string(ServiceAPIPrefix), "api")
	viper.SetDefault(string(ServiceLogLevel), "info")
	viper.SetDefault(string(ServiceLogFormat), "json")
	viper.SetDefault(string(ServiceDevMode), false)

	viper.SetDefault(string(DatabaseHost), "localhost")
	viper.SetDefault(string(DatabasePort), 5432)
	viper.SetDefault(string(DatabaseUsername), "drupal")
	viper.SetDefault(string(DatabasePassword), "drupal")
	viper.SetDefault(string(DatabaseName), "drupal")
	viper.SetDefault(string(DatabaseSSLMode), "disable")
	viper.SetDefault(string(DatabaseAutoMigration), false)
	viper.SetDefault(string(DatabaseMaxRetries), 10)
	viper.SetDefault(string(DatabasePauseRetries), 5)
	viper.SetDefault(string(DatabaseRetryPause), time.Second)

	viper.SetDefault(string(DrupalRoleName), "redmine user")
	viper.SetDefault(string(DrupalAuthName), "Drupal")
	viper.SetDefault(string(DrupalOnTheFlyRegister), true)

	viper.SetDefault(string(RedisHost), "localhost")
	viper.SetDefault(string(RedisPort), 6379)
	viper.SetDefault(string(RedisPassword), "")
	viper.SetDefault(string(RedisDatabase), 0)

	viper.SetDefault(string(RateLimitEnabled), true)
	viper.SetDefault(string(RateLimitAttempts), 10)
	viper.SetDefault(string(RateLimitWindow), time.Minute)

	viper.SetDefault(string(MetricsEnabled), true)
	viper.SetDefault(string(MetricsEndpoint), "/metrics")

	viper.SetDefault(string(TelemetryTracingEnabled), false)
	viper.SetDefault(string(TelemetryTracingSampleRate), 1.0)
	viper.SetDefault(string(TelemetryOTLPEndpoint), "localhost:4318")
	viper.SetDefault(string(TelemetryOTLPInsecure), false)
}

// InitConfig loads the defaults, the configuration file at configPath (if any) and
// DRUPALAUTH_ prefixed environment variables, in increasing order of precedence.
// An empty configPath searches the working directory and /etc/drupal-authsource
// for config.yml.
func InitConfig(configPath string) {
	DefaultConfig()

	viper.SetEnvPrefix("DRUPALAUTH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/drupal-authsource")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			slog.Warn("Failed to read config file", "error", err)
		}
	}
}

// GetDbURI returns the postgres connection URI of the Drupal database
func GetDbURI() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		DatabaseUsername.GetString(),
		DatabasePassword.GetString(),
		DatabaseHost.GetString(),
		DatabasePort.GetString(),
		DatabaseName.GetString(),
		sslMode(),
	)
}

func sslMode() string {
	if mode := DatabaseSSLMode.GetString(); mode != "" {
		return mode
	}
	return "disable"
}

// GetServerAddress returns the address the HTTP server listens on
func GetServerAddress() string {
	host := ServiceHost.GetString()
	if host == "*" {
		host = ""
	}
	return net.JoinHostPort(host, ServicePort.GetString())
}

// GetRedisAddress returns the redis address
func GetRedisAddress() string {
	return net.JoinHostPort(RedisHost.GetString(), RedisPort.GetString())
}

// GetLogLevel returns the configured slog level, defaulting to info
func GetLogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(ServiceLogLevel.GetString())); err != nil {
		return slog.LevelInfo
	}
	return level
}
