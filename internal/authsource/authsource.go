// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023 UnderNET

// Package authsource authenticates logins against the users table of a Drupal 7 database.
package authsource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	dbpassword "github.com/undernetirc/drupal-authsource/db/types/password"
	"github.com/undernetirc/drupal-authsource/internal/auth/password"
	"github.com/undernetirc/drupal-authsource/internal/metrics"
	"github.com/undernetirc/drupal-authsource/internal/ratelimit"
	"github.com/undernetirc/drupal-authsource/models"
)

const (
	// DefaultRoleName is the Drupal role a user must hold to authenticate
	DefaultRoleName = "redmine user"
	// DefaultAuthName is the name of this auth source
	DefaultAuthName = "Drupal"

	tracerName = "github.com/undernetirc/drupal-authsource/internal/authsource"
)

// ErrRateLimited is returned (wrapped in a *RateLimitError) when a login exceeded its attempts
var ErrRateLimited = errors.New("too many authentication attempts")

// RateLimitError carries the time after which the login may be retried
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s, retry after %s", ErrRateLimited, e.RetryAfter)
}

func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}

// UserFinder looks up an active Drupal user holding a role
type UserFinder interface {
	GetActiveUserByLogin(ctx context.Context, arg models.GetActiveUserByLoginParams) (models.GetActiveUserByLoginRow, error)
}

// Account holds the attributes a host account system needs to register a matched user
type Account struct {
	Login      string `json:"login"`
	FirstName  string `json:"firstname"`
	LastName   string `json:"lastname"`
	Mail       string `json:"mail"`
	AuthSource string `json:"auth_source"`
}

// Result is the outcome of an authentication. Account is only set for a match
// when on-the-fly registration is enabled.
type Result struct {
	Matched     bool
	Account     *Account
	NeedsRehash bool
}

// Options configures a Source
type Options struct {
	RoleName         string
	Name             string
	OnTheFlyRegister bool

	Limiter       ratelimit.RateLimiter
	LimitAttempts int
	LimitWindow   time.Duration

	Metrics *metrics.AuthMetrics
	Logger  *slog.Logger
	// Tracer defaults to the global tracer provider
	Tracer trace.Tracer
}

// Source authenticates users against a Drupal database
type Source struct {
	finder UserFinder
	opts   Options
	now    func() time.Time
}

// New returns a Source reading users through finder
func New(finder UserFinder, opts Options) *Source {
	if opts.RoleName == "" {
		opts.RoleName = DefaultRoleName
	}
	if opts.Name == "" {
		opts.Name = DefaultAuthName
	}
	if opts.LimitAttempts <= 0 {
		opts.LimitAttempts = 10
	}
	if opts.LimitWindow <= 0 {
		opts.LimitWindow = time.Minute
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Tracer == nil {
		opts.Tracer = otel.Tracer(tracerName)
	}
	return &Source{finder: finder, opts: opts, now: time.Now}
}

// AuthMethodName returns the name of this auth source
func (s *Source) AuthMethodName() string {
	return s.opts.Name
}

// Authenticate returns the account attributes of login when password matches and
// on-the-fly registration is enabled. A nil account with a nil error means no match.
func (s *Source) Authenticate(ctx context.Context, login, pw string) (*Account, error) {
	res, err := s.AuthenticateResult(ctx, login, pw)
	return res.Account, err
}

// AuthenticateResult authenticates login with pw. Unknown logins, wrong passwords and
// unreadable stored hashes all yield a zero Result and a nil error; errors are
// reserved for rate limiting and datastore failures.
func (s *Source) AuthenticateResult(ctx context.Context, login, pw string) (Result, error) {
	if strings.TrimSpace(login) == "" || strings.TrimSpace(pw) == "" {
		return Result{}, nil
	}

	ctx, span := s.opts.Tracer.Start(ctx, "authsource.Authenticate", trace.WithAttributes(
		attribute.String("auth.source", s.opts.Name),
	))
	defer span.End()

	start := s.now()
	logger := s.opts.Logger.With("login", login, "authSource", s.opts.Name)

	if allowed, retryAfter := s.allow(ctx, logger, login); !allowed {
		s.recordLogin(ctx, false, start, metrics.ReasonRateLimited)
		span.SetAttributes(attribute.String("auth.result", metrics.ReasonRateLimited))
		logger.Warn("Authentication rate limited", "retryAfter", retryAfter)
		return Result{}, &RateLimitError{RetryAfter: retryAfter}
	}

	row, err := s.lookup(ctx, login)
	if errors.Is(err, pgx.ErrNoRows) {
		s.recordLogin(ctx, false, start, metrics.ReasonNotFound)
		span.SetAttributes(attribute.String("auth.result", metrics.ReasonNotFound))
		logger.Debug("No active user with role", "role", s.opts.RoleName)
		return Result{}, nil
	}
	if err != nil {
		s.recordLogin(ctx, false, start, metrics.ReasonDatastore)
		span.SetStatus(codes.Error, "user lookup failed")
		return Result{}, fmt.Errorf("failed to look up drupal user: %w", err)
	}

	info, err := s.verify(ctx, row.Pass, pw)
	if err != nil {
		reason := metrics.ReasonNoMatch
		if errors.Is(err, password.ErrInvalidSetting) ||
			errors.Is(err, password.ErrUnknownHashAlgorithm) ||
			errors.Is(err, password.ErrEncodingLengthMismatch) {
			reason = metrics.ReasonInvalidHash
			logger.Warn("Stored password hash is not a usable Drupal hash", "error", err)
		} else {
			logger.Info("Password mismatch")
		}
		s.recordLogin(ctx, false, start, reason)
		span.SetAttributes(attribute.String("auth.result", reason))
		return Result{}, nil
	}

	needsRehash := row.Pass.NeedsRehash()
	span.SetAttributes(attribute.String("auth.result", "success"))

	if s.opts.Limiter != nil {
		if err := s.opts.Limiter.Reset(ctx, ratelimit.LoginKey(login)); err != nil {
			logger.Warn("Failed to reset rate limit", "error", err)
		}
	}

	s.recordLogin(ctx, true, start, "")
	logger.Info("Authenticated", "algorithm", info.Algorithm, "needsRehash", needsRehash)

	res := Result{Matched: true, NeedsRehash: needsRehash}
	if s.opts.OnTheFlyRegister {
		res.Account = &Account{
			Login:      row.Name,
			FirstName:  row.Name,
			LastName:   row.Name,
			Mail:       row.Mail.String,
			AuthSource: s.opts.Name,
		}
	}
	return res, nil
}

// lookup fetches the active user holding the configured role
func (s *Source) lookup(ctx context.Context, login string) (models.GetActiveUserByLoginRow, error) {
	ctx, span := s.opts.Tracer.Start(ctx, "authsource.lookup_user",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("drupal.role", s.opts.RoleName),
		),
	)
	defer span.End()

	row, err := s.finder.GetActiveUserByLogin(ctx, models.GetActiveUserByLoginParams{
		RoleName: s.opts.RoleName,
		Name:     login,
	})
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		span.SetAttributes(attribute.Bool("drupal.user_found", false))
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	default:
		span.SetAttributes(attribute.Bool("drupal.user_found", true))
	}
	return row, err
}

// verify checks pw against the stored hash and records the verification metric.
// The returned HashInfo is zero when the stored hash cannot be parsed.
func (s *Source) verify(ctx context.Context, stored dbpassword.Password, pw string) (password.HashInfo, error) {
	info, _ := password.Info(string(stored))
	algorithm := info.Algorithm
	if algorithm == "" {
		algorithm = "unknown"
	}

	ctx, span := s.opts.Tracer.Start(ctx, "authsource.verify_password", trace.WithAttributes(
		attribute.String("auth.hash.algorithm", algorithm),
		attribute.Int("auth.hash.count_log2", info.CountLog2),
		attribute.Bool("auth.hash.legacy", info.Legacy),
	))
	defer span.End()

	verifyStart := s.now()
	err := stored.Validate(pw)
	if s.opts.Metrics != nil {
		s.opts.Metrics.RecordHashVerification(ctx, algorithm, info.Legacy, err == nil, s.now().Sub(verifyStart))
	}
	span.SetAttributes(attribute.Bool("auth.matched", err == nil))

	return info, err
}

// allow consults the rate limiter. A limiter failure lets the attempt through.
func (s *Source) allow(ctx context.Context, logger *slog.Logger, login string) (bool, time.Duration) {
	if s.opts.Limiter == nil {
		return true, 0
	}

	allowed, retryAfter, err := s.opts.Limiter.Allow(ctx, ratelimit.LoginKey(login), s.opts.LimitAttempts, s.opts.LimitWindow)
	if err != nil {
		logger.Warn("Rate limiter unavailable", "error", err)
		return true, 0
	}
	return allowed, retryAfter
}

func (s *Source) recordLogin(ctx context.Context, success bool, start time.Time, reason string) {
	if s.opts.Metrics == nil {
		return
	}
	s.opts.Metrics.RecordLoginAttempt(ctx, success, s.now().Sub(start), reason)
}
