// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023 UnderNET

package authsource

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RetryPolicy controls how often a failing database connection is retried
type RetryPolicy struct {
	// MaxRetries is the number of retries after the first attempt
	MaxRetries int
	// PauseRetries is the number of leading retries that wait Pause before running
	PauseRetries int
	// Pause is the wait before each of the first PauseRetries retries
	Pause time.Duration
}

// DefaultRetryPolicy retries ten times, pausing one second before each of the first five
var DefaultRetryPolicy = RetryPolicy{
	MaxRetries:   10,
	PauseRetries: 5,
	Pause:        time.Second,
}

// pauseBackOff is a backoff.BackOff that waits policy.Pause for the first
// PauseRetries retries, retries immediately afterwards and stops after MaxRetries.
type pauseBackOff struct {
	policy  RetryPolicy
	retries int
}

func (b *pauseBackOff) NextBackOff() time.Duration {
	if b.retries >= b.policy.MaxRetries {
		return backoff.Stop
	}
	b.retries++
	if b.retries <= b.policy.PauseRetries {
		return b.policy.Pause
	}
	return 0
}

func (b *pauseBackOff) Reset() {
	b.retries = 0
}

// RetryNotify is called before every retry with the error of the failed attempt
// and the retry number, starting at 1.
type RetryNotify func(err error, retry int)

// Connect opens a pgx pool for dsn and pings it, retrying according to policy.
// An unparseable dsn is not retried.
func Connect(ctx context.Context, dsn string, policy RetryPolicy, notify RetryNotify) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid database configuration: %w", err)
	}

	pool, err := withRetry(ctx, policy, notify, func(ctx context.Context) (*pgxpool.Pool, error) {
		pool, err := pgxpool.NewWithConfig(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return pool, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the drupal database: %w", err)
	}
	return pool, nil
}

func withRetry[T any](ctx context.Context, policy RetryPolicy, notify RetryNotify, op func(context.Context) (T, error)) (T, error) {
	retry := 0
	b := backoff.WithContext(&pauseBackOff{policy: policy}, ctx)

	return backoff.RetryNotifyWithData(func() (T, error) {
		return op(ctx)
	}, b, func(err error, _ time.Duration) {
		retry++
		if notify != nil {
			notify(err, retry)
		}
	})
}
