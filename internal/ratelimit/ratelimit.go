// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023-2025 UnderNET

// Package ratelimit provides login rate limiting backed by Redis
package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter defines the interface for rate limiting
type RateLimiter interface {
	// Allow checks if a request is allowed for the given key
	// Returns true if allowed, false if rate limited, and the retry-after duration
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error)
	// Reset forgets all recorded requests for the given key
	Reset(ctx context.Context, key string) error
}

// RedisRateLimiter implements rate limiting using Redis sorted sets
type RedisRateLimiter struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisRateLimiter creates a new Redis-based rate limiter
func NewRedisRateLimiter(client *redis.Client) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		now:    time.Now,
	}
}

// LoginKey returns the limiter key for a login name. Logins are case-insensitive in Drupal.
func LoginKey(login string) string {
	return "login:" + strings.ToLower(strings.TrimSpace(login))
}

func windowKey(key string) string {
	return fmt.Sprintf("ratelimit:%s", key)
}

// Allow implements the RateLimiter interface using a sliding window algorithm
func (r *RedisRateLimiter) Allow(
	ctx context.Context,
	key string,
	limit int,
	window time.Duration,
) (bool, time.Duration, error) {
	now := r.now()
	windowStart := now.Add(-window)
	wk := windowKey(key)

	pipe := r.client.Pipeline()

	// Drop entries that fell out of the window, count the rest, then record this request
	pipe.ZRemRangeByScore(ctx, wk, "0", strconv.FormatInt(windowStart.UnixNano(), 10))
	pipe.ZCard(ctx, wk)
	pipe.ZAdd(ctx, wk, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: now.UnixNano(),
	})
	pipe.Expire(ctx, wk, window+time.Minute)

	results, err := pipe.Exec(ctx)
	if err != nil {
		return false, 0, fmt.Errorf("rate limiter pipeline error: %w", err)
	}

	countCmd, ok := results[1].(*redis.IntCmd)
	if !ok {
		return false, 0, fmt.Errorf("unexpected Redis command result type")
	}

	if countCmd.Val() >= int64(limit) {
		// A denied request does not extend the window
		r.client.ZRem(ctx, wk, now.UnixNano())
		return false, r.calculateRetryAfter(ctx, wk, window, now), nil
	}

	return true, 0, nil
}

// Reset implements the RateLimiter interface
func (r *RedisRateLimiter) Reset(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, windowKey(key)).Err(); err != nil {
		return fmt.Errorf("rate limiter reset error: %w", err)
	}
	return nil
}

// calculateRetryAfter determines when the oldest request in the window expires, at least one second from now
func (r *RedisRateLimiter) calculateRetryAfter(
	ctx context.Context,
	wk string,
	window time.Duration,
	now time.Time,
) time.Duration {
	oldest, err := r.client.ZRange(ctx, wk, 0, 0).Result()
	if err != nil || len(oldest) == 0 {
		return window
	}

	oldestNano, err := strconv.ParseInt(oldest[0], 10, 64)
	if err != nil {
		return window
	}

	retryAfter := time.Unix(0, oldestNano).Add(window).Sub(now)
	if retryAfter < time.Second {
		retryAfter = time.Second
	}

	return retryAfter
}
