//go:build integration

// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023 UnderNET

package integration

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/undernetirc/drupal-authsource/internal/authsource"
	"github.com/undernetirc/drupal-authsource/internal/ratelimit"
	"github.com/undernetirc/drupal-authsource/models"
)

const pass = "123qwe"

func TestGetActiveUserByLogin(t *testing.T) {
	row, err := db.GetActiveUserByLogin(ctx, models.GetActiveUserByLoginParams{
		RoleName: authsource.DefaultRoleName,
		Name:     "alice",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", row.Name)
	assert.Equal(t, "alice@example.org", row.Mail.String)
	assert.NoError(t, row.Pass.Validate(pass))

	// blocked user
	_, err = db.GetActiveUserByLogin(ctx, models.GetActiveUserByLoginParams{RoleName: authsource.DefaultRoleName, Name: "dave"})
	assert.True(t, errors.Is(err, pgx.ErrNoRows))

	// missing role
	_, err = db.GetActiveUserByLogin(ctx, models.GetActiveUserByLoginParams{RoleName: authsource.DefaultRoleName, Name: "erin"})
	assert.True(t, errors.Is(err, pgx.ErrNoRows))

	row, err = db.GetActiveUserByLogin(ctx, models.GetActiveUserByLoginParams{RoleName: "editor", Name: "erin"})
	require.NoError(t, err)
	assert.Equal(t, "erin", row.Name)
}

func TestAuthenticate(t *testing.T) {
	source := authsource.New(models.NewService(db), authsource.Options{OnTheFlyRegister: true})

	tests := []struct {
		name     string
		login    string
		password string
		matched  bool
	}{
		{"sha512", "alice", pass, true},
		{"legacy", "bob", pass, true},
		{"phpass", "carol", pass, true},
		{"phpbb", "grace", pass, true},
		{"wrong password", "alice", "123qwe123", false},
		{"blocked", "dave", pass, false},
		{"without role", "erin", pass, false},
		{"unsupported hash", "frank", pass, false},
		{"unknown", "mallory", pass, false},
		{"case sensitive", "ALICE", pass, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := source.AuthenticateResult(ctx, tc.login, tc.password)
			require.NoError(t, err)
			assert.Equal(t, tc.matched, res.Matched)
			if tc.matched {
				require.NotNil(t, res.Account)
				assert.Equal(t, tc.login, res.Account.Login)
				assert.Equal(t, authsource.DefaultAuthName, res.Account.AuthSource)
			} else {
				assert.Nil(t, res.Account)
			}
		})
	}
}

func TestAuthenticateRateLimited(t *testing.T) {
	require.NoError(t, rdb.FlushDB(ctx).Err())

	source := authsource.New(models.NewService(db), authsource.Options{
		Limiter:       ratelimit.NewRedisRateLimiter(rdb),
		LimitAttempts: 3,
		LimitWindow:   time.Minute,
	})

	for i := 0; i < 3; i++ {
		res, err := source.AuthenticateResult(ctx, "carol", "wrong")
		require.NoError(t, err)
		assert.False(t, res.Matched)
	}

	_, err := source.AuthenticateResult(ctx, "carol", pass)
	require.Error(t, err)
	var rlErr *authsource.RateLimitError
	require.ErrorAs(t, err, &rlErr)
	assert.Greater(t, rlErr.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, rlErr.RetryAfter, time.Minute)

	// other logins are not affected
	res, err := source.AuthenticateResult(ctx, "alice", pass)
	require.NoError(t, err)
	assert.True(t, res.Matched)
}
