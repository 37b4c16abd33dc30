// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023 UnderNET

// Package password defines the type of the Drupal users.pass column.
package password

import (
	pass "github.com/undernetirc/drupal-authsource/internal/auth/password"
)

// Password is a stored Drupal password hash.
type Password string

// Validate checks password against the stored hash.
func (p *Password) Validate(password string) error {
	v := pass.GetValidatorFunc(string(*p))
	return v(password)
}

// NeedsRehash reports whether Drupal would rewrite this hash on the next login.
// Unparseable hashes always need rehashing.
func (p *Password) NeedsRehash() bool {
	info, err := pass.Info(string(*p))
	if err != nil {
		return true
	}
	return info.NeedsRehash
}
