// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023 UnderNET

// Package password verifies passwords against hashes stored by Drupal 7,
// including imported phpass/phpBB3 md5 hashes and "U$" legacy hashes.
package password

import (
	"errors"
)

// Validator is the interface that wraps the ValidateHash method.
type Validator interface {
	ValidateHash(passwordHash string, password string) error
}

// DrupalVal is the Drupal 7 implementation of the Validator interface.
var DrupalVal = DrupalValidator{}

// DetermineValidatorAlgorithm determines the validator algorithm based on the given hash.
func DetermineValidatorAlgorithm(hash string) Validator {
	switch {
	case IsDrupalHash(hash):
		return DrupalVal
	default:
		return nil
	}
}

// ValidatorFunction is a function type that validates a password hash against a password.
type ValidatorFunction func(password string) error

// GetValidatorFunc determines the validator function based on the given hash.
func GetValidatorFunc(hash string) ValidatorFunction {
	fn := DetermineValidatorAlgorithm(hash)

	f := func(password string) error {
		if fn == nil {
			return ErrUnknownHashAlgorithm
		}

		return fn.ValidateHash(hash, password)
	}
	return f
}

// ValidateHash validates the given password hash against the given password using the provided validator algorithm.
func ValidateHash(v Validator, hash string, password string) error {
	if v == nil {
		return errors.New("missing validator")
	}
	return v.ValidateHash(hash, password)
}
