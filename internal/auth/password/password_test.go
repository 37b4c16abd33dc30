// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023 UnderNET

package password

import (
	"reflect"
	"testing"

	"gopkg.in/go-playground/assert.v1"
)

const drupalHash = "$S$Cj2LSFHNpJKa8DtM47ANlUaRfBqdrSY7346FHCbooPWI9I6YPKNk" // password is test
const phpassHash = "$P$9abcdefghO7A3aIOXMDERET.FT1vAz1"                       // password is 123qwe
const phpbbHash = "$H$7ab/cd.Ef/mSBBwFlhkNR4laV4RJ2a0"                        // password is 123qwe
const pass = "123qwe"
const invalidPass = "123qwe123"

func TestPassword(t *testing.T) {
	t.Run("drupal valid password", func(t *testing.T) {
		v := GetValidatorFunc(drupalHash)
		err := v("test")
		assert.Equal(t, err, nil)
	})

	t.Run("drupal invalid password", func(t *testing.T) {
		v := GetValidatorFunc(drupalHash)
		err := v("testwrong")
		assert.Equal(t, err, ErrMismatchedHashAndPassword)
	})

	t.Run("phpass valid password", func(t *testing.T) {
		v := GetValidatorFunc(phpassHash)
		assert.Equal(t, v(pass), nil)
	})

	t.Run("phpass invalid password", func(t *testing.T) {
		v := GetValidatorFunc(phpassHash)
		assert.Equal(t, v(invalidPass), ErrMismatchedHashAndPassword)
	})

	t.Run("phpbb valid password", func(t *testing.T) {
		v := GetValidatorFunc(phpbbHash)
		assert.Equal(t, v(pass), nil)
	})

	t.Run("unknown hash algorithm", func(t *testing.T) {
		v := GetValidatorFunc("1234567837a1f6fd442168ba0b6ce86006116f53")
		assert.Equal(t, v(pass), ErrUnknownHashAlgorithm)
	})

	t.Run("should return validator func", func(t *testing.T) {
		v := GetValidatorFunc(drupalHash)
		assert.Equal(t, reflect.TypeOf(v).String(), "password.ValidatorFunction")
	})

	t.Run("determine validator algorithm", func(t *testing.T) {
		assert.Equal(t, DetermineValidatorAlgorithm(drupalHash), DrupalVal)
		assert.Equal(t, DetermineValidatorAlgorithm("U"+phpassHash), DrupalVal)
		assert.Equal(t, DetermineValidatorAlgorithm("$2a$12$uALFNI10cr/b73fUWsMyOO"), nil)
	})

	t.Run("test ValidateHash()", func(t *testing.T) {
		err := ValidateHash(DrupalVal, phpassHash, pass)
		assert.Equal(t, err, nil)
	})

	t.Run("test ValidateHash() without validator", func(t *testing.T) {
		err := ValidateHash(nil, phpassHash, pass)
		assert.NotEqual(t, err, nil)
	})
}
