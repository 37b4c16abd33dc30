// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023 UnderNET

package password

import (
	"crypto/md5"
	"crypto/subtle"
	"fmt"
	"strings"
)

// legacyPrefix marks hashes rewritten by Drupal's user_update_7000(): the stored
// hash was computed over md5(password) instead of the password itself.
const legacyPrefix = "U$"

// algorithmForTag maps the 3 character type tag of a stored hash to its digest.
// phpBB3 uses "$H$" for the same thing as "$P$".
func algorithmForTag(tag string) (Algorithm, bool) {
	switch tag {
	case "$S$":
		return AlgoSHA512, true
	case "$H$", "$P$":
		return AlgoMD5, true
	default:
		return 0, false
	}
}

// splitLegacy strips the "U" of a legacy hash and applies the extra md5 pass to the password.
func splitLegacy(password []byte, storedField string) ([]byte, string, bool) {
	if !strings.HasPrefix(storedField, legacyPrefix) {
		return password, storedField, false
	}
	sum := md5.Sum(password)
	return sum[:], storedField[1:], true
}

// Check verifies password against a Drupal 7 stored hash field. It returns nil on a
// match and an error wrapping ErrMismatchedHashAndPassword otherwise; the wrapped
// cause tells a malformed hash apart from a wrong password for logging only.
func Check(password, storedField string) error {
	pw, storedHash, _ := splitLegacy([]byte(password), storedField)

	if len(storedHash) < 3 {
		return fmt.Errorf("%w: %w", ErrMismatchedHashAndPassword, ErrUnknownHashAlgorithm)
	}
	algo, ok := algorithmForTag(storedHash[:3])
	if !ok {
		return fmt.Errorf("%w: %w", ErrMismatchedHashAndPassword, ErrUnknownHashAlgorithm)
	}

	computed, err := crypt(algo, pw, storedHash)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMismatchedHashAndPassword, err)
	}

	if subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) != 1 {
		return ErrMismatchedHashAndPassword
	}
	return nil
}

// Matches reports whether password matches the Drupal 7 stored hash field. Malformed
// hashes never match.
func Matches(password, storedField string) bool {
	return Check(password, storedField) == nil
}

// IsDrupalHash reports whether hash carries one of the recognized Drupal type tags.
func IsDrupalHash(hash string) bool {
	_, storedHash, _ := splitLegacy(nil, hash)
	if len(storedHash) < 3 {
		return false
	}
	_, ok := algorithmForTag(storedHash[:3])
	return ok
}

// HashInfo describes a stored hash without revealing its salt or digest.
type HashInfo struct {
	Tag         string `json:"tag"`
	Algorithm   string `json:"algorithm"`
	CountLog2   int    `json:"count_log2"`
	Legacy      bool   `json:"legacy"`
	NeedsRehash bool   `json:"needs_rehash"`
}

// Info parses the setting of a stored hash. A hash needs rehashing when it is a
// legacy or md5 hash, or when its iteration count differs from DrupalHashCount.
func Info(hash string) (HashInfo, error) {
	_, storedHash, legacy := splitLegacy(nil, hash)
	if len(storedHash) < 3 {
		return HashInfo{}, ErrUnknownHashAlgorithm
	}
	algo, ok := algorithmForTag(storedHash[:3])
	if !ok {
		return HashInfo{}, ErrUnknownHashAlgorithm
	}

	s, err := parseSetting(storedHash)
	if err != nil {
		return HashInfo{}, err
	}

	return HashInfo{
		Tag:         "$" + string(s.Tag) + "$",
		Algorithm:   algo.String(),
		CountLog2:   s.CountLog2,
		Legacy:      legacy,
		NeedsRehash: legacy || algo != AlgoSHA512 || s.CountLog2 != DrupalHashCount,
	}, nil
}

// DrupalValidator is the Drupal 7 implementation of the Validator interface.
type DrupalValidator struct{}

// ValidateHash validates the given password hash against the given password.
func (v DrupalValidator) ValidateHash(passwordHash string, password string) error {
	return Check(password, passwordHash)
}
