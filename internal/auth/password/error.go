// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023 UnderNET

package password

import "errors"

var (
	// ErrMismatchedHashAndPassword is the only error a caller sees for a failed verification,
	// whether the password was wrong or the stored hash was malformed.
	ErrMismatchedHashAndPassword = errors.New("mismatched password hash and password")
	// ErrUnknownHashAlgorithm is returned when the hash type tag is not recognized.
	ErrUnknownHashAlgorithm = errors.New("unknown hash algorithm")
	// ErrInvalidSetting is returned for a malformed 12 character setting prefix.
	ErrInvalidSetting = errors.New("invalid hash setting")
	// ErrUnsupportedAlgorithm is returned when stretching is asked for a digest it does not know.
	ErrUnsupportedAlgorithm = errors.New("unsupported digest algorithm")
	// ErrEncodingLengthMismatch signals that the encoded digest has an unexpected length.
	ErrEncodingLengthMismatch = errors.New("encoded hash length mismatch")
)
