// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023 UnderNET

package password

import (
	"crypto/md5"
	"crypto/sha512"
	"fmt"
	"hash"
	"strings"
)

const (
	// DrupalMinHashCount is the minimum allowed log2 number of stretching iterations.
	DrupalMinHashCount = 7
	// DrupalMaxHashCount is the maximum allowed log2 number of stretching iterations.
	DrupalMaxHashCount = 30
	// DrupalHashCount is the log2 iteration count Drupal 7 uses for new hashes.
	DrupalHashCount = 15
	// DrupalHashLength is the expected (and maximum) number of characters in a stored hash.
	DrupalHashLength = 55

	settingLength = 12
	saltLength    = 8
)

// Algorithm is the digest used for password stretching.
type Algorithm int

const (
	AlgoMD5 Algorithm = iota + 1
	AlgoSHA512
)

func (a Algorithm) String() string {
	switch a {
	case AlgoMD5:
		return "md5"
	case AlgoSHA512:
		return "sha512"
	default:
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
}

func (a Algorithm) newHash() (hash.Hash, error) {
	switch a {
	case AlgoMD5:
		return md5.New(), nil
	case AlgoSHA512:
		return sha512.New(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, a)
	}
}

// Setting is the parsed 12 character prefix of a stored hash: "$", the type tag,
// "$", one itoa64 digit holding the log2 iteration count and an 8 character salt.
type Setting struct {
	Prefix    string
	Tag       byte
	CountLog2 int
	Salt      string
}

// parseSetting extracts the iteration exponent and salt from the first 12 characters of setting.
func parseSetting(setting string) (Setting, error) {
	if len(setting) > settingLength {
		setting = setting[:settingLength]
	}
	if len(setting) < 4 || setting[0] != '$' || setting[2] != '$' {
		return Setting{}, ErrInvalidSetting
	}

	countLog2 := strings.IndexByte(itoa64, setting[3])
	if countLog2 < DrupalMinHashCount || countLog2 > DrupalMaxHashCount {
		return Setting{}, fmt.Errorf("%w: iteration count out of range", ErrInvalidSetting)
	}

	salt := setting[4:]
	if len(salt) != saltLength {
		return Setting{}, fmt.Errorf("%w: salt must be %d characters", ErrInvalidSetting, saltLength)
	}

	return Setting{
		Prefix:    setting,
		Tag:       setting[1],
		CountLog2: countLog2,
		Salt:      salt,
	}, nil
}

// stretch hashes salt+password once and then re-hashes digest+password
// 1<<countLog2 more times.
func stretch(algo Algorithm, password, salt []byte, countLog2 int) ([]byte, error) {
	h, err := algo.newHash()
	if err != nil {
		return nil, err
	}

	h.Write(salt)
	h.Write(password)
	sum := h.Sum(nil)

	for count := 1 << countLog2; count > 0; count-- {
		h.Reset()
		h.Write(sum)
		h.Write(password)
		sum = h.Sum(sum[:0])
	}

	return sum, nil
}

// crypt rebuilds the stored form of password for the given setting, truncated to DrupalHashLength.
func crypt(algo Algorithm, password []byte, setting string) (string, error) {
	s, err := parseSetting(setting)
	if err != nil {
		return "", err
	}

	sum, err := stretch(algo, password, []byte(s.Salt), s.CountLog2)
	if err != nil {
		return "", err
	}

	encoded := encode64(sum)
	if len(encoded) != encodedLen(len(sum)) {
		return "", ErrEncodingLengthMismatch
	}

	output := s.Prefix + encoded
	if len(output) > DrupalHashLength {
		output = output[:DrupalHashLength]
	}
	return output, nil
}
