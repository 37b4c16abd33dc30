// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023 UnderNET

package password

import (
	"crypto/md5"
	"crypto/sha512"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSetting(t *testing.T) {
	t.Run("valid setting from stored hash", func(t *testing.T) {
		s, err := parseSetting(drupalHash)
		require.NoError(t, err)
		assert.Equal(t, "$S$Cj2LSFHNp", s.Prefix)
		assert.Equal(t, byte('S'), s.Tag)
		assert.Equal(t, 14, s.CountLog2)
		assert.Equal(t, "j2LSFHNp", s.Salt)
	})

	t.Run("bare setting", func(t *testing.T) {
		s, err := parseSetting("$P$5saltsalt")
		require.NoError(t, err)
		assert.Equal(t, DrupalMinHashCount, s.CountLog2)
		assert.Equal(t, "saltsalt", s.Salt)
	})

	tests := []struct {
		name    string
		setting string
	}{
		{"empty", ""},
		{"too short", "$S$"},
		{"missing leading dollar", "S$Cj2LSFHNpJ"},
		{"missing second dollar", "$SSCj2LSFHNpJ"},
		{"count below minimum", "$S$4j2LSFHNp"},
		{"count above maximum", "$S$Uj2LSFHNp"},
		{"count not in alphabet", "$S$!j2LSFHNp"},
		{"short salt", "$S$Cj2LSFH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseSetting(tt.setting)
			assert.ErrorIs(t, err, ErrInvalidSetting)
		})
	}
}

func TestParseSettingCountBounds(t *testing.T) {
	for i := 0; i < len(itoa64); i++ {
		setting := "$S$" + string(itoa64[i]) + "saltsalt"
		s, err := parseSetting(setting)
		if i < DrupalMinHashCount || i > DrupalMaxHashCount {
			assert.ErrorIs(t, err, ErrInvalidSetting, "digit %q", itoa64[i])
			continue
		}
		require.NoError(t, err, "digit %q", itoa64[i])
		assert.Equal(t, i, s.CountLog2)
	}
}

func TestStretch(t *testing.T) {
	password := []byte("correct horse")
	salt := []byte("abcdefgh")

	t.Run("md5 runs count plus one digests", func(t *testing.T) {
		sum := md5.Sum(append(append([]byte{}, salt...), password...))
		for i := 0; i < 1<<7; i++ {
			sum = md5.Sum(append(sum[:], password...))
		}

		got, err := stretch(AlgoMD5, password, salt, 7)
		require.NoError(t, err)
		assert.Equal(t, sum[:], got)
		assert.Len(t, got, md5.Size)
	})

	t.Run("sha512 runs count plus one digests", func(t *testing.T) {
		sum := sha512.Sum512(append(append([]byte{}, salt...), password...))
		for i := 0; i < 1<<8; i++ {
			sum = sha512.Sum512(append(sum[:], password...))
		}

		got, err := stretch(AlgoSHA512, password, salt, 8)
		require.NoError(t, err)
		assert.Equal(t, sum[:], got)
		assert.Len(t, got, sha512.Size)
	})

	t.Run("unsupported algorithm", func(t *testing.T) {
		_, err := stretch(Algorithm(42), password, salt, 7)
		assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
	})
}

func TestCryptRoundTrip(t *testing.T) {
	settings := []string{
		"$S$5saltsalt",
		"$S$6./AZaz09",
		"$S$7abcdefgh",
		"$P$5saltsalt",
		"$P$8zzzzzzzz",
		"$H$7ab/cd.Ef",
	}
	passwords := []string{"", "test", "pässwörd", strings.Repeat("x", 200)}

	for _, setting := range settings {
		algo, ok := algorithmForTag(setting[:3])
		require.True(t, ok)
		for _, pw := range passwords {
			stored, err := crypt(algo, []byte(pw), setting)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(stored, setting))
			assert.LessOrEqual(t, len(stored), DrupalHashLength)

			assert.True(t, Matches(pw, stored), "setting %s", setting)
			assert.False(t, Matches(pw+"!", stored), "setting %s", setting)
		}
	}
}

func TestCryptLength(t *testing.T) {
	md5Hash, err := crypt(AlgoMD5, []byte(pass), "$P$5saltsalt")
	require.NoError(t, err)
	assert.Len(t, md5Hash, settingLength+22)

	shaHash, err := crypt(AlgoSHA512, []byte(pass), "$S$5saltsalt")
	require.NoError(t, err)
	assert.Len(t, shaHash, DrupalHashLength)
}
