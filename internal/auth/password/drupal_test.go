// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023 UnderNET

package password

import (
	"crypto/md5"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	sha512LowCountHash = "$S$5saltsaltBDueMPUt6OjEFw0.Qsx/kHA62vAbPoTxwSgVNn3lZ5a"  // password is 123qwe
	legacySHA512Hash   = "U$S$5saltsaltXNqG13UjwvxeFQxqVQlLH8S39HkHpTtUH3iRq7XfPhi" // password is 123qwe
	legacyMD5Hash      = "U$P$5saltsaltyOZCdaLx6Q0mG3P8I7sMf0"                      // password is 123qwe
)

func TestMatches(t *testing.T) {
	tests := []struct {
		name     string
		password string
		stored   string
		want     bool
	}{
		{"drupal reference hash", "test", drupalHash, true},
		{"drupal reference hash wrong password", "testwrong", drupalHash, false},
		{"sha512 low count", pass, sha512LowCountHash, true},
		{"sha512 low count wrong password", invalidPass, sha512LowCountHash, false},
		{"phpass md5", pass, phpassHash, true},
		{"phpass md5 wrong password", invalidPass, phpassHash, false},
		{"phpbb md5", pass, phpbbHash, true},
		{"legacy sha512", pass, legacySHA512Hash, true},
		{"legacy sha512 wrong password", invalidPass, legacySHA512Hash, false},
		{"legacy md5", pass, legacyMD5Hash, true},
		{"empty password", "", drupalHash, false},
		{"empty stored field", pass, "", false},
		{"truncated digest", "test", drupalHash[:40], false},
		{"trailing garbage", "test", drupalHash + "x", false},
		{"tag swapped to md5", "test", "$P$" + drupalHash[3:], false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.password, tt.stored))
		})
	}
}

func TestMatchesUnknownTag(t *testing.T) {
	for _, stored := range []string{
		"$X$Cj2LSFHNpJKa8DtM47ANlUaRfBqdrSY7346FHCbooPWI9I6YPKNk",
		"$2a$12$uALFNI10cr/b73fUWsMyOOx1DRT4n41UZiiMClZIQil/mBKs4szrW",
		"1234567837a1f6fd442168ba0b6ce86006116f53",
		"U$X$Cj2LSFHNpJKa8DtM47ANlUaRfBqdrSY7346FHCbooPWI9I6YPKNk",
		"U$",
		"U",
		"$S",
		"$",
	} {
		t.Run(stored, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.False(t, Matches("test", stored))
			})
			err := Check("test", stored)
			assert.ErrorIs(t, err, ErrMismatchedHashAndPassword)
			assert.ErrorIs(t, err, ErrUnknownHashAlgorithm)
		})
	}
}

func TestMatchesCountOutOfRange(t *testing.T) {
	for i := 0; i < len(itoa64); i++ {
		if i >= DrupalMinHashCount && i <= DrupalMaxHashCount {
			continue
		}
		stored := "$S$" + string(itoa64[i]) + drupalHash[4:]
		for _, pw := range []string{"test", "", pass} {
			assert.False(t, Matches(pw, stored), "digit %q", itoa64[i])
		}
		assert.ErrorIs(t, Check("test", stored), ErrInvalidSetting)
	}

	assert.False(t, Matches("test", "$S$ j2LSFHNpJKa8DtM47ANlUaRfBqdrSY7346FHCbooPWI9I6YPKNk"))
}

func TestMatchesMalformedSalt(t *testing.T) {
	for _, stored := range []string{"$S$C", "$S$Cj2", "$S$Cj2LSFHN", "$P$9abcdefg", "U$S$Cj2LSFH"} {
		t.Run(stored, func(t *testing.T) {
			assert.False(t, Matches("test", stored))
			assert.ErrorIs(t, Check("test", stored), ErrInvalidSetting)
		})
	}
}

func TestCheckMismatchIsOpaque(t *testing.T) {
	err := Check(invalidPass, phpassHash)
	assert.Equal(t, ErrMismatchedHashAndPassword, err)

	err = Check(pass, "$S$4saltsaltBDueMPUt6OjEFw0.Qsx/kHA62vAbPoTxwSgVNn3lZ5a")
	assert.ErrorIs(t, err, ErrMismatchedHashAndPassword)
	assert.Equal(t, "mismatched password hash and password: invalid hash setting: iteration count out of range", err.Error())
}

func TestLegacyPreHash(t *testing.T) {
	// The "U$" form must verify md5(password) through the regular pipeline,
	// and the unprefixed hash must accept the raw md5 digest as a password.
	digest := md5.Sum([]byte(pass))

	for _, legacy := range []string{legacySHA512Hash, legacyMD5Hash} {
		t.Run(legacy[:4], func(t *testing.T) {
			unprefixed := legacy[1:]

			assert.True(t, Matches(pass, legacy))
			assert.True(t, Matches(string(digest[:]), unprefixed))
			assert.False(t, Matches(pass, unprefixed))

			algo, ok := algorithmForTag(unprefixed[:3])
			require.True(t, ok)
			computed, err := crypt(algo, digest[:], unprefixed)
			require.NoError(t, err)
			assert.Equal(t, unprefixed, computed)
		})
	}
}

func TestMatchesConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	results := make([]bool, 16)

	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				results[i] = Matches(pass, sha512LowCountHash)
			} else {
				results[i] = Matches(invalidPass, phpassHash)
			}
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		assert.Equal(t, i%2 == 0, got, "goroutine %d", i)
	}
}

func TestIsDrupalHash(t *testing.T) {
	assert.True(t, IsDrupalHash(drupalHash))
	assert.True(t, IsDrupalHash(phpassHash))
	assert.True(t, IsDrupalHash(phpbbHash))
	assert.True(t, IsDrupalHash(legacyMD5Hash))
	assert.False(t, IsDrupalHash("$X$abc"))
	assert.False(t, IsDrupalHash("U$"))
	assert.False(t, IsDrupalHash(strings.Repeat("a", 40)))
}

func TestInfo(t *testing.T) {
	tests := []struct {
		name string
		hash string
		want HashInfo
	}{
		{"drupal sha512", drupalHash, HashInfo{Tag: "$S$", Algorithm: "sha512", CountLog2: 14, NeedsRehash: true}},
		{"drupal default count", "$S$DsaltsaltBDueMPUt6OjEFw0.Qsx/kHA62vAbPoTxwSgVNn3lZ5a", HashInfo{Tag: "$S$", Algorithm: "sha512", CountLog2: 15}},
		{"phpass", phpassHash, HashInfo{Tag: "$P$", Algorithm: "md5", CountLog2: 11, NeedsRehash: true}},
		{"phpbb", phpbbHash, HashInfo{Tag: "$H$", Algorithm: "md5", CountLog2: 9, NeedsRehash: true}},
		{"legacy", legacySHA512Hash, HashInfo{Tag: "$S$", Algorithm: "sha512", CountLog2: 7, Legacy: true, NeedsRehash: true}},
		{"legacy md5", legacyMD5Hash, HashInfo{Tag: "$P$", Algorithm: "md5", CountLog2: 7, Legacy: true, NeedsRehash: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Info(tt.hash)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Info("$X$abc")
	assert.ErrorIs(t, err, ErrUnknownHashAlgorithm)

	_, err = Info("$S$4saltsalt")
	assert.ErrorIs(t, err, ErrInvalidSetting)
}
