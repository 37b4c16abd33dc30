// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023 UnderNET

package helper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator_Translation(t *testing.T) {
	type testStruct struct {
		Field string `validate:"required"`
	}
	v := NewValidator()
	err := v.Validate(testStruct{})
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "Field is a required field" {
		t.Fatalf("expected error to be 'Field is a required field', got '%s'", err.Error())
	}
}

func TestValidator_DrupalUsername(t *testing.T) {
	type login struct {
		Login string `json:"login" validate:"required,drupalusername"`
	}
	v := NewValidator()

	tests := []struct {
		name  string
		login string
		valid bool
	}{
		{"simple", "alice", true},
		{"with space", "Alice Smith", true},
		{"with at sign", "alice@example.org", true},
		{"unicode", "jürgen", true},
		{"sixty chars", strings.Repeat("a", 60), true},
		{"leading space", " alice", false},
		{"trailing space", "alice ", false},
		{"double space", "alice  smith", false},
		{"too long", strings.Repeat("a", 61), false},
		{"control char", "ali\x00ce", false},
		{"format char", "ali\u200bce", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(login{Login: tt.login})
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}

	err := v.Validate(login{Login: " alice"})
	assert.EqualError(t, err, "login must be a valid Drupal username")
}

func TestValidator_NoControlChars(t *testing.T) {
	type secret struct {
		Password string `json:"password" validate:"nocontrolchars"`
	}
	v := NewValidator()

	assert.NoError(t, v.Validate(secret{Password: "p4ss word!"}))
	assert.EqualError(t, v.Validate(secret{Password: "p4ss\nword"}), "password cannot contain control characters")
}
