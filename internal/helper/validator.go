// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023 UnderNET

// Package helper provides helper functions
package helper

import (
	"fmt"
	"log"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/locales/en_US"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslation "github.com/go-playground/validator/v10/translations/en"
)

// DrupalUsernameMaxLength is USERNAME_MAX_LENGTH in Drupal 7
const DrupalUsernameMaxLength = 60

// Validator is a wrapper around the validator package
type Validator struct {
	validator *validator.Validate
	transEN   ut.Translator
}

// NewValidator returns a new Validator
func NewValidator() *Validator {
	english := en_US.New()
	uni := ut.New(english, english)
	transEN, found := uni.GetTranslator("en_US")
	if !found {
		log.Fatal("translator not found")
	}
	validate := validator.New()

	// Override the default tag name by using the json tag
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		return field.Tag.Get("json")
	})

	// Register default translations
	if err := enTranslation.RegisterDefaultTranslations(validate, transEN); err != nil {
		log.Fatal(err)
	}

	// Register custom validators
	registerCustomValidators(validate, transEN)

	return &Validator{
		validator: validate,
		transEN:   transEN,
	}
}

// Validate validates a struct based on the tags
func (v *Validator) Validate(i interface{}) error {
	err := v.validator.Struct(i)
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		// Handle non-ValidationErrors (like InvalidValidationError)
		return fmt.Errorf("validation error: %s", err.Error())
	}
	var errs []string
	for _, e := range validationErrors {
		errs = append(errs, e.Translate(v.transEN))
	}
	return fmt.Errorf("%s", strings.Join(errs, ", "))
}

// registerCustomValidators registers custom validation rules
func registerCustomValidators(validate *validator.Validate, trans ut.Translator) {
	register(validate, trans, "drupalusername", validateDrupalUsername,
		"{0} must be a valid Drupal username")
	register(validate, trans, "nocontrolchars", validateNoControlChars,
		"{0} cannot contain control characters")
}

func register(validate *validator.Validate, trans ut.Translator, tag string, fn validator.Func, text string) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		log.Fatal(err)
	}
	if err := validate.RegisterTranslation(tag, trans, func(ut ut.Translator) error {
		return ut.Add(tag, text, true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T(tag, fe.Field())
		return t
	}); err != nil {
		log.Fatal(err)
	}
}

// validateDrupalUsername follows user_validate_name(): no leading, trailing or
// repeated spaces, no control or format characters and at most 60 characters.
func validateDrupalUsername(fl validator.FieldLevel) bool {
	name := fl.Field().String()

	// Let required validator handle empty strings
	if name == "" {
		return true
	}

	if strings.HasPrefix(name, " ") || strings.HasSuffix(name, " ") || strings.Contains(name, "  ") {
		return false
	}
	if len([]rune(name)) > DrupalUsernameMaxLength {
		return false
	}

	for _, r := range name {
		if unicode.IsControl(r) || unicode.Is(unicode.Cf, r) {
			return false
		}
	}

	return true
}

// validateNoControlChars ensures string contains no control characters
func validateNoControlChars(fl validator.FieldLevel) bool {
	str := fl.Field().String()

	for _, r := range str {
		if unicode.IsControl(r) {
			return false
		}
	}

	return true
}
