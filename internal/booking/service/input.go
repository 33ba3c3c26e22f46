package service

import (
	"errors"
	"strings"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/nyaruka/phonenumbers"
)

// DefaultPhoneRegion is used for numbers written without a country code.
const DefaultPhoneRegion = "VN"

const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
	MaxNameLength     = 100
)

var (
	errInvalidPhone  = errors.New("must be a valid phone number")
	errShortPassword = errors.New("must be at least 8 characters")
	errLongPassword  = errors.New("must be at most 128 characters")
)

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePhone parses raw in region and formats it as E.164.
func NormalizePhone(raw, region string) (string, error) {
	if region == "" {
		region = DefaultPhoneRegion
	}
	num, err := phonenumbers.Parse(strings.TrimSpace(raw), strings.ToUpper(region))
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return "", errInvalidPhone
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

func validatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	switch {
	case n < MinPasswordLength:
		return errShortPassword
	case n > MaxPasswordLength:
		return errLongPassword
	}
	return nil
}

func validateEmail(email string) error {
	return validation.Validate(email, validation.Required, is.Email)
}

func validateName(name string) error {
	return validation.Validate(name, validation.Required, validation.RuneLength(1, MaxNameLength))
}
